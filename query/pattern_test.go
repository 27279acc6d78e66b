package query

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("SearchPattern", func() {
	DescribeTable("matching names",
		func(pattern, name string, expected bool) {
			Expect(NewSearchPattern(pattern).Match(name)).To(Equal(expected))
		},
		Entry("empty pattern", "", "anything", true),
		Entry("percent alone", "%", "anything", true),
		Entry("exact name", "sensors", "sensors", true),
		Entry("exact name differs", "sensors", "sensors2", false),
		Entry("prefix", "sens%", "sensors", true),
		Entry("single character", "t_", "t1", true),
		Entry("single character needs one", "t_", "t", false),
		Entry("escaped underscore", `a\_b`, "a_b", true),
		Entry("escaped underscore is literal", `a\_b`, "axb", false),
		Entry("escaped percent", `100\%`, "100%", true),
		Entry("regexp characters are literal", "a.b", "axb", false),
		Entry("case sensitive", "Sensors", "sensors", false),
	)

	It("should know when it filters nothing", func() {
		Expect(NewSearchPattern("").MatchesAll()).To(BeTrue())
		Expect(NewSearchPattern("%").MatchesAll()).To(BeTrue())
		Expect(NewSearchPattern("a%").MatchesAll()).To(BeFalse())
	})
})
