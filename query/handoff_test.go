package query

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("pageHandoff", func() {
	var h *pageHandoff

	BeforeEach(func() {
		h = newPageHandoff()
	})

	It("should hold one outcome until it is taken", func() {
		page := &timestreamquery.QueryOutput{NextToken: aws.String("1")}
		Expect(h.put(pageOutcome{output: page})).To(BeTrue())
		Expect(h.pending()).To(Equal(1))

		outcome, err := h.take(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(outcome.output).To(BeIdenticalTo(page))
		Expect(h.pending()).To(Equal(0))
	})

	It("should block a second producer until the slot is free", func() {
		Expect(h.put(pageOutcome{})).To(BeTrue())
		done := make(chan bool)
		go func() {
			done <- h.put(pageOutcome{})
		}()
		Consistently(done, 100*time.Millisecond).ShouldNot(Receive())
		_, err := h.take(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Eventually(done).Should(Receive(BeTrue()))
	})

	It("should release a blocked producer on close", func() {
		Expect(h.put(pageOutcome{})).To(BeTrue())
		done := make(chan bool)
		go func() {
			done <- h.put(pageOutcome{})
		}()
		h.close()
		Eventually(done).Should(Receive(BeFalse()))
		h.drain()
		Expect(h.pending()).To(Equal(0))
	})

	It("should wake a waiting consumer on close", func() {
		go func() {
			time.Sleep(20 * time.Millisecond)
			h.close()
			h.close()
		}()
		_, err := h.take(context.Background())
		Expect(err).To(MatchError(errHandoffClosed))
	})

	It("should stop waiting when the context ends", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := h.take(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should drop outcomes after close", func() {
		h.close()
		Expect(h.put(pageOutcome{})).To(BeFalse())
		Expect(h.pending()).To(Equal(0))
	})
})
