package app

import (
	"github.com/kent-id/tsodbc/types"
	"github.com/kent-id/tsodbc/value"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Date and time conversion", func() {
	var ts value.Timestamp

	BeforeEach(func() {
		var err error
		ts, err = value.ParseTimestamp("2022-11-09 23:52:51.554000000")
		Expect(err).ToNot(HaveOccurred())
	})

	Context("timestamp", func() {
		It("should format into character buffers", func() {
			buf, data, ind := newTestBuffer(types.NativeChar, 64)
			Expect(buf.PutTimestamp(ts)).To(Equal(ConversionSuccess))
			Expect(string(data[:29])).To(Equal("2022-11-09 23:52:51.554000000"))
			Expect(data[29]).To(Equal(byte(0)))
			Expect(*ind).To(Equal(int64(29)))
		})

		It("should copy every field into the timestamp struct", func() {
			buf, data, _ := newTestBuffer(types.NativeTimestamp, 16)
			Expect(buf.PutTimestamp(ts)).To(Equal(ConversionSuccess))
			Expect(readAt[types.TimestampStruct](data)).To(Equal(types.TimestampStruct{
				Year: 2022, Month: 11, Day: 9, Hour: 23, Minute: 52, Second: 51, Fraction: 554000000,
			}))
		})

		It("should report the dropped time of day for date targets", func() {
			buf, data, _ := newTestBuffer(types.NativeDate, 6)
			Expect(buf.PutTimestamp(ts)).To(Equal(ConversionFractionalTruncated))
			Expect(readAt[types.DateStruct](data)).To(Equal(types.DateStruct{Year: 2022, Month: 11, Day: 9}))
		})

		It("should not report midnight timestamps converted to dates", func() {
			buf, _, _ := newTestBuffer(types.NativeDate, 6)
			Expect(buf.PutTimestamp(value.Timestamp{Date: ts.Date})).To(Equal(ConversionSuccess))
		})

		It("should report dropped fractions for time targets", func() {
			buf, data, _ := newTestBuffer(types.NativeTime, 6)
			Expect(buf.PutTimestamp(ts)).To(Equal(ConversionFractionalTruncated))
			Expect(readAt[types.TimeStruct](data)).To(Equal(types.TimeStruct{Hour: 23, Minute: 52, Second: 51}))
		})

		It("should reject numeric targets", func() {
			buf, _, _ := newTestBuffer(types.NativeSignedLong, 4)
			Expect(buf.PutTimestamp(ts)).To(Equal(ConversionUnsupported))
		})
	})

	Context("date", func() {
		It("should zero the time of day of timestamp targets", func() {
			buf, data, _ := newTestBuffer(types.NativeTimestamp, 16)
			Expect(buf.PutDate(ts.Date)).To(Equal(ConversionSuccess))
			Expect(readAt[types.TimestampStruct](data)).To(Equal(types.TimestampStruct{Year: 2022, Month: 11, Day: 9}))
		})

		It("should not convert to time", func() {
			buf, _, _ := newTestBuffer(types.NativeTime, 6)
			Expect(buf.PutDate(ts.Date)).To(Equal(ConversionUnsupported))
		})
	})

	Context("time", func() {
		It("should format with nine fraction digits", func() {
			buf, data, _ := newTestBuffer(types.NativeChar, 32)
			Expect(buf.PutTime(ts.Time)).To(Equal(ConversionSuccess))
			Expect(string(data[:19])).To(Equal("23:52:51.554000000\x00"))
		})

		It("should use the epoch date for timestamp targets", func() {
			buf, data, _ := newTestBuffer(types.NativeTimestamp, 16)
			Expect(buf.PutTime(ts.Time)).To(Equal(ConversionSuccess))
			out := readAt[types.TimestampStruct](data)
			Expect([]int{int(out.Year), int(out.Month), int(out.Day)}).To(Equal([]int{1970, 1, 1}))
			Expect(out.Fraction).To(Equal(uint32(554000000)))
		})

		It("should not convert to date", func() {
			buf, _, _ := newTestBuffer(types.NativeDate, 6)
			Expect(buf.PutTime(ts.Time)).To(Equal(ConversionUnsupported))
		})
	})

	Context("year-month interval", func() {
		iv := value.NewIntervalYearMonth(-14)

		It("should format into character buffers", func() {
			buf, data, _ := newTestBuffer(types.NativeChar, 16)
			Expect(buf.PutIntervalYearMonth(iv)).To(Equal(ConversionSuccess))
			Expect(string(data[:5])).To(Equal("-1-2\x00"))
		})

		It("should copy both fields with the sign", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalYearToMonth, 28)
			Expect(buf.PutIntervalYearMonth(iv)).To(Equal(ConversionSuccess))
			out := readAt[types.IntervalStruct](data)
			Expect(out.IntervalType).To(Equal(types.IsYearToMonth))
			Expect(out.IsNegative()).To(BeTrue())
			y, m := out.YearMonth()
			Expect([]uint32{y, m}).To(Equal([]uint32{1, 2}))
		})

		It("should report dropped months for year targets", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalYear, 28)
			Expect(buf.PutIntervalYearMonth(iv)).To(Equal(ConversionFractionalTruncated))
			out := readAt[types.IntervalStruct](data)
			y, _ := out.YearMonth()
			Expect(y).To(Equal(uint32(1)))
		})

		It("should express the whole length in months", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalMonth, 28)
			Expect(buf.PutIntervalYearMonth(iv)).To(Equal(ConversionSuccess))
			out := readAt[types.IntervalStruct](data)
			_, m := out.YearMonth()
			Expect(m).To(Equal(uint32(14)))
		})

		It("should not convert to day-second targets", func() {
			buf, _, _ := newTestBuffer(types.NativeIntervalDay, 28)
			Expect(buf.PutIntervalYearMonth(iv)).To(Equal(ConversionUnsupported))
		})
	})

	Context("day-second interval", func() {
		var iv value.IntervalDaySecond

		BeforeEach(func() {
			var err error
			iv, err = value.ParseIntervalDaySecond("1 02:03:04.5")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should format into character buffers", func() {
			buf, data, _ := newTestBuffer(types.NativeChar, 32)
			Expect(buf.PutIntervalDaySecond(iv)).To(Equal(ConversionSuccess))
			Expect(string(data[:22])).To(Equal("1 02:03:04.500000000\x00\x00"))
		})

		It("should copy every field into day-to-second targets", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalDayToSecond, 28)
			Expect(buf.PutIntervalDaySecond(iv)).To(Equal(ConversionSuccess))
			out := readAt[types.IntervalStruct](data)
			Expect(out.IntervalType).To(Equal(types.IsDayToSecond))
			Expect(out.IsNegative()).To(BeFalse())
			d, h, m, s, f := out.DaySecond()
			Expect([]uint32{d, h, m, s, f}).To(Equal([]uint32{1, 2, 3, 4, 500000000}))
		})

		It("should fold days into the leading field", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalHourToMinute, 28)
			Expect(buf.PutIntervalDaySecond(iv)).To(Equal(ConversionFractionalTruncated))
			out := readAt[types.IntervalStruct](data)
			d, h, m, s, f := out.DaySecond()
			Expect([]uint32{d, h, m, s, f}).To(Equal([]uint32{0, 26, 3, 0, 0}))
		})

		It("should set the sign of negative intervals", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalSecond, 28)
			Expect(buf.PutIntervalDaySecond(value.NewIntervalDaySecond(-1500000000))).To(Equal(ConversionSuccess))
			out := readAt[types.IntervalStruct](data)
			Expect(out.IsNegative()).To(BeTrue())
			_, _, _, s, f := out.DaySecond()
			Expect([]uint32{s, f}).To(Equal([]uint32{1, 500000000}))
		})

		It("should not convert to year-month targets", func() {
			buf, _, _ := newTestBuffer(types.NativeIntervalYearToMonth, 28)
			Expect(buf.PutIntervalDaySecond(iv)).To(Equal(ConversionUnsupported))
		})
	})
})
