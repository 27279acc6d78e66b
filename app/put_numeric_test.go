package app

import (
	"math"

	"github.com/kent-id/tsodbc/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Numeric conversion", func() {
	Context("numeric targets", func() {
		It("should widen integers", func() {
			buf, data, ind := newTestBuffer(types.NativeSignedBigint, 8)
			Expect(buf.PutInt32(-7)).To(Equal(ConversionSuccess))
			Expect(readAt[int64](data)).To(Equal(int64(-7)))
			Expect(*ind).To(Equal(int64(8)))
		})

		It("should narrow out-of-range values silently", func() {
			buf, data, _ := newTestBuffer(types.NativeSignedTinyint, 1)
			Expect(buf.PutInt64(300)).To(Equal(ConversionSuccess))
			Expect(readAt[int8](data)).To(Equal(int8(44)))
		})

		It("should store booleans as bits", func() {
			buf, data, _ := newTestBuffer(types.NativeBit, 1)
			Expect(buf.PutBool(true)).To(Equal(ConversionSuccess))
			Expect(data[0]).To(Equal(byte(1)))
			Expect(buf.PutInt32(0)).To(Equal(ConversionSuccess))
			Expect(data[0]).To(Equal(byte(0)))
		})

		It("should convert doubles to floats", func() {
			buf, data, _ := newTestBuffer(types.NativeFloat, 4)
			Expect(buf.PutDouble(0.5)).To(Equal(ConversionSuccess))
			Expect(readAt[float32](data)).To(Equal(float32(0.5)))
		})

		It("should write the source type natively for the default target", func() {
			buf, data, ind := newTestBuffer(types.NativeDefault, 8)
			Expect(buf.PutDouble(1.25)).To(Equal(ConversionSuccess))
			Expect(readAt[float64](data)).To(Equal(1.25))
			Expect(*ind).To(Equal(int64(8)))
		})
	})

	Context("character targets", func() {
		It("should format integers", func() {
			buf, data, ind := newTestBuffer(types.NativeChar, 8)
			Expect(buf.PutInt64(-1234)).To(Equal(ConversionSuccess))
			Expect(string(data[:6])).To(Equal("-1234\x00"))
			Expect(*ind).To(Equal(int64(5)))
		})

		It("should format unsigned integers beyond the signed range", func() {
			Expect(formatNumber(uint64(math.MaxUint64))).To(Equal("18446744073709551615"))
		})

		It("should format doubles without exponent in the common range", func() {
			Expect(formatNumber(1.5)).To(Equal("1.5"))
			Expect(formatNumber(100.0)).To(Equal("100"))
			Expect(formatNumber(1e-7)).To(Equal("1E-07"))
		})

		It("should spell non-finite doubles", func() {
			Expect(formatNumber(math.Inf(1))).To(Equal("Infinity"))
			Expect(formatNumber(math.Inf(-1))).To(Equal("-Infinity"))
			Expect(formatNumber(math.NaN())).To(Equal("NaN"))
		})

		It("should flag truncated numbers", func() {
			buf, data, _ := newTestBuffer(types.NativeChar, 3)
			Expect(buf.PutInt32(12345)).To(Equal(ConversionVarlenDataTruncated))
			Expect(string(data)).To(Equal("12\x00"))
		})
	})

	Context("numeric struct", func() {
		It("should store the magnitude little-endian with scale zero", func() {
			buf, data, _ := newTestBuffer(types.NativeNumeric, 19)
			Expect(buf.PutInt64(-1234)).To(Equal(ConversionSuccess))
			n := readAt[types.NumericStruct](data)
			Expect(n.Sign).To(Equal(uint8(0)))
			Expect(n.Scale).To(Equal(int8(0)))
			Expect(n.Precision).To(Equal(uint8(4)))
			Expect(n.Val[0]).To(Equal(uint8(0xD2)))
			Expect(n.Val[1]).To(Equal(uint8(0x04)))
			Expect(n.Val[2]).To(Equal(uint8(0)))
		})

		It("should drop the fraction of doubles", func() {
			buf, data, _ := newTestBuffer(types.NativeNumeric, 19)
			Expect(buf.PutDouble(2.75)).To(Equal(ConversionFractionalTruncated))
			n := readAt[types.NumericStruct](data)
			Expect(NumericToDecimal(n).String()).To(Equal("2"))
		})

		It("should keep the scale of decimals", func() {
			buf, data, _ := newTestBuffer(types.NativeNumeric, 19)
			Expect(buf.PutDecimal(decimal.RequireFromString("12.345"))).To(Equal(ConversionSuccess))
			n := readAt[types.NumericStruct](data)
			Expect(n.Sign).To(Equal(uint8(1)))
			Expect(n.Scale).To(Equal(int8(3)))
			Expect(n.Precision).To(Equal(uint8(5)))
			Expect(NumericToDecimal(n).String()).To(Equal("12.345"))
		})

		It("should reduce the scale of values wider than 128 bits", func() {
			buf, data, _ := newTestBuffer(types.NativeNumeric, 19)
			d := decimal.RequireFromString("9999999999999999999999999999999999999.999")
			Expect(buf.PutDecimal(d)).To(Equal(ConversionFractionalTruncated))
			n := readAt[types.NumericStruct](data)
			Expect(n.Scale).To(Equal(int8(1)))
			Expect(NumericToDecimal(n).String()).To(Equal("9999999999999999999999999999999999999.9"))
		})
	})

	Context("decimal", func() {
		It("should report dropped fractions for integer targets", func() {
			buf, data, _ := newTestBuffer(types.NativeSignedLong, 4)
			Expect(buf.PutDecimal(decimal.RequireFromString("-12.5"))).To(Equal(ConversionFractionalTruncated))
			Expect(readAt[int32](data)).To(Equal(int32(-12)))
		})

		It("should format into character buffers", func() {
			buf, data, _ := newTestBuffer(types.NativeChar, 16)
			Expect(buf.PutDecimal(decimal.RequireFromString("3.14159"))).To(Equal(ConversionSuccess))
			Expect(string(data[:8])).To(Equal("3.14159\x00"))
		})
	})

	Context("single-field intervals", func() {
		It("should fill the only field", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalHour, 28)
			Expect(buf.PutInt32(-5)).To(Equal(ConversionSuccess))
			iv := readAt[types.IntervalStruct](data)
			Expect(iv.IntervalType).To(Equal(types.IsHour))
			Expect(iv.IsNegative()).To(BeTrue())
			Expect(iv.Fields[1]).To(Equal(uint32(5)))
		})
	})

	Context("row arrays", func() {
		It("should write each element at its own offset", func() {
			data := make([]byte, 16)
			inds := make([]int64, 4)
			buf := NewBufferFor(types.NativeSignedLong, data, &inds[0])
			for i := int64(0); i < 4; i++ {
				buf.SetElementOffset(i)
				Expect(buf.PutInt64(i * 10)).To(Equal(ConversionSuccess))
			}
			for i := 0; i < 4; i++ {
				Expect(readAt[int32](data[4*i:])).To(Equal(int32(i * 10)))
				Expect(inds[i]).To(Equal(int64(4)))
			}
		})

		It("should shift the whole binding by the byte offset", func() {
			data := make([]byte, 16)
			inds := make([]int64, 2)
			buf := NewApplicationDataBuffer(types.NativeSignedBigint, unsafePointer(data), 8, &inds[0])
			buf.SetByteOffset(8)
			Expect(buf.PutInt64(99)).To(Equal(ConversionSuccess))
			Expect(readAt[int64](data[8:])).To(Equal(int64(99)))
			Expect(readAt[int64](data)).To(Equal(int64(0)))
			Expect(inds[1]).To(Equal(int64(8)))
		})
	})

	Context("NULL", func() {
		It("should write the NULL indicator", func() {
			buf, _, ind := newTestBuffer(types.NativeSignedLong, 4)
			Expect(buf.PutNull()).To(Equal(ConversionSuccess))
			Expect(*ind).To(Equal(types.NullData))
		})

		It("should need an indicator", func() {
			buf := NewBufferFor(types.NativeSignedLong, make([]byte, 4), nil)
			Expect(buf.PutNull()).To(Equal(ConversionIndicatorNeeded))
		})
	})
})
