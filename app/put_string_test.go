package app

import (
	"github.com/kent-id/tsodbc/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("String buffer", func() {
	Context("narrow", func() {
		It("should write the string with terminator when it fits", func() {
			buf, data, ind := newTestBuffer(types.NativeChar, 16)
			Expect(buf.PutStrToStrBuffer("hello")).To(Equal(ConversionSuccess))
			Expect(string(data[:6])).To(Equal("hello\x00"))
			Expect(*ind).To(Equal(int64(5)))
		})

		It("should truncate to capacity minus one and terminate", func() {
			buf, data, ind := newTestBuffer(types.NativeChar, 4)
			Expect(buf.PutStrToStrBuffer("abcdefgh")).To(Equal(ConversionVarlenDataTruncated))
			Expect(data).To(Equal([]byte("abc\x00")))
			Expect(*ind).To(Equal(int64(8)))
		})

		It("should report truncation when only the terminator is missing", func() {
			buf, data, _ := newTestBuffer(types.NativeChar, 5)
			Expect(buf.PutStrToStrBuffer("abcde")).To(Equal(ConversionVarlenDataTruncated))
			Expect(data).To(Equal([]byte("abcd\x00")))
		})

		It("should report the required length for a nil destination", func() {
			var ind int64
			buf := NewApplicationDataBuffer(types.NativeChar, nil, 0, &ind)
			Expect(buf.PutStrToStrBuffer("abcdefgh")).To(Equal(ConversionSuccess))
			Expect(ind).To(Equal(int64(8)))
		})

		It("should not split a multi-byte character", func() {
			buf, data, ind := newTestBuffer(types.NativeChar, 3)
			Expect(buf.PutStrToStrBuffer("héllo")).To(Equal(ConversionVarlenDataTruncated))
			Expect(data[:2]).To(Equal([]byte("h\x00")))
			Expect(*ind).To(Equal(int64(len("héllo"))))
		})

		It("should never write past the declared length", func() {
			data := []byte("..........")
			ind := new(int64)
			buf := NewBufferFor(types.NativeChar, data[:4], ind)
			buf.PutStrToStrBuffer("abcdefgh")
			Expect(string(data[4:])).To(Equal("......"))
		})
	})

	Context("wide", func() {
		It("should encode with the platform character width", func() {
			buf, data, ind := newTestBuffer(types.NativeWChar, 32)
			Expect(buf.PutStrToStrBuffer("abc")).To(Equal(ConversionSuccess))
			Expect(*ind).To(Equal(int64(3 * types.WCharSize)))
			s, err := DecodeWide(data[:3*types.WCharSize])
			Expect(err).ToNot(HaveOccurred())
			Expect(s).To(Equal("abc"))
			Expect(isZero(data[3*types.WCharSize : 4*types.WCharSize])).To(BeTrue())
		})

		It("should truncate on character boundaries", func() {
			buf, data, ind := newTestBuffer(types.NativeWChar, 4*types.WCharSize)
			Expect(buf.PutStrToStrBuffer("abcdefgh")).To(Equal(ConversionVarlenDataTruncated))
			Expect(*ind).To(Equal(int64(8 * types.WCharSize)))
			s, err := DecodeWide(data[:3*types.WCharSize])
			Expect(err).ToNot(HaveOccurred())
			Expect(s).To(Equal("abc"))
			Expect(isZero(data[3*types.WCharSize:])).To(BeTrue())
		})

		It("should round trip characters outside the basic plane", func() {
			encoded, err := EncodeWide("a\U0001F600b")
			Expect(err).ToNot(HaveOccurred())
			decoded, err := DecodeWide(encoded)
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(Equal("a\U0001F600b"))
		})
	})

	Context("parsing into other targets", func() {
		It("should parse integers", func() {
			buf, data, _ := newTestBuffer(types.NativeSignedLong, 4)
			Expect(buf.PutString(" -42 ")).To(Equal(ConversionSuccess))
			Expect(readAt[int32](data)).To(Equal(int32(-42)))
		})

		It("should report dropped fractions", func() {
			buf, data, _ := newTestBuffer(types.NativeSignedBigint, 8)
			Expect(buf.PutString("12.75")).To(Equal(ConversionFractionalTruncated))
			Expect(readAt[int64](data)).To(Equal(int64(12)))
		})

		It("should parse doubles", func() {
			buf, data, _ := newTestBuffer(types.NativeDouble, 8)
			Expect(buf.PutString("2.5")).To(Equal(ConversionSuccess))
			Expect(readAt[float64](data)).To(Equal(2.5))
		})

		It("should parse timestamps", func() {
			buf, data, _ := newTestBuffer(types.NativeTimestamp, 16)
			Expect(buf.PutString("2022-11-09 23:52:51.554000000")).To(Equal(ConversionSuccess))
			Expect(readAt[types.TimestampStruct](data).Fraction).To(Equal(uint32(554000000)))
		})

		It("should fail on unparsable input", func() {
			buf, _, _ := newTestBuffer(types.NativeSignedLong, 4)
			Expect(buf.PutString("forty two")).To(Equal(ConversionFailure))
		})

		It("should parse year-month intervals", func() {
			buf, data, _ := newTestBuffer(types.NativeIntervalYearToMonth, 28)
			Expect(buf.PutString("-1-2")).To(Equal(ConversionSuccess))
			iv := readAt[types.IntervalStruct](data)
			Expect(iv.IsNegative()).To(BeTrue())
			y, m := iv.YearMonth()
			Expect([]uint32{y, m}).To(Equal([]uint32{1, 2}))
		})
	})

	Context("binary", func() {
		It("should copy raw bytes and flag clipping", func() {
			buf, data, ind := newTestBuffer(types.NativeBinary, 2)
			Expect(buf.PutBinaryData([]byte{1, 2, 3})).To(Equal(ConversionVarlenDataTruncated))
			Expect(data).To(Equal([]byte{1, 2}))
			Expect(*ind).To(Equal(int64(3)))
		})

		It("should render upper-case hex into character buffers", func() {
			buf, data, _ := newTestBuffer(types.NativeChar, 8)
			Expect(buf.PutBinaryData([]byte{0xab, 0x01})).To(Equal(ConversionSuccess))
			Expect(string(data[:5])).To(Equal("AB01\x00"))
		})
	})
})
