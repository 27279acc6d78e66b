package app

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kent-id/tsodbc/types"
	"github.com/kent-id/tsodbc/value"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// wideEncoding returns the encoding matching the platform's SQLWCHAR width.
func wideEncoding() encoding.Encoding {
	if types.WCharSize == 4 {
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

// EncodeWide converts UTF-8 into platform wide characters without terminator.
func EncodeWide(s string) ([]byte, error) {
	return wideEncoding().NewEncoder().Bytes([]byte(s))
}

// DecodeWide converts platform wide characters into UTF-8.
func DecodeWide(data []byte) (string, error) {
	out, err := wideEncoding().NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// PutString converts a character value into the buffer, parsing it when the
// target is not a character type.
func (b *ApplicationDataBuffer) PutString(s string) ConversionResult {
	switch b.nativeType {
	case types.NativeChar, types.NativeWChar, types.NativeDefault:
		return b.PutStrToStrBuffer(s)
	case types.NativeBinary:
		return b.putRawDataToBuffer([]byte(s))
	case types.NativeFloat, types.NativeDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return ConversionFailure
		}
		return putNum(b, f)
	case types.NativeSignedTinyint, types.NativeBit, types.NativeUnsignedTinyint,
		types.NativeSignedShort, types.NativeUnsignedShort, types.NativeSignedLong,
		types.NativeUnsignedLong, types.NativeSignedBigint, types.NativeUnsignedBigint,
		types.NativeNumeric:
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return ConversionFailure
		}
		return b.PutDecimal(d)
	case types.NativeDate:
		ts, err := value.ParseTimestamp(s)
		if err != nil {
			return ConversionFailure
		}
		return b.PutTimestamp(ts)
	case types.NativeTime:
		if t, err := value.ParseTime(s); err == nil {
			return b.PutTime(t)
		}
		ts, err := value.ParseTimestamp(s)
		if err != nil {
			return ConversionFailure
		}
		return b.PutTimestamp(ts)
	case types.NativeTimestamp:
		ts, err := value.ParseTimestamp(s)
		if err != nil {
			if t, terr := value.ParseTime(s); terr == nil {
				return b.PutTime(t)
			}
			return ConversionFailure
		}
		return b.PutTimestamp(ts)
	}
	if b.nativeType.IsInterval() {
		return b.putStringToInterval(s)
	}
	return ConversionUnsupported
}

func (b *ApplicationDataBuffer) putStringToInterval(s string) ConversionResult {
	switch b.nativeType {
	case types.NativeIntervalYear, types.NativeIntervalMonth, types.NativeIntervalYearToMonth:
		if iv, err := value.ParseIntervalYearMonth(s); err == nil {
			return b.PutIntervalYearMonth(iv)
		}
	default:
		if iv, err := value.ParseIntervalDaySecond(s); err == nil {
			return b.PutIntervalDaySecond(iv)
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return ConversionFailure
	}
	return b.PutDecimal(d)
}

// PutStrToStrBuffer writes s as a terminated narrow or wide string. The
// length/indicator receives the full length in bytes without terminator, so a
// call with a nil data pointer reports the size a second call needs.
func (b *ApplicationDataBuffer) PutStrToStrBuffer(s string) ConversionResult {
	switch b.nativeType {
	case types.NativeChar, types.NativeDefault:
		return b.putNarrowString(s)
	case types.NativeWChar:
		return b.putWideString(s)
	}
	return ConversionUnsupported
}

func (b *ApplicationDataBuffer) putNarrowString(s string) ConversionResult {
	b.setResLen(int64(len(s)))
	if b.DataPtr() == nil {
		return ConversionSuccess
	}
	if b.bufferLen <= 0 {
		return ConversionVarlenDataTruncated
	}
	out := b.bytes(b.bufferLen)
	if int64(len(s)) < b.bufferLen {
		copy(out, s)
		out[len(s)] = 0
		return ConversionSuccess
	}
	n := int(b.bufferLen - 1)
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	copy(out, s[:n])
	out[n] = 0
	return ConversionVarlenDataTruncated
}

func (b *ApplicationDataBuffer) putWideString(s string) ConversionResult {
	encoded, err := EncodeWide(s)
	if err != nil {
		return ConversionFailure
	}
	charSize := int64(types.WCharSize)
	b.setResLen(int64(len(encoded)))
	if b.DataPtr() == nil {
		return ConversionSuccess
	}
	capacity := b.bufferLen / charSize
	if capacity <= 0 {
		return ConversionVarlenDataTruncated
	}
	out := b.bytes(capacity * charSize)
	total := int64(len(encoded)) / charSize
	if total < capacity {
		copy(out, encoded)
		clear(out[len(encoded) : int64(len(encoded))+charSize])
		return ConversionSuccess
	}
	n := capacity - 1
	if charSize == 2 && n > 0 && isHighSurrogate(encoded[2*n-2], encoded[2*n-1]) {
		n--
	}
	copy(out, encoded[:n*charSize])
	clear(out[n*charSize : (n+1)*charSize])
	return ConversionVarlenDataTruncated
}

func isHighSurrogate(lo, hi byte) bool {
	u := uint16(lo) | uint16(hi)<<8
	return u >= 0xD800 && u <= 0xDBFF
}

// PutBinaryData copies raw bytes; character targets receive upper-case hex.
func (b *ApplicationDataBuffer) PutBinaryData(data []byte) ConversionResult {
	switch b.nativeType {
	case types.NativeBinary, types.NativeDefault:
		return b.putRawDataToBuffer(data)
	case types.NativeChar, types.NativeWChar:
		return b.PutStrToStrBuffer(strings.ToUpper(hex.EncodeToString(data)))
	}
	return ConversionUnsupported
}
