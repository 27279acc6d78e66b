package app

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kent-id/tsodbc/types"
	"github.com/kent-id/tsodbc/value"
	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrNoBuffer              = errors.New("no data buffer supplied")
)

// IsDataAtExec reports whether the indicator asks for data at execution time.
func (b *ApplicationDataBuffer) IsDataAtExec() bool {
	ind := b.ResLenPtr()
	if ind == nil {
		return false
	}
	return *ind == types.DataAtExec || *ind <= types.LenDataAtExecOffset
}

// GetDataAtExecSize decodes the length announced by SQL_LEN_DATA_AT_EXEC,
// zero for plain SQL_DATA_AT_EXEC.
func (b *ApplicationDataBuffer) GetDataAtExecSize() int64 {
	ind := b.ResLenPtr()
	if ind == nil || *ind > types.LenDataAtExecOffset {
		return 0
	}
	return types.LenDataAtExecOffset - *ind
}

// GetSize returns the byte length of the input value the buffer holds.
func (b *ApplicationDataBuffer) GetSize() int64 {
	if size := b.nativeType.Size(); size > 0 {
		return size
	}
	ind := b.ResLenPtr()
	if ind != nil && *ind >= 0 {
		return *ind
	}
	if ind != nil && *ind != types.NTS {
		return 0
	}
	data := b.bytes(b.bufferLen)
	if b.nativeType == types.NativeWChar {
		charSize := types.WCharSize
		for i := 0; i+charSize <= len(data); i += charSize {
			if isZero(data[i : i+charSize]) {
				return int64(i)
			}
		}
		return int64(len(data) - len(data)%charSize)
	}
	if n := bytes.IndexByte(data, 0); n >= 0 {
		return int64(n)
	}
	return int64(len(data))
}

func isZero(p []byte) bool {
	for _, v := range p {
		if v != 0 {
			return false
		}
	}
	return true
}

// GetString reads the value as text, decoding wide characters.
func (b *ApplicationDataBuffer) GetString() (string, error) {
	if b.DataPtr() == nil {
		return "", ErrNoBuffer
	}
	switch b.nativeType {
	case types.NativeChar, types.NativeBinary:
		return string(b.bytes(b.clampedSize())), nil
	case types.NativeWChar:
		return DecodeWide(b.bytes(b.clampedSize()))
	case types.NativeSignedTinyint, types.NativeBit, types.NativeUnsignedTinyint,
		types.NativeSignedShort, types.NativeUnsignedShort, types.NativeSignedLong,
		types.NativeUnsignedLong, types.NativeSignedBigint, types.NativeUnsignedBigint,
		types.NativeNumeric:
		d, err := b.GetDecimal()
		if err != nil {
			return "", err
		}
		return d.String(), nil
	case types.NativeFloat, types.NativeDouble:
		f, err := b.GetDouble()
		if err != nil {
			return "", err
		}
		return formatFloat(f, 64), nil
	case types.NativeDate:
		d, err := b.GetDate()
		return d.String(), err
	case types.NativeTime:
		t, err := b.GetTime()
		return t.String(), err
	case types.NativeTimestamp:
		ts, err := b.GetTimestamp()
		return ts.String(), err
	}
	return "", fmt.Errorf("%w: %s to string", ErrUnsupportedConversion, b.nativeType)
}

func (b *ApplicationDataBuffer) clampedSize() int64 {
	size := b.GetSize()
	if b.bufferLen >= 0 && size > b.bufferLen {
		return b.bufferLen
	}
	return size
}

func (b *ApplicationDataBuffer) GetInt8() (int8, error)      { return getNum[int8](b) }
func (b *ApplicationDataBuffer) GetInt16() (int16, error)    { return getNum[int16](b) }
func (b *ApplicationDataBuffer) GetInt32() (int32, error)    { return getNum[int32](b) }
func (b *ApplicationDataBuffer) GetInt64() (int64, error)    { return getNum[int64](b) }
func (b *ApplicationDataBuffer) GetUint8() (uint8, error)    { return getNum[uint8](b) }
func (b *ApplicationDataBuffer) GetUint16() (uint16, error)  { return getNum[uint16](b) }
func (b *ApplicationDataBuffer) GetUint32() (uint32, error)  { return getNum[uint32](b) }
func (b *ApplicationDataBuffer) GetUint64() (uint64, error)  { return getNum[uint64](b) }
func (b *ApplicationDataBuffer) GetFloat() (float32, error)  { return getNum[float32](b) }
func (b *ApplicationDataBuffer) GetDouble() (float64, error) { return getNum[float64](b) }

// getNum reads a number from any numeric or character input buffer.
func getNum[T Number](b *ApplicationDataBuffer) (T, error) {
	if b.DataPtr() == nil {
		return 0, ErrNoBuffer
	}
	switch b.nativeType {
	case types.NativeSignedTinyint:
		return readAs[int8, T](b), nil
	case types.NativeBit, types.NativeUnsignedTinyint:
		return readAs[uint8, T](b), nil
	case types.NativeSignedShort:
		return readAs[int16, T](b), nil
	case types.NativeUnsignedShort:
		return readAs[uint16, T](b), nil
	case types.NativeSignedLong:
		return readAs[int32, T](b), nil
	case types.NativeUnsignedLong:
		return readAs[uint32, T](b), nil
	case types.NativeSignedBigint:
		return readAs[int64, T](b), nil
	case types.NativeUnsignedBigint:
		return readAs[uint64, T](b), nil
	case types.NativeFloat:
		return readAs[float32, T](b), nil
	case types.NativeDouble:
		return readAs[float64, T](b), nil
	case types.NativeChar, types.NativeWChar:
		s, err := b.GetString()
		if err != nil {
			return 0, err
		}
		return parseNum[T](s)
	case types.NativeNumeric:
		n, _ := readFixed[types.NumericStruct](b)
		return decimalToNum[T](NumericToDecimal(n)), nil
	}
	return 0, fmt.Errorf("%w: %s to number", ErrUnsupportedConversion, b.nativeType)
}

func readAs[S, T Number](b *ApplicationDataBuffer) T {
	v, _ := readFixed[S](b)
	return T(v)
}

func parseNum[T Number](s string) (T, error) {
	s = strings.TrimSpace(s)
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number: %w", s, err)
		}
		return T(f), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as number: %w", s, err)
	}
	return decimalToNum[T](d), nil
}

func decimalToNum[T Number](d decimal.Decimal) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		f, _ := d.Float64()
		return T(f)
	case uint64, uint, uintptr:
		if d.Sign() >= 0 {
			return T(d.Truncate(0).BigInt().Uint64())
		}
	}
	return T(d.Truncate(0).IntPart())
}

// GetDecimal reads the value as an arbitrary precision decimal.
func (b *ApplicationDataBuffer) GetDecimal() (decimal.Decimal, error) {
	if b.DataPtr() == nil {
		return decimal.Zero, ErrNoBuffer
	}
	switch b.nativeType {
	case types.NativeNumeric:
		n, _ := readFixed[types.NumericStruct](b)
		return NumericToDecimal(n), nil
	case types.NativeChar, types.NativeWChar:
		s, err := b.GetString()
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero, fmt.Errorf("cannot parse %q as decimal: %w", s, err)
		}
		return d, nil
	case types.NativeFloat, types.NativeDouble:
		f, err := getNum[float64](b)
		if err != nil {
			return decimal.Zero, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, fmt.Errorf("%w: %v to decimal", ErrUnsupportedConversion, f)
		}
		return decimal.NewFromFloat(f), nil
	case types.NativeUnsignedBigint:
		v, err := getNum[uint64](b)
		if err != nil {
			return decimal.Zero, err
		}
		d, _ := numberToDecimal(v)
		return d, nil
	}
	v, err := getNum[int64](b)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(v), nil
}

// GetDate reads a date from a date or timestamp struct or from text.
func (b *ApplicationDataBuffer) GetDate() (value.Date, error) {
	ts, err := b.GetTimestamp()
	return ts.Date, err
}

// GetTime reads a time of day from a time or timestamp struct or from text.
func (b *ApplicationDataBuffer) GetTime() (value.Time, error) {
	if b.nativeType == types.NativeChar || b.nativeType == types.NativeWChar {
		s, err := b.GetString()
		if err != nil {
			return value.Time{}, err
		}
		if t, err := value.ParseTime(s); err == nil {
			return t, nil
		}
	}
	ts, err := b.GetTimestamp()
	return ts.Time, err
}

// GetTimestamp reads a timestamp from any date/time struct or from text.
func (b *ApplicationDataBuffer) GetTimestamp() (value.Timestamp, error) {
	if b.DataPtr() == nil {
		return value.Timestamp{}, ErrNoBuffer
	}
	switch b.nativeType {
	case types.NativeDate:
		d, _ := readFixed[types.DateStruct](b)
		return value.Timestamp{Date: value.Date{Year: int(d.Year), Month: int(d.Month), Day: int(d.Day)}}, nil
	case types.NativeTime:
		t, _ := readFixed[types.TimeStruct](b)
		return value.Timestamp{
			Date: value.EpochDate,
			Time: value.Time{Hour: int(t.Hour), Minute: int(t.Minute), Second: int(t.Second)},
		}, nil
	case types.NativeTimestamp:
		t, _ := readFixed[types.TimestampStruct](b)
		return value.Timestamp{
			Date: value.Date{Year: int(t.Year), Month: int(t.Month), Day: int(t.Day)},
			Time: value.Time{Hour: int(t.Hour), Minute: int(t.Minute), Second: int(t.Second), Nanos: int(t.Fraction)},
		}, nil
	case types.NativeChar, types.NativeWChar:
		s, err := b.GetString()
		if err != nil {
			return value.Timestamp{}, err
		}
		return value.ParseTimestamp(s)
	}
	return value.Timestamp{}, fmt.Errorf("%w: %s to timestamp", ErrUnsupportedConversion, b.nativeType)
}
