package app

import (
	"math"
	"math/big"
	"strconv"

	"github.com/kent-id/tsodbc/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// Number is every Go type numeric values are put from.
type Number interface {
	constraints.Integer | constraints.Float
}

func (b *ApplicationDataBuffer) PutInt8(v int8) ConversionResult      { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutInt16(v int16) ConversionResult    { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutInt32(v int32) ConversionResult    { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutInt64(v int64) ConversionResult    { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutUint8(v uint8) ConversionResult    { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutUint16(v uint16) ConversionResult  { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutUint32(v uint32) ConversionResult  { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutUint64(v uint64) ConversionResult  { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutFloat(v float32) ConversionResult  { return putNum(b, v) }
func (b *ApplicationDataBuffer) PutDouble(v float64) ConversionResult { return putNum(b, v) }

// PutBool stores a boolean as the integer 1 or 0.
func (b *ApplicationDataBuffer) PutBool(v bool) ConversionResult {
	if v {
		return putNum(b, int8(1))
	}
	return putNum(b, int8(0))
}

// putNum converts a numeric value into the buffer. Narrowing to a smaller
// integer type wraps silently.
func putNum[T Number](b *ApplicationDataBuffer, value T) ConversionResult {
	switch b.nativeType {
	case types.NativeSignedTinyint:
		return putFixed(b, int8(value))
	case types.NativeBit:
		var bit uint8
		if value != 0 {
			bit = 1
		}
		return putFixed(b, bit)
	case types.NativeUnsignedTinyint:
		return putFixed(b, uint8(value))
	case types.NativeSignedShort:
		return putFixed(b, int16(value))
	case types.NativeUnsignedShort:
		return putFixed(b, uint16(value))
	case types.NativeSignedLong:
		return putFixed(b, int32(value))
	case types.NativeUnsignedLong:
		return putFixed(b, uint32(value))
	case types.NativeSignedBigint:
		return putFixed(b, int64(value))
	case types.NativeUnsignedBigint:
		return putFixed(b, uint64(value))
	case types.NativeFloat:
		return putFixed(b, float32(value))
	case types.NativeDouble:
		return putFixed(b, float64(value))
	case types.NativeChar, types.NativeWChar:
		return b.PutStrToStrBuffer(formatNumber(value))
	case types.NativeBinary:
		return b.putRawDataToBuffer(rawBytes(&value))
	case types.NativeNumeric:
		d, exact := numberToDecimal(value)
		res := b.putDecimalToNumeric(d.Truncate(0))
		if !exact || !d.Equal(d.Truncate(0)) {
			return worse(res, ConversionFractionalTruncated)
		}
		return res
	case types.NativeDefault:
		return putFixed(b, value)
	}
	if b.nativeType.IsInterval() {
		return putNumToInterval(b, value)
	}
	return ConversionUnsupported
}

// formatNumber renders numbers independent of locale. Doubles use the
// service's spelling for non-finite values.
func formatNumber[T Number](value T) string {
	switch v := any(value).(type) {
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return strconv.FormatUint(uint64(value), 10)
	}
	return strconv.FormatInt(int64(value), 10)
}

func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(v, 'E', -1, bitSize)
	}
	return strconv.FormatFloat(v, 'f', -1, bitSize)
}

// numberToDecimal converts exactly where possible; non-finite floats report
// inexact and become zero.
func numberToDecimal[T Number](value T) (decimal.Decimal, bool) {
	switch v := any(value).(type) {
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(value)), 0), true
	}
	return decimal.NewFromInt(int64(value)), true
}

// putNumToInterval fills the single field of a single-field interval.
func putNumToInterval[T Number](b *ApplicationDataBuffer, value T) ConversionResult {
	d, exact := numberToDecimal(value)
	if !exact {
		return ConversionFailure
	}
	iv := types.IntervalStruct{IntervalType: b.nativeType.IntervalCode()}
	if d.Sign() < 0 {
		iv.IntervalSign = types.SqlTrue
		d = d.Neg()
	}
	whole := uint32(d.Truncate(0).IntPart())
	res := ConversionSuccess
	switch b.nativeType {
	case types.NativeIntervalYear:
		iv.Fields[0] = whole
	case types.NativeIntervalMonth:
		iv.Fields[1] = whole
	case types.NativeIntervalDay:
		iv.Fields[0] = whole
	case types.NativeIntervalHour:
		iv.Fields[1] = whole
	case types.NativeIntervalMinute:
		iv.Fields[2] = whole
	case types.NativeIntervalSecond:
		iv.Fields[3] = whole
		iv.Fields[4] = uint32(d.Sub(d.Truncate(0)).Shift(9).IntPart())
		return putFixed(b, iv)
	default:
		return ConversionUnsupported
	}
	if !d.Equal(d.Truncate(0)) {
		res = ConversionFractionalTruncated
	}
	return worse(putFixed(b, iv), res)
}

// PutDecimal converts an arbitrary precision decimal into the buffer.
func (b *ApplicationDataBuffer) PutDecimal(value decimal.Decimal) ConversionResult {
	switch b.nativeType {
	case types.NativeSignedTinyint, types.NativeBit, types.NativeUnsignedTinyint,
		types.NativeSignedShort, types.NativeUnsignedShort, types.NativeSignedLong,
		types.NativeUnsignedLong, types.NativeSignedBigint:
		whole := value.Truncate(0)
		res := putNum(b, whole.IntPart())
		if !whole.Equal(value) {
			return worse(res, ConversionFractionalTruncated)
		}
		return res
	case types.NativeUnsignedBigint:
		whole := value.Truncate(0)
		res := putNum(b, whole.BigInt().Uint64())
		if !whole.Equal(value) {
			return worse(res, ConversionFractionalTruncated)
		}
		return res
	case types.NativeFloat, types.NativeDouble:
		f, _ := value.Float64()
		return putNum(b, f)
	case types.NativeChar, types.NativeWChar:
		return b.PutStrToStrBuffer(value.String())
	case types.NativeNumeric, types.NativeDefault:
		return b.putDecimalToNumeric(value)
	case types.NativeBinary:
		return b.putRawDataToBuffer([]byte(value.String()))
	}
	if b.nativeType.IsInterval() {
		if value.Exponent() >= 0 {
			return putNumToInterval(b, value.IntPart())
		}
		f, _ := value.Float64()
		return putNumToInterval(b, f)
	}
	return ConversionUnsupported
}

var (
	maxNumericMagnitude = new(big.Int).Lsh(big.NewInt(1), 8*types.NumericMaxLen)
	bigTen              = big.NewInt(10)
)

// putDecimalToNumeric writes SQL_NUMERIC_STRUCT keeping the value's scale.
// Digits beyond 128 bits of magnitude or a scale of 127 are truncated.
func (b *ApplicationDataBuffer) putDecimalToNumeric(value decimal.Decimal) ConversionResult {
	mag := new(big.Int).Abs(value.Coefficient())
	scale := -int64(value.Exponent())
	if scale < 0 {
		mag.Mul(mag, new(big.Int).Exp(bigTen, big.NewInt(-scale), nil))
		scale = 0
	}

	res := ConversionSuccess
	for (mag.Cmp(maxNumericMagnitude) >= 0 || scale > math.MaxInt8) && scale > 0 {
		mag.Quo(mag, bigTen)
		scale--
		res = ConversionFractionalTruncated
	}
	if mag.Cmp(maxNumericMagnitude) >= 0 {
		return ConversionFailure
	}

	var out types.NumericStruct
	out.Scale = int8(scale)
	out.Sign = 1
	if value.Sign() < 0 {
		out.Sign = 0
	}
	out.Precision = uint8(len(mag.String()))
	be := mag.Bytes()
	for i, v := range be {
		out.Val[len(be)-1-i] = v
	}
	return worse(putFixed(b, out), res)
}

// NumericToDecimal decodes SQL_NUMERIC_STRUCT.
func NumericToDecimal(n types.NumericStruct) decimal.Decimal {
	be := make([]byte, types.NumericMaxLen)
	for i, v := range n.Val {
		be[types.NumericMaxLen-1-i] = v
	}
	mag := new(big.Int).SetBytes(be)
	if n.Sign == 0 {
		mag.Neg(mag)
	}
	return decimal.NewFromBigInt(mag, -int32(n.Scale))
}
