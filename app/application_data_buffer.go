// Package app implements the application data buffer: a typed, non-owning
// view over memory supplied by an ODBC application, and every conversion
// between the driver's values and the C types the application asked for.
package app

import (
	"unsafe"

	"github.com/kent-id/tsodbc/types"
)

// ApplicationDataBuffer describes one application buffer. It does not own the
// memory; the memory must stay valid for as long as the buffer is used.
//
// The effective data address is buffer + byteOffset + ElementSize()*elementOffset,
// the effective length/indicator address is resLenInd + byteOffset +
// 8*elementOffset. Row-array fetches reuse one description for many rows by
// changing only the element offset.
type ApplicationDataBuffer struct {
	nativeType    types.NativeType
	buffer        unsafe.Pointer
	bufferLen     int64
	resLenInd     *int64
	byteOffset    int64
	elementOffset int64
}

// NewApplicationDataBuffer creates a buffer description. buffer and resLenInd
// may be nil.
func NewApplicationDataBuffer(nativeType types.NativeType, buffer unsafe.Pointer, bufferLen int64, resLenInd *int64) *ApplicationDataBuffer {
	return &ApplicationDataBuffer{
		nativeType: nativeType,
		buffer:     buffer,
		bufferLen:  bufferLen,
		resLenInd:  resLenInd,
	}
}

// NewBufferFor creates a buffer over a Go byte slice, handy for tests and for
// driver-internal reads.
func NewBufferFor(nativeType types.NativeType, data []byte, resLenInd *int64) *ApplicationDataBuffer {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	return NewApplicationDataBuffer(nativeType, ptr, int64(len(data)), resLenInd)
}

func (b *ApplicationDataBuffer) NativeType() types.NativeType {
	return b.nativeType
}

// WithNativeType returns a copy of the buffer targeting another native type.
// It is used to resolve SQL_C_DEFAULT against a column type.
func (b *ApplicationDataBuffer) WithNativeType(nativeType types.NativeType) *ApplicationDataBuffer {
	c := *b
	c.nativeType = nativeType
	return &c
}

func (b *ApplicationDataBuffer) Buffer() unsafe.Pointer {
	return b.buffer
}

func (b *ApplicationDataBuffer) BufferLen() int64 {
	return b.bufferLen
}

func (b *ApplicationDataBuffer) ByteOffset() int64 {
	return b.byteOffset
}

// SetByteOffset shifts the whole binding, as SQL_ATTR_ROW_BIND_OFFSET_PTR does.
func (b *ApplicationDataBuffer) SetByteOffset(offset int64) {
	b.byteOffset = offset
}

func (b *ApplicationDataBuffer) ElementOffset() int64 {
	return b.elementOffset
}

// SetElementOffset selects the row of a column-wise bound array.
func (b *ApplicationDataBuffer) SetElementOffset(idx int64) {
	b.elementOffset = idx
}

// ElementSize is the distance between two consecutive elements of a
// column-wise bound array.
func (b *ApplicationDataBuffer) ElementSize() int64 {
	if size := b.nativeType.Size(); size > 0 {
		return size
	}
	return b.bufferLen
}

// DataPtr returns the effective data address, nil when no buffer was supplied.
func (b *ApplicationDataBuffer) DataPtr() unsafe.Pointer {
	if b.buffer == nil {
		return nil
	}
	return unsafe.Add(b.buffer, b.byteOffset+b.ElementSize()*b.elementOffset)
}

// ResLenPtr returns the effective length/indicator address, nil when none
// was supplied.
func (b *ApplicationDataBuffer) ResLenPtr() *int64 {
	if b.resLenInd == nil {
		return nil
	}
	const indSize = int64(unsafe.Sizeof(int64(0)))
	return (*int64)(unsafe.Add(unsafe.Pointer(b.resLenInd), b.byteOffset+indSize*b.elementOffset))
}

func (b *ApplicationDataBuffer) setResLen(length int64) {
	if ptr := b.ResLenPtr(); ptr != nil {
		*ptr = length
	}
}

// bytes returns the effective data region as a slice of n bytes.
func (b *ApplicationDataBuffer) bytes(n int64) []byte {
	ptr := b.DataPtr()
	if ptr == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), n)
}

// PutNull writes the NULL indicator.
func (b *ApplicationDataBuffer) PutNull() ConversionResult {
	ptr := b.ResLenPtr()
	if ptr == nil {
		return ConversionIndicatorNeeded
	}
	*ptr = types.NullData
	return ConversionSuccess
}

// putRawDataToBuffer copies min(bufferLen, len(data)) bytes.
func (b *ApplicationDataBuffer) putRawDataToBuffer(data []byte) ConversionResult {
	b.setResLen(int64(len(data)))
	if b.DataPtr() == nil {
		return ConversionSuccess
	}
	n := int64(len(data))
	if n > b.bufferLen {
		n = b.bufferLen
	}
	copy(b.bytes(n), data[:n])
	if n < int64(len(data)) {
		return ConversionVarlenDataTruncated
	}
	return ConversionSuccess
}

// putFixed stores v at the data address and reports its size as length.
func putFixed[T any](b *ApplicationDataBuffer, v T) ConversionResult {
	if ptr := b.DataPtr(); ptr != nil {
		*(*T)(ptr) = v
	}
	b.setResLen(int64(unsafe.Sizeof(v)))
	return ConversionSuccess
}

// rawBytes views a fixed-size value as bytes.
func rawBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// readFixed loads a T from the data address.
func readFixed[T any](b *ApplicationDataBuffer) (T, bool) {
	var zero T
	ptr := b.DataPtr()
	if ptr == nil {
		return zero, false
	}
	return *(*T)(ptr), true
}
