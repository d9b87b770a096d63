// Package bitstream implements a MSB-first bit cursor over a byte buffer,
// as used by the WVG binary encoding.
package bitstream

import "errors"

// ErrEndOfStream is returned when more bits are requested than the buffer holds.
var ErrEndOfStream = errors.New("unexpected end of stream")

// Reader reads bits sequentially, most significant bit first.
// The zero value is an empty reader.
type Reader struct {
	data    []byte
	bytePos int
	bitPos  uint // 0 is the most significant bit of data[bytePos]
}

// NewReader returns a reader positioned on the first bit of `data`.
// The buffer is not copied and must not be modified while reading.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBit returns the next bit, as 0 or 1.
func (r *Reader) ReadBit() (uint32, error) {
	if r.bytePos >= len(r.data) {
		return 0, ErrEndOfStream
	}
	bit := uint32(r.data[r.bytePos]>>(7-r.bitPos)) & 1
	r.bitPos++
	if r.bitPos == 8 {
		r.bitPos = 0
		r.bytePos++
	}
	return bit, nil
}

// ReadFlag reads one bit as a boolean.
func (r *Reader) ReadFlag() (bool, error) {
	b, err := r.ReadBit()
	return b == 1, err
}

// ReadBits reads `n` bits (0 <= n <= 32) as an unsigned integer.
// Reading 0 bits always succeeds and returns 0.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.New("bitstream: invalid bit count")
	}
	var v uint32
	for i := 0; i < n; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | b
	}
	return v, nil
}

// ReadSigned reads `n` bits as a two's complement integer.
func (r *Reader) ReadSigned(n int) (int32, error) {
	u, err := r.ReadBits(n)
	if err != nil {
		return 0, err
	}
	return Signed(u, n), nil
}

// Signed interprets the `n` low bits of `u` as a two's complement value.
func Signed(u uint32, n int) int32 {
	if n == 0 {
		return 0
	}
	if n < 32 && u&(1<<(n-1)) != 0 {
		return int32(int64(u) - int64(1)<<n)
	}
	return int32(u)
}

// HasMore returns true if at least one bit is left.
func (r *Reader) HasMore() bool { return r.bytePos < len(r.data) }

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	if r.bytePos >= len(r.data) {
		return 0
	}
	return (len(r.data)-r.bytePos)*8 - int(r.bitPos)
}

// BytePos returns the index of the current byte.
func (r *Reader) BytePos() int { return r.bytePos }

// BitPos returns the position in the current byte, 0 being the most significant bit.
func (r *Reader) BitPos() int { return int(r.bitPos) }

// Len returns the size of the underlying buffer, in bytes.
func (r *Reader) Len() int { return len(r.data) }
