package delivery

import (
	"errors"
	"fmt"
	"io"
)

// ImageBuffer accumulates one fetch attempt's body.
//
// With a declared length the storage is allocated once at exactly that size and
// never read past it. Without one it starts at an initial capacity and doubles,
// bounded by max. A buffer belongs to a single attempt.
type ImageBuffer struct {
	data     []byte
	declared int64
	max      int
}

// NewImageBuffer sizes storage for a body. declared < 0 means unknown length.
func NewImageBuffer(declared int64, initial, max int) (*ImageBuffer, error) {
	if declared > int64(max) {
		return nil, fmt.Errorf("%w: declared %d bytes, budget %d", ErrBufferExhausted, declared, max)
	}

	capacity := initial
	if declared >= 0 {
		capacity = int(declared)
	}
	if capacity > max {
		capacity = max
	}

	return &ImageBuffer{
		data:     make([]byte, 0, capacity),
		declared: declared,
		max:      max,
	}, nil
}

// ReadFrom drains r into the buffer, implementing io.ReaderFrom.
func (b *ImageBuffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if b.declared >= 0 && int64(len(b.data)) == b.declared {
			return total, nil
		}
		if len(b.data) == cap(b.data) {
			if cap(b.data) >= b.max {
				return total, b.probeEnd(r)
			}
			b.grow()
		}

		n, err := r.Read(b.data[len(b.data):cap(b.data)])
		b.data = b.data[:len(b.data)+n]
		total += int64(n)

		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) && b.declared >= 0 {
			return total, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, len(b.data), b.declared)
		}
		if err != nil {
			return total, err
		}
	}
}

// probeEnd accepts a body that fits the budget exactly.
func (b *ImageBuffer) probeEnd(r io.Reader) error {
	var probe [1]byte
	n, err := r.Read(probe[:])
	if n == 0 && errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: more than %d bytes", ErrBufferExhausted, b.max)
}

func (b *ImageBuffer) grow() {
	next := cap(b.data) * 2
	if next == 0 {
		next = 1
	}
	if next > b.max {
		next = b.max
	}
	grown := make([]byte, len(b.data), next)
	copy(grown, b.data)
	b.data = grown
}

// Validate checks that the buffer holds a complete image.
func (b *ImageBuffer) Validate() error {
	if b.declared >= 0 && int64(len(b.data)) < b.declared {
		return fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, len(b.data), b.declared)
	}
	if len(b.data) == 0 {
		return ErrEmptyImage
	}
	return nil
}

// Len returns the number of bytes read so far.
func (b *ImageBuffer) Len() int {
	return len(b.data)
}

// Cap returns the current storage capacity.
func (b *ImageBuffer) Cap() int {
	return cap(b.data)
}

// Detach hands the bytes to the caller and empties the buffer.
func (b *ImageBuffer) Detach() []byte {
	data := b.data
	b.data = nil
	return data
}

// Release drops the storage.
func (b *ImageBuffer) Release() {
	b.data = nil
}
