package delivery

import "errors"

var (
	// ErrFetchStatus is returned when the capture source answers with a non-200 status.
	ErrFetchStatus = errors.New("capture source returned unexpected status")
	// ErrShortRead is returned when the body ends before the declared Content-Length.
	ErrShortRead = errors.New("image body shorter than declared length")
	// ErrEmptyImage is returned when the stream closed without a single byte.
	ErrEmptyImage = errors.New("image body is empty")
	// ErrIdleTimeout is returned when no data arrived within the idle window.
	ErrIdleTimeout = errors.New("image fetch stalled")
	// ErrBufferExhausted is returned when the image would exceed the memory budget.
	ErrBufferExhausted = errors.New("image exceeds buffer budget")
	// ErrFetchExhausted wraps the last attempt's error once every fetch attempt failed.
	ErrFetchExhausted = errors.New("all fetch attempts failed")
	// ErrUploadExhausted wraps the last attempt's error once every upload attempt failed.
	ErrUploadExhausted = errors.New("all upload attempts failed")

	// ErrDeliveryFailed marks a terminal pipeline failure after the URL fallback.
	ErrDeliveryFailed = errors.New("photo delivery failed")
)
