//go:build !linux

package motion

import (
	"errors"

	"github.com/rs/zerolog"
)

// EdgeWatcher is not available on non-Linux platforms.
type EdgeWatcher struct{}

// NewEdgeWatcher returns an error on non-Linux platforms.
func NewEdgeWatcher(chip string, offset int, sig *Signal, logger zerolog.Logger) (*EdgeWatcher, error) {
	return nil, errors.New("motion: gpio not supported on this platform (requires Linux)")
}

// Close is a no-op on non-Linux platforms.
func (w *EdgeWatcher) Close() error {
	return nil
}
