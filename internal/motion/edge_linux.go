//go:build linux

package motion

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/warthog618/go-gpiocdev"
)

// EdgeWatcher requests the PIR line from the GPIO character device and
// forwards every rising edge to a Signal.
type EdgeWatcher struct {
	line   *gpiocdev.Line
	logger zerolog.Logger
}

// NewEdgeWatcher requests offset on chip as a pulled-down input with rising edge detection.
func NewEdgeWatcher(chip string, offset int, sig *Signal, logger zerolog.Logger) (*EdgeWatcher, error) {
	// The handler runs on the gpiocdev event goroutine; keep it to the atomic flip.
	handler := func(evt gpiocdev.LineEvent) {
		sig.Trigger(evt.Timestamp)
	}

	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(handler),
	)
	if err != nil {
		return nil, fmt.Errorf("request motion pin %d on %s: %w", offset, chip, err)
	}

	logger.Info().Str("chip", chip).Int("offset", offset).Msg("Motion sensor line requested")
	return &EdgeWatcher{line: line, logger: logger}, nil
}

// Close releases the GPIO line.
func (w *EdgeWatcher) Close() error {
	if err := w.line.Close(); err != nil {
		return fmt.Errorf("release motion line: %w", err)
	}
	w.logger.Info().Msg("Motion sensor line released")
	return nil
}
