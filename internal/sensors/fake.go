package sensors

import (
	"sync"
	"time"

	"github.com/benmeehan/home-sentinel/internal/models"
)

// FakeReader replays a script of temperature/humidity pairs. Once the script is
// exhausted the last pair repeats.
type FakeReader struct {
	mu     sync.Mutex
	script [][2]float64
	pos    int
	reads  int
}

func NewFakeReader(script ...[2]float64) *FakeReader {
	return &FakeReader{script: script}
}

func (f *FakeReader) Read() models.SensorReading {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	pair := [2]float64{}
	if len(f.script) > 0 {
		pair = f.script[f.pos]
		if f.pos < len(f.script)-1 {
			f.pos++
		}
	}

	return models.SensorReading{
		Temperature: pair[0],
		Humidity:    pair[1],
		Timestamp:   time.Now().Format(models.TimestampLayout),
	}
}

// Reads returns how many times Read was called.
func (f *FakeReader) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}
