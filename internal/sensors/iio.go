package sensors

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/pkg/file"
	"github.com/rs/zerolog"
)

const (
	tempChannel     = "in_temp_input"
	humidityChannel = "in_humidityrelative_input"
)

// IIOReader reads a DHT11/DHT22 through the Linux industrial I/O sysfs
// interface, e.g. /sys/bus/iio/devices/iio:device0. Values are in milli-units.
type IIOReader struct {
	dir    string
	files  file.FileOperations
	logger zerolog.Logger
	now    func() time.Time
}

func NewIIOReader(dir string, files file.FileOperations, logger zerolog.Logger) *IIOReader {
	return &IIOReader{
		dir:    dir,
		files:  files,
		logger: logger,
		now:    time.Now,
	}
}

func (r *IIOReader) Read() models.SensorReading {
	reading := models.SensorReading{
		Temperature: r.channel(tempChannel),
		Humidity:    r.channel(humidityChannel),
		Timestamp:   r.now().Format(models.TimestampLayout),
	}

	r.logger.Debug().
		Float64("temperature", reading.Temperature).
		Float64("humidity", reading.Humidity).
		Msg("Sensor sampled")
	return reading
}

// channel returns NaN when the driver times out or reports garbage, which the
// DHT driver does routinely.
func (r *IIOReader) channel(name string) float64 {
	raw, err := r.files.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		r.logger.Warn().Err(err).Str("channel", name).Msg("Sensor read failed")
		return math.NaN()
	}

	milli, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		r.logger.Warn().Err(err).Str("channel", name).Str("raw", raw).Msg("Sensor returned unparseable value")
		return math.NaN()
	}
	return float64(milli) / 1000
}
