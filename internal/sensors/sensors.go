package sensors

import "github.com/benmeehan/home-sentinel/internal/models"

// Reader samples the environment. Failed channels are reported as NaN.
type Reader interface {
	Read() models.SensorReading
}
