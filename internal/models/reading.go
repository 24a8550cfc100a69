package models

import "math"

// TimestampLayout is the local wall-clock format attached to readings.
const TimestampLayout = "2006-01-02T15:04:05"

// SensorReading is one environmental sample. NaN marks a failed read.
type SensorReading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Timestamp   string  `json:"timestamp"`
}

// TemperatureValid reports whether the temperature was read successfully.
func (r SensorReading) TemperatureValid() bool {
	return !math.IsNaN(r.Temperature)
}

// HumidityValid reports whether the humidity was read successfully.
func (r SensorReading) HumidityValid() bool {
	return !math.IsNaN(r.Humidity)
}
