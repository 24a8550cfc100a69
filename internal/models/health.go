package models

import "time"

// HealthConfig selects which host collectors run on each health tick.
type HealthConfig struct {
	MonitorCPU        bool `yaml:"monitor_cpu"`
	MonitorMemory     bool `yaml:"monitor_memory"`
	MonitorGoroutines bool `yaml:"monitor_goroutines"`
}

// Metric is a single collected value with its unit.
type Metric struct {
	Value interface{} `json:"value"`
	Unit  string      `json:"unit"`
}

// HealthSnapshot is the periodic liveness record logged by the health service.
type HealthSnapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	Uptime    time.Duration     `json:"uptime"`
	Metrics   map[string]Metric `json:"metrics"`
}
