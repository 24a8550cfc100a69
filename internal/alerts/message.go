package alerts

import (
	"fmt"
	"strconv"
)

// TemperatureMessage formats the chat text for a high temperature excursion.
func TemperatureMessage(value, limit float64) string {
	return fmt.Sprintf("⚠️ HIGH TEMPERATURE ALERT: %.1f°C (Limit: %s°C)", value, formatLimit(limit))
}

// HumidityMessage formats the chat text for a high humidity excursion.
func HumidityMessage(value, limit float64) string {
	return fmt.Sprintf("⚠️ HIGH HUMIDITY ALERT: %.1f%% (Limit: %s%%)", value, formatLimit(limit))
}

// limits are configured numbers, print them without trailing zeros
func formatLimit(limit float64) string {
	return strconv.FormatFloat(limit, 'f', -1, 64)
}
