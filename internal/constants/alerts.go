package constants

// Alert reasons published on the telemetry alerts feed.
const (
	ReasonHighTemperature = "high_temperature"
	ReasonHighHumidity    = "high_humidity"
	ReasonMotion          = "motion"
)

// MotionCaption is the photo caption attached to motion alerts.
const MotionCaption = "Motion detected"

// Telemetry feed names under "<user>/feeds/".
const (
	FeedTemperature = "temperature"
	FeedHumidity    = "humidity"
	FeedAlerts      = "alerts"
)
