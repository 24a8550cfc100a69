package models

// Alert is a notification to be fanned out to the chat and telemetry channels.
type Alert struct {
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	PhotoRef string `json:"photo_ref,omitempty"`
}

// HasPhoto reports whether the alert carries a capture reference.
func (a Alert) HasPhoto() bool {
	return a.PhotoRef != ""
}
