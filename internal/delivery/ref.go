package delivery

import (
	"encoding/json"
	"strings"
)

type captureRef struct {
	URL string `json:"url"`
}

// ResolveCaptureRef turns a capture reference into a URL. A JSON object of the
// form {"url": "..."} is unwrapped; anything else is returned trimmed.
func ResolveCaptureRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "{") {
		return ref
	}

	var parsed captureRef
	if err := json.Unmarshal([]byte(ref), &parsed); err != nil || parsed.URL == "" {
		return ref
	}
	return strings.TrimSpace(parsed.URL)
}
