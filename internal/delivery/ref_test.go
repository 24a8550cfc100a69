package delivery_test

import (
	"testing"

	"github.com/benmeehan/home-sentinel/internal/delivery"
	"github.com/stretchr/testify/assert"
)

func TestResolveCaptureRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"plain url", "http://10.28.158.71/jpg", "http://10.28.158.71/jpg"},
		{"trimmed", "  http://10.0.0.2/jpg\n", "http://10.0.0.2/jpg"},
		{"json reference", `{"url":"https://picsum.photos/640/480?random=7"}`, "https://picsum.photos/640/480?random=7"},
		{"json with spaces", `{ "url" : " http://192.168.1.9/jpg " }`, "http://192.168.1.9/jpg"},
		{"malformed json kept", `{"url":`, `{"url":`},
		{"json without url kept", `{"path":"/jpg"}`, `{"path":"/jpg"}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, delivery.ResolveCaptureRef(tt.ref))
		})
	}
}
