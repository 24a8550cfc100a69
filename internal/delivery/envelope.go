package delivery

import (
	"strings"

	"github.com/google/uuid"
)

const (
	photoFilename    = "image.jpg"
	photoContentType = "image/jpeg"
)

// Envelope is a multipart/form-data photo upload assembled in one buffer:
// header, image bytes, trailer.
type Envelope struct {
	Boundary string
	Header   []byte
	Trailer  []byte

	body []byte
}

// BuildEnvelope encodes chat_id, caption and the photo part with a fresh boundary.
func BuildEnvelope(chatID, caption string, image []byte) *Envelope {
	boundary := "----SentinelBoundary" + strings.ReplaceAll(uuid.NewString(), "-", "")

	var h strings.Builder
	writeField(&h, boundary, "chat_id", chatID)
	writeField(&h, boundary, "caption", caption)
	h.WriteString("--" + boundary + "\r\n")
	h.WriteString(`Content-Disposition: form-data; name="photo"; filename="` + photoFilename + "\"\r\n")
	h.WriteString("Content-Type: " + photoContentType + "\r\n\r\n")

	header := []byte(h.String())
	trailer := []byte("\r\n--" + boundary + "--\r\n")

	body := make([]byte, 0, len(header)+len(image)+len(trailer))
	body = append(body, header...)
	body = append(body, image...)
	body = append(body, trailer...)

	return &Envelope{
		Boundary: boundary,
		Header:   header,
		Trailer:  trailer,
		body:     body,
	}
}

func writeField(b *strings.Builder, boundary, name, value string) {
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString(`Content-Disposition: form-data; name="` + name + "\"\r\n\r\n")
	b.WriteString(value)
	b.WriteString("\r\n")
}

// ContentType is the request Content-Type header value.
func (e *Envelope) ContentType() string {
	return "multipart/form-data; boundary=" + e.Boundary
}

// Body returns the assembled request body.
func (e *Envelope) Body() []byte {
	return e.body
}

// Len is len(Header) + image length + len(Trailer).
func (e *Envelope) Len() int {
	return len(e.body)
}

// ImageOffset is where the image bytes start inside Body.
func (e *Envelope) ImageOffset() int {
	return len(e.Header)
}

// Release drops the assembled body.
func (e *Envelope) Release() {
	e.body = nil
	e.Header = nil
	e.Trailer = nil
}
