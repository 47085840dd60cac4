package entities

import (
	"errors"
	"net/http"
)

// ImageInput is an optional reference image supplied to ground query
// generation, kept in memory for the lifetime of one request.
type ImageInput struct {
	Data     []byte
	Filename string
	MIMEType string
}

// MIME returns the declared MIME type, sniffing it from the content when
// the upload did not carry one.
func (i *ImageInput) MIME() string {
	if i.MIMEType != "" {
		return i.MIMEType
	}
	return http.DetectContentType(i.Data)
}

func (i *ImageInput) Validate() error {
	if len(i.Data) == 0 {
		return errors.New("image data is empty")
	}
	return nil
}
