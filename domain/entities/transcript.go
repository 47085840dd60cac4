package entities

import "strings"

// Transcript is the immutable result of one speech recognition call.
// Text and DetectedLanguage form the wire contract; Duration and Model are
// metadata carried along for export and logging.
type Transcript struct {
	Text             string  `json:"text"`
	DetectedLanguage string  `json:"detected_language,omitempty"`
	Duration         float64 `json:"duration,omitempty"`
	Model            string  `json:"model,omitempty"`
}

// IsEmpty reports whether the recognizer produced no usable text.
func (t *Transcript) IsEmpty() bool {
	return strings.TrimSpace(t.Text) == ""
}
