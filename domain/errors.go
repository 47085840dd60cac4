package domain

import "errors"

// Pipeline failure categories. Adapters wrap their causes onto these
// sentinels with %w so the HTTP boundary can map each category to a status
// code without knowing provider specifics.
var (
	// ErrAudioDecode marks malformed or unsupported audio input, including
	// an unavailable external decoder.
	ErrAudioDecode = errors.New("audio decode failed")

	// ErrTranscription marks a speech recognition failure.
	ErrTranscription = errors.New("transcription failed")

	// ErrQueryUnavailable marks query generation being disabled for lack of
	// a credential, or the credential being rejected upstream.
	ErrQueryUnavailable = errors.New("query generation unavailable")

	// ErrQueryGeneration marks an upstream generation call failure.
	ErrQueryGeneration = errors.New("query generation failed")

	// ErrQueryParse marks model output that is not valid JSON of the
	// expected shape.
	ErrQueryParse = errors.New("query response parse failed")
)
