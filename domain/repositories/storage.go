package repositories

import "github.com/voicequery/voicequery/domain/entities"

// TranscriptExporter persists transcripts outside the request lifecycle
type TranscriptExporter interface {
	// Export writes the transcript in the given format and returns the
	// path of the written file
	Export(format string, transcript *entities.Transcript, source string) (string, error)
}
