package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
)

// Export formats for transcripts
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ValidFormat reports whether the export format is supported
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return true
	}
	return false
}

// FileExporter writes transcripts into a directory on local disk, one
// uniquely named file per export
type FileExporter struct {
	dir    string
	logger *zap.Logger
}

// Ensure FileExporter implements the TranscriptExporter interface
var _ repositories.TranscriptExporter = (*FileExporter)(nil)

// NewFileExporter creates a new file exporter, creating the export
// directory when it does not exist yet
func NewFileExporter(dir string, logger *zap.Logger) (*FileExporter, error) {
	if dir == "" {
		return nil, fmt.Errorf("export directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	return &FileExporter{
		dir:    dir,
		logger: logger,
	}, nil
}

// jsonDocument is the on-disk layout for JSON exports
type jsonDocument struct {
	Transcript string         `json:"transcript"`
	Timestamp  string         `json:"timestamp"`
	Metadata   map[string]any `json:"metadata"`
}

// Export writes the transcript in the given format and returns the path
// of the written file
func (e *FileExporter) Export(format string, transcript *entities.Transcript, source string) (string, error) {
	if !ValidFormat(format) {
		return "", fmt.Errorf("unknown export format %q", format)
	}

	now := time.Now()
	filename := fmt.Sprintf("transcript_%s_%s.%s", now.Format("20060102_150405"), uuid.NewString()[:8], format)
	path := filepath.Join(e.dir, filename)

	var err error
	switch format {
	case FormatText:
		err = os.WriteFile(path, []byte(transcript.Text), 0o644)
	case FormatJSON:
		err = e.writeJSON(path, transcript, source, now)
	case FormatCSV:
		err = e.writeCSV(path, transcript, source, now)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	e.logger.Info("Exported transcript",
		zap.String("path", path),
		zap.String("format", format))

	return path, nil
}

func (e *FileExporter) writeJSON(path string, transcript *entities.Transcript, source string, now time.Time) error {
	doc := jsonDocument{
		Transcript: transcript.Text,
		Timestamp:  now.Format(time.RFC3339),
		Metadata: map[string]any{
			"language": transcript.DetectedLanguage,
			"duration": transcript.Duration,
			"model":    transcript.Model,
			"source":   source,
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (e *FileExporter) writeCSV(path string, transcript *entities.Transcript, source string, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records := [][]string{
		{"timestamp", "transcript", "language", "duration", "model", "source"},
		{
			now.Format(time.RFC3339),
			transcript.Text,
			transcript.DetectedLanguage,
			strconv.FormatFloat(transcript.Duration, 'f', -1, 64),
			transcript.Model,
			source,
		},
	}

	return csv.NewWriter(f).WriteAll(records)
}
