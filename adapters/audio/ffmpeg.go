package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
)

const (
	// DefaultSampleRate is the rate speech recognition models expect
	DefaultSampleRate = 16000

	defaultFFmpegBinary = "ffmpeg"
)

// Audio container formats recognized by DetectFormat
const (
	FormatWAV  = "wav"
	FormatMP3  = "mp3"
	FormatFLAC = "flac"
	FormatOGG  = "ogg"
	FormatM4A  = "m4a"
)

// LoaderConfig holds configuration for the audio Loader
// Optional fields with defaults:
// - FFmpegPath: Path to the ffmpeg binary (default: "ffmpeg", resolved via PATH)
// - TargetSampleRate: Sample rate all audio is normalized to (default: 16000)
type LoaderConfig struct {
	FFmpegPath       string // Optional: Path to the ffmpeg binary
	TargetSampleRate int    // Optional: Sample rate all audio is normalized to
}

// Loader decodes uploaded audio into mono 16-bit PCM at a fixed sample
// rate. Plain WAV files already at the target rate are decoded natively,
// everything else is piped through ffmpeg.
type Loader struct {
	ffmpegPath string
	sampleRate int
	logger     *zap.Logger
}

// Ensure Loader implements the AudioLoader interface
var _ repositories.AudioLoader = (*Loader)(nil)

// NewLoader creates a new audio Loader instance
func NewLoader(config LoaderConfig, logger *zap.Logger) *Loader {
	ffmpegPath := config.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = defaultFFmpegBinary
		logger.Info("Using default ffmpeg binary", zap.String("ffmpegPath", ffmpegPath))
	}

	sampleRate := config.TargetSampleRate
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
		logger.Info("Using default target sample rate", zap.Int("sampleRate", sampleRate))
	}

	return &Loader{
		ffmpegPath: ffmpegPath,
		sampleRate: sampleRate,
		logger:     logger,
	}
}

// IsAvailable reports whether the transcoding binary can be resolved.
// WAV uploads at the target rate still work without it.
func (l *Loader) IsAvailable() bool {
	_, err := exec.LookPath(l.ffmpegPath)
	return err == nil
}

// DetectFormat identifies the audio container from magic bytes, falling
// back to the filename extension. It returns "" for unsupported input.
func DetectFormat(data []byte, filename string) string {
	if len(data) >= 12 {
		switch {
		case bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
			return FormatWAV
		case bytes.Equal(data[0:4], []byte("fLaC")):
			return FormatFLAC
		case bytes.Equal(data[0:4], []byte("OggS")):
			return FormatOGG
		case bytes.Equal(data[0:3], []byte("ID3")):
			return FormatMP3
		case bytes.Equal(data[4:8], []byte("ftyp")):
			return FormatM4A
		// MP3 frame sync without an ID3 tag, checked last because the
		// pattern also matches random binary data
		case data[0] == 0xFF && data[1]&0xE0 == 0xE0:
			return FormatMP3
		}
	}

	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "wav":
		return FormatWAV
	case "mp3":
		return FormatMP3
	case "flac":
		return FormatFLAC
	case "ogg", "oga", "opus":
		return FormatOGG
	case "m4a", "mp4", "aac":
		return FormatM4A
	}

	return ""
}

// Load decodes audio bytes into normalized PCM samples
func (l *Loader) Load(ctx context.Context, data []byte, filename string) (*entities.AudioData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("audio file is empty: %w", domain.ErrAudioDecode)
	}

	format := DetectFormat(data, filename)
	if format == "" {
		return nil, fmt.Errorf("unsupported audio format for %q: %w", filename, domain.ErrAudioDecode)
	}

	l.logger.Debug("Decoding audio upload",
		zap.String("filename", filename),
		zap.String("format", format),
		zap.Int("bytes", len(data)))

	// Fast path: mono 16-bit WAV already at the target rate needs no
	// external decoder
	if format == FormatWAV {
		if samples, rate, err := DecodeWAV(data); err == nil && rate == l.sampleRate {
			return &entities.AudioData{
				Samples:      samples,
				SampleRate:   rate,
				SourceFormat: format,
			}, nil
		}
	}

	samples, err := l.decodeWithFFmpeg(ctx, data)
	if err != nil {
		return nil, err
	}

	return &entities.AudioData{
		Samples:      samples,
		SampleRate:   l.sampleRate,
		SourceFormat: format,
	}, nil
}

// LoadFile reads an audio file from disk and decodes it
func (l *Loader) LoadFile(ctx context.Context, path string) (*entities.AudioData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	return l.Load(ctx, data, filepath.Base(path))
}

func (l *Loader) decodeWithFFmpeg(ctx context.Context, data []byte) ([]int16, error) {
	path, err := exec.LookPath(l.ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("audio decoding tool %q is not available: %w", l.ffmpegPath, domain.ErrAudioDecode)
	}

	cmd := exec.CommandContext(ctx, path,
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(l.sampleRate),
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := firstLine(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("audio decoding failed: %s: %w", detail, domain.ErrAudioDecode)
	}

	samples := SamplesFromPCM(stdout.Bytes())
	if len(samples) == 0 {
		return nil, fmt.Errorf("decoded audio contains no samples: %w", domain.ErrAudioDecode)
	}

	return samples, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
