package audio

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/voicequery/voicequery/domain"
)

func TestDetectFormat(t *testing.T) {
	wav, err := EncodeWAV([]int16{1, 2, 3, 4, 5, 6}, 16000)
	if err != nil {
		t.Fatalf("Failed to encode WAV fixture: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
	}{
		{"wav magic", wav, "voice.bin", FormatWAV},
		{"flac magic", []byte("fLaC\x00\x00\x00\x22________"), "clip", FormatFLAC},
		{"ogg magic", []byte("OggS\x00\x02________"), "clip", FormatOGG},
		{"id3 tag", []byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00\x00"), "clip", FormatMP3},
		{"mp4 ftyp box", []byte("\x00\x00\x00\x20ftypM4A \x00\x00"), "clip", FormatM4A},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x64, 0, 0, 0, 0, 0, 0, 0, 0}, "clip", FormatMP3},
		{"extension fallback", []byte("tiny"), "recording.MP3", FormatMP3},
		{"opus extension", []byte("tiny"), "note.opus", FormatOGG},
		{"unknown", []byte("plain text, not audio"), "notes.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data, tt.filename); got != tt.want {
				t.Errorf("Expected format %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLoaderDefaults(t *testing.T) {
	logger := zaptest.NewLogger(t)

	loader := NewLoader(LoaderConfig{}, logger)

	if loader.ffmpegPath != defaultFFmpegBinary {
		t.Errorf("Expected ffmpeg path %q, got %q", defaultFFmpegBinary, loader.ffmpegPath)
	}

	if loader.sampleRate != DefaultSampleRate {
		t.Errorf("Expected sample rate %d, got %d", DefaultSampleRate, loader.sampleRate)
	}
}

func TestLoaderWAVFastPath(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// A missing binary proves the fast path never shells out
	loader := NewLoader(LoaderConfig{FFmpegPath: "/nonexistent/ffmpeg"}, logger)

	samples := []int16{100, -100, 200, -200}
	wav, err := EncodeWAV(samples, DefaultSampleRate)
	if err != nil {
		t.Fatalf("Failed to encode WAV fixture: %v", err)
	}

	audio, err := loader.Load(context.Background(), wav, "voice.wav")
	if err != nil {
		t.Fatalf("Failed to load WAV: %v", err)
	}

	if audio.SampleRate != DefaultSampleRate {
		t.Errorf("Expected sample rate %d, got %d", DefaultSampleRate, audio.SampleRate)
	}

	if audio.SourceFormat != FormatWAV {
		t.Errorf("Expected source format %q, got %q", FormatWAV, audio.SourceFormat)
	}

	if len(audio.Samples) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(audio.Samples))
	}

	for i := range samples {
		if audio.Samples[i] != samples[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, samples[i], audio.Samples[i])
		}
	}
}

func TestLoaderRejectsEmptyData(t *testing.T) {
	logger := zaptest.NewLogger(t)
	loader := NewLoader(LoaderConfig{}, logger)

	_, err := loader.Load(context.Background(), nil, "voice.wav")
	if !errors.Is(err, domain.ErrAudioDecode) {
		t.Errorf("Expected ErrAudioDecode, got %v", err)
	}
}

func TestLoaderRejectsUnsupportedFormat(t *testing.T) {
	logger := zaptest.NewLogger(t)
	loader := NewLoader(LoaderConfig{}, logger)

	_, err := loader.Load(context.Background(), []byte("definitely not audio"), "notes.txt")
	if !errors.Is(err, domain.ErrAudioDecode) {
		t.Errorf("Expected ErrAudioDecode, got %v", err)
	}
}

func TestLoaderReportsMissingDecoder(t *testing.T) {
	logger := zaptest.NewLogger(t)
	loader := NewLoader(LoaderConfig{FFmpegPath: "/nonexistent/ffmpeg"}, logger)

	// A WAV at the wrong rate forces the transcoding path
	wav, err := EncodeWAV([]int16{1, 2, 3, 4}, 44100)
	if err != nil {
		t.Fatalf("Failed to encode WAV fixture: %v", err)
	}

	_, err = loader.Load(context.Background(), wav, "voice.wav")
	if !errors.Is(err, domain.ErrAudioDecode) {
		t.Errorf("Expected ErrAudioDecode, got %v", err)
	}
}

func TestLoaderIsAvailable(t *testing.T) {
	logger := zaptest.NewLogger(t)

	loader := NewLoader(LoaderConfig{FFmpegPath: "/nonexistent/ffmpeg"}, logger)
	if loader.IsAvailable() {
		t.Error("Expected loader with bogus binary path to be unavailable")
	}
}
