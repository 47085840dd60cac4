package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
)

const (
	googleModelName       = "google-speech-v1"
	defaultGoogleLanguage = "en-US"
)

// googleLanguageCodes maps ISO 639-1 hints to the BCP-47 codes the
// Speech-to-Text API expects
var googleLanguageCodes = map[string]string{
	"en": "en-US",
	"es": "es-ES",
	"fr": "fr-FR",
	"de": "de-DE",
	"it": "it-IT",
	"pt": "pt-BR",
	"nl": "nl-NL",
	"ru": "ru-RU",
	"zh": "cmn-Hans-CN",
	"ja": "ja-JP",
	"ar": "ar-EG",
	"hi": "hi-IN",
	"ko": "ko-KR",
	"tr": "tr-TR",
	"pl": "pl-PL",
	"ca": "ca-ES",
	"cs": "cs-CZ",
	"da": "da-DK",
	"el": "el-GR",
	"fi": "fi-FI",
	"he": "iw-IL",
	"hu": "hu-HU",
	"id": "id-ID",
	"no": "nb-NO",
	"ro": "ro-RO",
	"sv": "sv-SE",
	"th": "th-TH",
	"uk": "uk-UA",
	"vi": "vi-VN",
}

// GoogleConfig holds configuration for the GoogleSpeechToText adapter
// Optional fields with defaults:
// - DefaultLanguage: BCP-47 code used when no language hint is given (default: "en-US")
type GoogleConfig struct {
	DefaultLanguage string // Optional: BCP-47 code used when no language hint is given
}

// GoogleSpeechToText implements SpeechToText using Google Cloud
// Speech-to-Text. Credentials are resolved from the environment when a
// recognition client is created.
type GoogleSpeechToText struct {
	defaultLanguage string
	logger          *zap.Logger
}

// Ensure GoogleSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a new Google Cloud Speech adapter
func NewGoogleSpeechToText(config GoogleConfig, logger *zap.Logger) *GoogleSpeechToText {
	defaultLanguage := config.DefaultLanguage
	if defaultLanguage == "" {
		defaultLanguage = defaultGoogleLanguage
		logger.Info("Using default recognition language", zap.String("language", defaultLanguage))
	}

	return &GoogleSpeechToText{
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// Model reports the model name used for recognition
func (g *GoogleSpeechToText) Model() string {
	return googleModelName
}

// Transcribe converts decoded audio to text
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audioData *entities.AudioData, opts repositories.TranscriptionOptions) (*entities.Transcript, error) {
	if err := audioData.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrTranscription)
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %v: %w", err, domain.ErrTranscription)
	}
	defer client.Close()

	languageCode := g.languageCode(opts.Language)

	g.logger.Info("Transcribing audio",
		zap.String("model", googleModelName),
		zap.String("languageCode", languageCode),
		zap.Float64("duration", audioData.Duration()))

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(audioData.SampleRate),
			LanguageCode:    languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData.PCM()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("recognition request failed: %v: %w", err, domain.ErrTranscription)
	}

	var parts []string
	detected := ""
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		// Take the best alternative
		parts = append(parts, strings.TrimSpace(result.Alternatives[0].Transcript))
		if detected == "" && result.LanguageCode != "" {
			detected = result.LanguageCode
		}
	}
	if detected == "" {
		detected = languageCode
	}

	// No results means no speech was detected, reported as an empty
	// transcript rather than an error
	return &entities.Transcript{
		Text:             strings.Join(parts, " "),
		DetectedLanguage: detected,
		Duration:         audioData.Duration(),
		Model:            googleModelName,
	}, nil
}

// languageCode resolves a client language hint to a BCP-47 code
func (g *GoogleSpeechToText) languageCode(hint string) string {
	code, known := NormalizeLanguageHint(hint)
	if !known {
		// Hints already in BCP-47 form pass through unchanged
		if strings.Contains(hint, "-") {
			return hint
		}
		g.logger.Warn("Ignoring unsupported language hint", zap.String("language", hint))
		return g.defaultLanguage
	}

	if code == "" {
		return g.defaultLanguage
	}

	if bcp, ok := googleLanguageCodes[code]; ok {
		return bcp
	}
	return g.defaultLanguage
}
