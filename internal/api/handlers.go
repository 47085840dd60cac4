package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/usecase"
)

const queryUnavailableMessage = "Query generation is not available. Please check API key configuration."

// startTime anchors the uptime reported by /health.
var startTime = time.Now()

func root(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{
		Name:        ServiceName,
		Version:     ServiceVersion,
		Description: ServiceDescription,
	})
}

func healthCheck(c echo.Context, pipeline *usecase.PipelineService) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:                   "healthy",
		Uptime:                   time.Since(startTime).Seconds(),
		WhisperModel:             pipeline.Model(),
		QueryGenerationAvailable: pipeline.QueryGenerationAvailable(),
		Version:                  ServiceVersion,
	})
}

func transcribeAudio(c echo.Context, pipeline *usecase.PipelineService, logger *zap.Logger) error {
	fileHeader, err := c.FormFile("audio_file")
	if err != nil || fileHeader.Filename == "" {
		return errorJSON(c, http.StatusBadRequest, "No audio file provided", nil)
	}

	audio, err := readFormFile(fileHeader)
	if err != nil {
		logger.Error("Failed to read audio upload", zap.Error(err))
		return errorJSON(c, http.StatusBadRequest, "Could not read uploaded file", nil)
	}

	transcript, err := pipeline.Transcribe(c.Request().Context(), usecase.TranscribeRequest{
		Audio:    audio,
		Filename: fileHeader.Filename,
		Language: c.FormValue("language"),
	})
	if err != nil {
		logger.Error("Transcription request failed", zap.Error(err))
		return errorJSON(c, statusForError(err), "Error during transcription: "+err.Error(), nil)
	}

	return c.JSON(http.StatusOK, TranscriptionResponse{
		Success:       true,
		Transcription: transcript.Text,
	})
}

func generateQuery(c echo.Context, pipeline *usecase.PipelineService, logger *zap.Logger) error {
	if !pipeline.QueryGenerationAvailable() {
		return errorJSON(c, http.StatusServiceUnavailable, queryUnavailableMessage, nil)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid multipart form", nil)
	}

	// The field must be present; an empty string is still a valid
	// transcription (silent audio).
	values, ok := form.Value["transcription"]
	if !ok || len(values) == 0 {
		return errorJSON(c, http.StatusBadRequest, "No transcription provided", nil)
	}
	transcription := values[0]

	image, err := readImageUpload(c)
	if err != nil {
		logger.Error("Failed to read image upload", zap.Error(err))
		return errorJSON(c, http.StatusBadRequest, "Could not read uploaded file", nil)
	}

	query, err := pipeline.GenerateQuery(c.Request().Context(), transcription, image)
	if err != nil {
		logger.Error("Query generation request failed", zap.Error(err))
		return errorJSON(c, statusForError(err), "Error generating query: "+err.Error(), nil)
	}

	return c.JSON(http.StatusOK, QueryResponse{
		Success:       true,
		Query:         query,
		Transcription: &transcription,
	})
}

func processAudio(c echo.Context, pipeline *usecase.PipelineService, logger *zap.Logger) error {
	// Reject before touching the upload, the combined endpoint is useless
	// without a generator.
	if !pipeline.QueryGenerationAvailable() {
		return errorJSON(c, http.StatusServiceUnavailable, queryUnavailableMessage, nil)
	}

	fileHeader, err := c.FormFile("audio_file")
	if err != nil || fileHeader.Filename == "" {
		return errorJSON(c, http.StatusBadRequest, "No audio file provided", nil)
	}

	audio, err := readFormFile(fileHeader)
	if err != nil {
		logger.Error("Failed to read audio upload", zap.Error(err))
		return errorJSON(c, http.StatusBadRequest, "Could not read uploaded file", nil)
	}

	image, err := readImageUpload(c)
	if err != nil {
		logger.Error("Failed to read image upload", zap.Error(err))
		return errorJSON(c, http.StatusBadRequest, "Could not read uploaded file", nil)
	}

	result, err := pipeline.Process(c.Request().Context(), usecase.ProcessRequest{
		Audio:    audio,
		Filename: fileHeader.Filename,
		Language: c.FormValue("language"),
		Image:    image,
	})
	if err != nil {
		logger.Error("Process request failed", zap.Error(err))

		// Keep a successful transcription in the error envelope so the
		// caller can fall back to /generate-query.
		var transcription *string
		if result != nil && result.Transcript != nil {
			transcription = &result.Transcript.Text
		}
		return errorJSON(c, statusForError(err), "Error processing request: "+err.Error(), transcription)
	}

	return c.JSON(http.StatusOK, ProcessResponse{
		Success:       true,
		Transcription: &result.Transcript.Text,
		Query:         result.Query,
	})
}

// readImageUpload returns the optional image form file, or nil when the
// request carries none.
func readImageUpload(c echo.Context) (*entities.ImageInput, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader.Filename == "" {
		return nil, nil
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		return nil, err
	}

	return &entities.ImageInput{
		Data:     data,
		Filename: fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// statusForError maps pipeline failure categories to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAudioDecode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrQueryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON writes the uniform failure envelope. Query is always null on
// failure.
func errorJSON(c echo.Context, status int, message string, transcription *string) error {
	return c.JSON(status, ErrorResponse{
		Success:       false,
		Error:         message,
		Transcription: transcription,
	})
}
