package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/voicequery/voicequery/internal/auth"
	"github.com/voicequery/voicequery/internal/metrics"
	"github.com/voicequery/voicequery/usecase"
)

// InitRoutes initializes all API routes. When jwtSecret is empty the
// upload endpoints are left open, matching a single-tenant deployment.
func InitRoutes(e *echo.Echo, pipeline *usecase.PipelineService, m *metrics.Metrics, jwtSecret string, logger *zap.Logger) {
	e.Use(requestMetrics(m))

	// Service information and health check stay open so probes work
	// without a token.
	e.GET("/", root)
	e.GET("/health", func(c echo.Context) error {
		return healthCheck(c, pipeline)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	var protected []echo.MiddlewareFunc
	if jwtSecret != "" {
		protected = append(protected, bearerAuth([]byte(jwtSecret), logger))
	}

	e.POST("/transcribe", func(c echo.Context) error {
		return transcribeAudio(c, pipeline, logger)
	}, protected...)

	e.POST("/generate-query", func(c echo.Context) error {
		return generateQuery(c, pipeline, logger)
	}, protected...)

	e.POST("/process", func(c echo.Context) error {
		return processAudio(c, pipeline, logger)
	}, protected...)
}

// bearerAuth validates the Authorization header before an upload endpoint
// runs.
func bearerAuth(secret []byte, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Extract JWT token from Authorization header only
			var token string
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader != "" && len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				token = authHeader[7:]
			}

			if token == "" {
				logger.Warn("Request rejected: missing token",
					zap.String("path", c.Request().URL.Path))
				return errorJSON(c, http.StatusUnauthorized, "JWT token is required in Authorization header", nil)
			}

			claims, err := auth.ValidateToken(secret, token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.Error(err))
				return errorJSON(c, http.StatusUnauthorized, "Invalid or expired JWT token", nil)
			}

			c.Set("claims", claims)
			return next(c)
		}
	}
}

// requestMetrics records count and latency for every request by route
// template.
func requestMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			}

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = c.Request().URL.Path
			}
			m.RecordHTTPRequest(c.Request().Method, endpoint, strconv.Itoa(status), time.Since(start).Seconds())

			return err
		}
	}
}
