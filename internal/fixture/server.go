package fixture

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sickscan/sickscan-tui/internal/symptom"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Symptoms    []symptom.Symptom `json:"symptoms"`
	DetectedIDs []symptom.ID      `json:"detected_ids"`
}

type predictRequest struct {
	Symptoms []symptom.ID `json:"symptoms"`
}

type predictResponse struct {
	Predictions []symptom.Prediction `json:"predictions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes an Engine over the same HTTP contract as the real service.
type Server struct {
	echo   *echo.Echo
	engine *Engine
	logger zerolog.Logger
}

func NewServer(fx *Fixture, logger zerolog.Logger) *Server {
	s := &Server{
		echo:   echo.New(),
		engine: NewEngine(fx),
		logger: logger,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(requestLogger(s.logger))

	s.echo.GET("/all_symptoms", s.handleCatalog)
	s.echo.POST("/analyze", s.handleAnalyze)
	s.echo.POST("/predict", s.handlePredict)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Int("symptoms", len(s.engine.entries)).Msg("fixture service listening")
	err := s.echo.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Catalog())
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "No text provided"})
	}

	found := s.engine.Detect(req.Text)
	resp := analyzeResponse{
		Symptoms:    make([]symptom.Symptom, 0, len(found)),
		DetectedIDs: make([]symptom.ID, 0, len(found)),
	}
	for _, f := range found {
		resp.Symptoms = append(resp.Symptoms, f)
		resp.DetectedIDs = append(resp.DetectedIDs, f.ID)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePredict(c echo.Context) error {
	var req predictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}
	if len(req.Symptoms) == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "No symptoms provided"})
	}

	preds := s.engine.Rank(req.Symptoms)
	if preds == nil {
		preds = []symptom.Prediction{}
	}
	return c.JSON(http.StatusOK, predictResponse{Predictions: preds})
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt.
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Msg("request")

			return err
		}
	}
}
