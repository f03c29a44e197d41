// Package server exposes the invoice pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rezonia/invoice-tex/internal/codec"
	"github.com/rezonia/invoice-tex/internal/finalize"
	"github.com/rezonia/invoice-tex/internal/helpers"
	"github.com/rezonia/invoice-tex/internal/processor"
	"github.com/rezonia/invoice-tex/internal/render"
)

// MaxBodySize limits invoice documents accepted by the API
const MaxBodySize = 1 << 20

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RenderTimeout bounds a single pipeline run. Zero means no limit.
	RenderTimeout time.Duration
	Debug         bool
	Logger        zerolog.Logger
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	logger   zerolog.Logger
}

// NewServer creates a new API server around pipeline
func NewServer(config *Config, pipeline *processor.Pipeline) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Metrics())
	router.Use(RequestLogger(config.Logger))

	s := &Server{
		config:   config,
		router:   router,
		pipeline: pipeline,
		logger:   config.Logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/render", s.handleRender)
		v1.POST("/render/tex", s.handleRenderTeX)
		v1.POST("/validate", s.handleValidate)
	}
}

// Run starts the HTTP server and shuts it down gracefully when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.config.Address).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRender(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := s.renderContext(c)
	defer cancel()

	result := s.pipeline.ProcessBytes(ctx, body)
	if result.Error != nil {
		s.fail(c, result)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+Filename(result.Invoice.Info.ID)+`"`)
	c.Header("X-Invoice-Total", result.Sum.String())
	c.Data(http.StatusOK, "application/pdf", result.Document)
}

func (s *Server) handleRenderTeX(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	result := s.pipeline.RenderBytes(body)
	if result.Error != nil {
		s.fail(c, result)
		return
	}

	c.Header("X-Invoice-Total", result.Sum.String())
	c.Data(http.StatusOK, "text/x-tex; charset=utf-8", []byte(result.Source))
}

func (s *Server) handleValidate(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	result := s.pipeline.RenderBytes(body)
	if result.Error != nil {
		s.fail(c, result)
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:   true,
		Summary: result.Invoice.Summary(),
	})
}

func (s *Server) renderContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.config.RenderTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), s.config.RenderTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (s *Server) fail(c *gin.Context, result *processor.Result) {
	status := StatusFor(result.Error)

	resp := ErrorResponse{
		Error: result.Error.Error(),
		Stage: string(result.Stage),
	}

	var toolErr *finalize.ExternalToolError
	if errors.As(result.Error, &toolErr) {
		resp.Details = toolErr.Log
	}

	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(result.Error).
		Str("request_id", c.GetString(RequestIDKey)).
		Str("stage", resp.Stage).
		Int("status", status).
		Msg("pipeline failed")

	c.JSON(status, resp)
}

// StatusFor maps pipeline errors to HTTP status codes
func StatusFor(err error) int {
	var (
		formatErr   *codec.FormatError
		helperErr   *helpers.HelperError
		templateErr *render.TemplateError
		toolErr     *finalize.ExternalToolError
	)

	switch {
	case errors.As(err, &formatErr), errors.As(err, &helperErr), errors.As(err, &templateErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &toolErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Filename derives a safe download name from an invoice id
func Filename(id string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
	name = strings.Trim(name, "-")
	if name == "" {
		return "invoice.pdf"
	}
	return "invoice-" + name + ".pdf"
}

func readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)

	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}

	return body, true
}
