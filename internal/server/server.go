// Package server exposes the statement workflow over HTTP: create a
// session, upload the two reference extracts, resolve a deal, preview and
// edit the statement, download it as HTML or a spreadsheet.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hudgen/internal/common/config"
	apperrors "hudgen/internal/common/errors"
	"hudgen/internal/common/logger"
	"hudgen/internal/eligibility"
	"hudgen/internal/match"
	"hudgen/internal/render"
	"hudgen/internal/resolver"
)

// DealResolver is what the HTTP layer needs from the record-store side.
type DealResolver interface {
	Resolve(ctx context.Context, identifier string) (*resolver.Bundle, error)
}

type Server struct {
	Echo *echo.Echo

	cfg      *config.Config
	log      logger.Logger
	resolver DealResolver
	matcher  *match.Matcher
	checker  *eligibility.Checker
	renderer *render.Renderer
	sessions *sessionStore
}

func New(cfg *config.Config, res DealResolver, log logger.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	renderer, err := render.New(cfg.Render)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Echo:     e,
		cfg:      cfg,
		log:      log,
		resolver: res,
		matcher:  match.NewMatcher(cfg.Match.JaccardThreshold, log),
		checker:  eligibility.NewChecker(cfg.Rules.LateFeeSeverity),
		renderer: renderer,
		sessions: newSessionStore(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.Echo.GET("/", s.handleIndex)
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.Echo.Group("/api/v1")
	api.POST("/sessions", s.handleCreateSession)
	api.POST("/sessions/:id/files/insurance", s.handleUploadInsurance)
	api.POST("/sessions/:id/files/payments", s.handleUploadPayments)
	api.POST("/sessions/:id/resolve", s.handleResolve)
	api.POST("/sessions/:id/generate", s.handleGenerate)
	api.PATCH("/sessions/:id/statement", s.handleEdit)
	api.GET("/sessions/:id/statement", s.handleGetStatement)
	api.GET("/sessions/:id/download/html", s.handleDownloadHTML)
	api.GET("/sessions/:id/download/xlsx", s.handleDownloadXLSX)
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleCreateSession(c echo.Context) error {
	sess := s.sessions.create()
	return c.JSON(http.StatusCreated, map[string]string{"session_id": sess.ID})
}

func (s *Server) session(c echo.Context) (*Session, error) {
	return s.sessions.get(c.Param("id"))
}

// errorResponse is the uniform error envelope. Schema mismatches carry the
// last attempted query and the raw store error verbatim for debugging.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Query   string `json:"query,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

func (s *Server) fail(c echo.Context, err error) error {
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, errorResponse{
			Code:    string(apperrors.ErrCodeDealNotFound),
			Message: nf.Error(),
		})
	}

	var sm *apperrors.SchemaMismatchError
	if errors.As(err, &sm) {
		cause := ""
		if sm.Cause != nil {
			cause = sm.Cause.Error()
		}
		return c.JSON(http.StatusBadGateway, errorResponse{
			Code:    string(apperrors.ErrCodeSchemaMismatch),
			Message: sm.Error(),
			Query:   sm.LastQuery,
			Cause:   cause,
		})
	}

	var app *apperrors.AppError
	if errors.As(err, &app) {
		status := http.StatusInternalServerError
		switch app.Code {
		case apperrors.ErrCodeSessionNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeReferenceLoad:
			status = http.StatusBadRequest
		case apperrors.ErrCodeFilesNotLoaded:
			status = http.StatusConflict
		case apperrors.ErrCodeStoreQueryFailed, apperrors.ErrCodeStoreAuthFailed:
			status = http.StatusBadGateway
		}
		return c.JSON(status, errorResponse{Code: string(app.Code), Message: app.Message})
	}

	s.log.WithError(err).Error("unhandled request error", map[string]interface{}{
		"path": c.Path(),
	})
	return c.JSON(http.StatusInternalServerError, errorResponse{
		Code:    string(apperrors.ErrCodeInternal),
		Message: "internal error",
	})
}
