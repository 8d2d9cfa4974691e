package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/thundertrack/frameapi/config"
	"github.com/thundertrack/frameapi/frame"
)

// Version is reported by the index route and the CLI.
const Version = "1.0.0"

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Server exposes the frame endpoints over Fiber.
type Server struct {
	app      *fiber.App
	composer *frame.Composer
	cfg      *config.Config
	log      *slog.Logger
	variant  frame.Variant

	// Now is the clock behind /api/test.
	Now func() time.Time
}

// NewServer wires handlers and middleware. Request lines are written to
// accessLog; nil discards them.
func NewServer(cfg *config.Config, composer *frame.Composer, log *slog.Logger, accessLog io.Writer) *Server {
	if log == nil {
		log = slog.Default()
	}
	if accessLog == nil {
		accessLog = io.Discard
	}

	srv := &Server{
		composer: composer,
		cfg:      cfg,
		log:      log,
		variant:  cfg.Variant(),
		Now:      time.Now,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          srv.handleError,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
		Output: accessLog,
	}))
	app.Use(cors.New())

	srv.app = app
	srv.registerRoutes()
	return srv
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	addr := s.cfg.Addr()
	s.log.Info("frame api listening", "addr", addr, "variant", s.variant.String(), "environment", s.cfg.Server.Environment)
	return s.app.Listen(addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/", s.handleIndex)
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	api.Get("/test", s.handleTest)
	api.Get("/frame/diary", s.handleDiary)
	api.Get("/frame/image", s.handleImage)
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    s.cfg.Frame.AppName + " Frame API",
		"version": Version,
		"endpoints": []string{
			"/api/test",
			"/api/frame/diary",
			"/api/frame/image",
		},
	})
}

func (s *Server) handleTest(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":     s.cfg.Frame.AppName + " Frame API is working!",
		"timestamp":   s.Now().UTC().Format(isoMillis),
		"environment": s.cfg.Server.Environment,
	})
}

func (s *Server) handleDiary(c *fiber.Ctx) error {
	rawQuery := string(c.Request().URI().QueryString())
	fields := fieldsFrom(rawQuery)

	doc, err := s.composer.Document(fields, frame.Request{
		BaseURL:  s.origin(c),
		RawQuery: rawQuery,
	}, s.variant)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("compose diary: %v", err))
	}

	s.log.Debug("composed diary", "diary_id", doc.DiaryID, "pair", fields.Pair)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.SendString(doc.Body)
}

func (s *Server) handleImage(c *fiber.Ctx) error {
	fields := fieldsFrom(string(c.Request().URI().QueryString()))

	doc, err := s.composer.Image(fields)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("compose image: %v", err))
	}

	s.log.Debug("composed image", "pair", fields.Pair, "pnl", fields.PnL)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", s.cfg.Server.CacheMaxAge))
	return c.SendString(doc.Body)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("request failed", "method", c.Method(), "path", c.Path(), "err", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// origin is the scheme://host the page refers back to.
func (s *Server) origin(c *fiber.Ctx) string {
	if s.cfg.Server.PublicURL != "" {
		return s.cfg.Server.PublicURL
	}
	return c.BaseURL()
}

// fieldsFrom is lenient: a malformed pair in the query string is skipped.
func fieldsFrom(rawQuery string) frame.Fields {
	q, _ := url.ParseQuery(rawQuery)
	return frame.FieldsFromQuery(q)
}
