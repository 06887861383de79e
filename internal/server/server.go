// Package server exposes the persisted results tables as a read-only JSON
// API. All numeric evaluation happens elsewhere; this is serving glue only.
package server

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/atmonu/cutopt/internal/results"
)

const (
	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8080
)

// StdResponse is the standardized response envelope.
type StdResponse[T any] struct {
	Body  T       `json:"body"`
	Error *string `json:"error,omitempty"`
}

func createResponse[T any](body T, err error) StdResponse[T] {
	if err != nil {
		errMsg := err.Error()
		return StdResponse[T]{Body: body, Error: &errMsg}
	}
	return StdResponse[T]{Body: body}
}

type Config struct {
	Host string
	Port int
}

// Server serves results tables from one store.
type Server struct {
	App    *fiber.App
	store  *results.Store
	config Config
}

func New(store *results.Store, config Config) *Server {
	if config.Host == "" {
		config.Host = DefaultServerHost
	}
	if config.Port == 0 {
		config.Port = DefaultServerPort
	}

	app := fiber.New(fiber.Config{
		Prefork:      false,
		ErrorHandler: fiberErrHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestCompression}))

	s := &Server{App: app, store: store, config: config}

	app.Get("/health", s.handleHealth)
	app.Get("/tables/:table/rows", s.handleTableRows)
	app.Get("/bins/:table", s.handleBinSeries)

	return s
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	} else if errors.Is(err, results.ErrStorageAccess) {
		// Every storage failure on the read path means the requested table
		// is not there to serve.
		code = fiber.StatusNotFound
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("request failed")

	return ctx.Status(code).JSON(createResponse(map[string]any{}, err))
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(createResponse(map[string]string{"status": "ok"}, nil))
}

func (s *Server) handleTableRows(c *fiber.Ctx) error {
	table := c.Params("table")
	rows, err := s.store.Rows(c.Context(), table)
	if err != nil {
		return err
	}
	log.Debug().Str("table", table).Int("rows", len(rows)).Msg("serving table rows")
	return c.JSON(createResponse(rows, nil))
}

func (s *Server) handleBinSeries(c *fiber.Ctx) error {
	table := c.Params("table")
	series, err := s.store.ReadBinSeries(c.Context(), table)
	if err != nil {
		return err
	}
	return c.JSON(createResponse(series, nil))
}

// Start blocks serving until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	log.Info().Str("addr", addr).Msg("results server listening")
	return s.App.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
