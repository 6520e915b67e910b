package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/matkit/internal/api"
	"github.com/samcharles93/matkit/internal/logger"
	"github.com/samcharles93/matkit/internal/matstore"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		dir         string
		cacheSize   int64
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a directory of MAT-files over a read-only REST API",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory of MAT-files to serve",
				Value:       ".",
				Destination: &dir,
			},
			&cli.Int64Flag{
				Name:        "cache",
				Usage:       "maximum number of decoded files kept in memory",
				Value:       16,
				Destination: &cacheSize,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, LoadConfig(), &addr, &dir, &cacheSize)
			log := buildLogger()
			ctx = logger.WithContext(ctx, log)

			store, err := matstore.New(int(cacheSize))
			if err != nil {
				return err
			}
			defer store.Purge()

			server, err := api.NewServer(dir, store)
			if err != nil {
				return err
			}
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "dir", dir, "cache", cacheSize)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

func buildLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	default:
		return logger.Pretty(os.Stderr, level)
	}
}
