package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/samcharles93/ansysio/internal/api"
	"github.com/samcharles93/ansysio/internal/catalog"
	"github.com/samcharles93/ansysio/internal/logger"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		dataDir     string
		cacheSize   int
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the files of a data directory over a read-only JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Aliases:     []string{"d"},
				Usage:       "directory holding .rst, .full and .cdb files (default $" + catalog.EnvDataDir + ")",
				Destination: &dataDir,
			},
			&cli.IntFlag{
				Name:        "cache-size",
				Usage:       "number of open file handles to keep",
				Value:       api.DefaultCacheSize,
				Destination: &cacheSize,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, appConfig, &addr, &dataDir, &cacheSize)
			dir := catalog.DataDir(dataDir)
			if dir == "" {
				return errors.New("no data directory: pass --data-dir, set data_dir in the config file or " + catalog.EnvDataDir)
			}

			handles, err := api.NewHandleCache(cacheSize, log)
			if err != nil {
				return err
			}
			server := api.NewServer(dir, handles, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "data_dir", dir)
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
