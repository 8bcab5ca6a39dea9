// Command boggle-server runs the two-player word game.
//
// Usage:
//
//	boggle-server [-config dir] [seconds dictionary-file [board]]
//
// Positional arguments override the game_time, dictionary and board settings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Zereker/boggle"
	"github.com/Zereker/boggle/board"
	"github.com/Zereker/boggle/config"
	"github.com/Zereker/boggle/dictionary"
	"github.com/Zereker/boggle/events"
	"github.com/Zereker/boggle/match"
	"github.com/Zereker/boggle/report"
	"github.com/Zereker/boggle/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "directory containing boggle.yaml")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config dir] [seconds dictionary-file [board]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := applyArgs(cfg, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log_level %q: %v\n", cfg.LogLevel, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down server...")
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// applyArgs applies the positional seconds, dictionary and board arguments.
func applyArgs(cfg *config.Config, args []string) error {
	switch len(args) {
	case 0:
		return nil
	case 2, 3:
	default:
		return errors.New("expected seconds and dictionary-file, optionally followed by a board")
	}

	seconds, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid seconds %q: %w", args[0], err)
	}
	cfg.GameTime = seconds
	cfg.Dictionary = args[1]
	if len(args) == 3 {
		cfg.Board = args[2]
	}
	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config, logger boggle.Logger) error {
	dict := dictionary.Default()
	if cfg.Dictionary != "" {
		var err error
		if dict, err = dictionary.Load(cfg.Dictionary); err != nil {
			return err
		}
	}
	logger.Info("dictionary loaded", "words", dict.Len(), "path", cfg.Dictionary)

	opts := []match.Option{match.LoggerOption(logger)}
	if cfg.Board != "" {
		b, err := board.New(cfg.Board)
		if err != nil {
			return err
		}
		opts = append(opts, match.FixedBoardOption(b))
	}

	var (
		recorders []match.Recorder
		results   *store.Store
	)
	if cfg.Database.Driver != config.DriverNone {
		st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer st.Close()
		results = st
		recorders = append(recorders, st)
	}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		defer nc.Drain()
		recorders = append(recorders, events.NewPublisher(nc, cfg.NATS.Subject))
	}
	opts = append(opts, match.RecorderOption(match.Recorders(recorders...)))

	driver := match.NewDriver(nil, match.TickInterval, logger)
	matchmaker := match.NewMatchmaker(dict, cfg.GameTime, driver, opts...)

	addr, err := net.ResolveTCPAddr("tcp", cfg.GameAddr)
	if err != nil {
		return err
	}
	server, err := boggle.New(addr,
		boggle.ServerLoggerOption(logger),
		boggle.ServerConnOptions(
			boggle.LoggerOption(logger),
			boggle.FlushTimeoutOption(cfg.FlushTimeout),
		),
	)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Serve(ctx, matchmaker)
	})

	g.Go(func() error {
		return driver.Run(ctx)
	})

	if cfg.ReportAddr != "" && results != nil {
		httpServer := &http.Server{
			Addr:              cfg.ReportAddr,
			Handler:           report.New(results, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("report server started", "addr", cfg.ReportAddr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
