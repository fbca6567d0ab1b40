package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chess-bestmove/book"
	"chess-bestmove/config"
	"chess-bestmove/server"
	"chess-bestmove/service"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "JSON config file (empty = defaults)")
	addr := flag.String("addr", "", "listen address")
	depth := flag.Int("depth", 0, "default search depth")
	timeoutMs := flag.Int("timeout", -1, "search timeout in milliseconds (0 = none)")
	noBook := flag.Bool("nobook", false, "disable the opening book")
	bookPath := flag.String("book", "", "opening book file (.json or SAN csv)")
	level := flag.String("log", "", "log level")
	pretty := flag.Bool("pretty", false, "human readable console logs")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "depth":
			cfg.SearchDepth = *depth
		case "timeout":
			cfg.SearchTimeoutMs = *timeoutMs
		case "nobook":
			cfg.BookEnabled = !*noBook
		case "book":
			cfg.BookPath = *bookPath
		case "log":
			cfg.LogLevel = *level
		case "pretty":
			cfg.LogPretty = *pretty
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(out).Level(cfg.Level()).With().Timestamp().Logger()

	bk, err := loadBook(cfg)
	if err != nil {
		return err
	}
	logger.Info().Bool("enabled", bk != nil).Int("positions", bk.Len()).Msg("opening book")

	svc := service.New(cfg, bk, logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(svc, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Int("depth", cfg.SearchDepth).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("graceful shutdown failed")
			return srv.Close()
		}
		return nil
	})
	return g.Wait()
}

func loadBook(cfg config.Config) (*book.Book, error) {
	if !cfg.BookEnabled {
		return nil, nil
	}
	if cfg.BookPath == "" {
		return book.Default()
	}
	return book.LoadFile(cfg.BookPath)
}
