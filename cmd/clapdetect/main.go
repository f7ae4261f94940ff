// Command clapdetect listens for hand-clap patterns in an audio file or a
// raw PCM stream and prints each pattern as it closes.
//
// Usage:
//
//	clapdetect [flags] -in <file|->
//
// Examples:
//
//	clapdetect -in takes/desk.wav
//	clapdetect -in takes/desk.wav -analyze
//	arecord -f S16_LE -r 44100 -c 1 -t raw | clapdetect -in - -raw-rate 44100
//	clapdetect -in - -save-dir clips -save-on 2 -metrics-addr :9464
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-clap/clap"
	"github.com/cwbudde/algo-clap/internal/audiofile"
	"github.com/cwbudde/algo-clap/internal/observe"
	"github.com/cwbudde/algo-clap/internal/wavsink"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML detector configuration")
	in := flag.String("in", "", "input audio file (wav, aiff, mp3, ogg) or - for raw s16le on stdin")
	rawRate := flag.Int("raw-rate", 44100, "sample rate of raw stdin input")
	rawChannels := flag.Int("raw-channels", 1, "channel count of raw stdin input")
	bufferSize := flag.Int("buffer", 0, "samples per buffer (0: config value, else 100 ms)")
	saveDir := flag.String("save-dir", "", "directory for WAV clips of detected patterns")
	saveOn := flag.Int("save-on", 2, "minimum clap count that triggers a clip save")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	analyze := flag.Bool("analyze", false, "print a spectral report for every onset")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as YAML and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: clapdetect [flags] -in <file|->\n\n")
		fmt.Fprintf(os.Stderr, "Detects hand-clap patterns and prints one line per pattern.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  clapdetect -in takes/desk.wav -analyze\n")
		fmt.Fprintf(os.Stderr, "  arecord -f S16_LE -r 44100 -t raw | clapdetect -in - -save-dir clips\n")
	}
	flag.Parse()

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	cfg := clap.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = clap.LoadConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "clapdetect: %v\n", err)
			return 1
		}
	}
	if *bufferSize > 0 {
		cfg.BufferSize = *bufferSize
	}

	if *printConfig {
		out, err := cfg.YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "clapdetect: %v\n", err)
			return 1
		}
		os.Stdout.Write(out)
		return 0
	}

	if *in == "" {
		flag.Usage()
		return 2
	}

	src, err := openInput(*in, *rawRate, *rawChannels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clapdetect: %v\n", err)
		return 1
	}
	defer src.Close()

	opts := options{
		config:  cfg,
		saveOn:  *saveOn,
		analyze: *analyze,
		out:     os.Stdout,
		log:     logger,
	}

	if *saveDir != "" {
		if opts.sink, err = wavsink.New(*saveDir); err != nil {
			slog.Error("failed to prepare clip directory", "err", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var srv *http.Server
	if *metricsAddr != "" {
		provider, err := observe.InitProvider(ctx, observe.ProviderConfig{})
		if err != nil {
			slog.Error("failed to init metrics", "err", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = provider.Shutdown(shutdownCtx)
		}()

		// InitProvider installed the global provider DefaultMetrics reads.
		opts.metrics = observe.DefaultMetrics()

		srv = newMetricsServer(gctx, *metricsAddr, provider)
		g.Go(func() error {
			slog.Info("serving metrics", "addr", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}
		}()
		return detect(gctx, src, opts)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("clapdetect failed", "err", err)
		return 1
	}

	return 0
}

// newMetricsServer exposes the provider's Prometheus view at /metrics.
func newMetricsServer(ctx context.Context, addr string, provider *observe.Provider) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", provider.Handler)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func openInput(in string, rawRate, rawChannels int) (audiofile.Source, error) {
	if in == "-" {
		return audiofile.Raw(os.Stdin, rawRate, rawChannels)
	}
	return audiofile.Open(in)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
