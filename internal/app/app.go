package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rbright/talkd/internal/audio"
	"github.com/rbright/talkd/internal/cli"
	"github.com/rbright/talkd/internal/config"
	"github.com/rbright/talkd/internal/daemon"
	"github.com/rbright/talkd/internal/doctor"
	"github.com/rbright/talkd/internal/logging"
	"github.com/rbright/talkd/internal/transport"
	"github.com/rbright/talkd/internal/version"
	"github.com/rbright/talkd/internal/whisper"
)

// Runner holds process-level dependencies used by command handlers.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Execute is the package entrypoint used by cmd/talkd/main.go.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

// Execute parses CLI arguments, loads config/logging, and dispatches a command.
func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("talkd"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("talkd"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandListChannels:
		return r.commandListChannels(ctx)
	case cli.CommandRunDaemon:
		return r.commandRunDaemon(ctx, parsed, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// commandListChannels prints discovered input devices and their one native config each.
func (r Runner) commandListChannels(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s | sample_rate=%d | channels=%d\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
			device.SampleRate,
			device.Channels,
		)
	}

	return 0
}

// commandRunDaemon resolves the effective run-daemon settings, wires the
// transcription worker and command/response loop, and serves the chosen
// transport until ctx is cancelled or a Reset command is processed.
func (r Runner) commandRunDaemon(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	modelDir := firstNonEmpty(parsed.ModelDir, cfg.ModelDir)
	if strings.TrimSpace(modelDir) == "" {
		fmt.Fprintln(r.Stderr, "error: --model-dir is required (or set model_dir in config)")
		return 2
	}

	strategyRaw := firstNonEmpty(parsed.Strategy, cfg.Strategy)
	strategy, err := whisper.ParseStrategy(strategyRaw)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 2
	}

	socketPath := firstNonEmpty(parsed.SocketPath, cfg.SocketPath)
	serveAddr := firstNonEmpty(parsed.Serve, cfg.Serve)
	if socketPath != "" && serveAddr != "" {
		fmt.Fprintln(r.Stderr, "error: --socket-path and --serve are mutually exclusive")
		return 2
	}
	if socketPath == "" && serveAddr == "" {
		fmt.Fprintln(r.Stderr, "error: one of --socket-path or --serve is required")
		return 2
	}

	runCfg := cfg
	runCfg.ModelDir = modelDir
	report := doctor.Run(config.Loaded{Path: "run-daemon preflight", Config: runCfg})
	fmt.Fprintln(r.Stdout, report.String())
	if !report.OK() {
		return 1
	}

	jobs := make(chan whisper.Job, 1)
	results, workerDone := whisper.TranscriptionWorker(modelDir, jobs)
	defer func() {
		close(jobs)
		<-workerDone
	}()

	commands := make(chan daemon.Command, 1)
	responses := make(chan daemon.Response, 1)

	loop := daemon.NewLoop(logger, strategy, jobs, results)
	loop.SetInjector(func(cmd daemon.Command) {
		go func() { commands <- cmd }()
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	exitCodeCh := make(chan int, 1)
	go func() { exitCodeCh <- loop.Run(runCtx, commands, responses) }()

	transportErrCh := make(chan error, 1)
	if socketPath != "" {
		listener, err := transport.ListenUnix(socketPath)
		if err != nil {
			cancel()
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		defer func() { _ = os.Remove(socketPath) }()
		go func() { transportErrCh <- transport.ServeSocket(runCtx, listener, logger, commands, responses) }()
	} else {
		server := transport.NewHTTPServer(commands, responses)
		httpServer := &http.Server{Addr: serveAddr, Handler: server.Engine()}
		go func() {
			<-runCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()
		go func() {
			err := httpServer.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			transportErrCh <- err
		}()
	}

	logger.Info("daemon listening", "model_dir", modelDir, "strategy", strategy.String(), "socket_path", socketPath, "serve", serveAddr)

	exitCode := <-exitCodeCh
	cancel()
	if transportErr := <-transportErrCh; transportErr != nil {
		fmt.Fprintf(r.Stderr, "error: transport failed: %v\n", transportErr)
		return 1
	}

	return exitCode
}

// firstNonEmpty returns the first non-blank string among candidates.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
