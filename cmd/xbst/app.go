package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/benz9527/xbst/internal/shell"
	"github.com/benz9527/xbst/observability"
	"github.com/benz9527/xbst/xlog"
)

const (
	appName        = "xbst"
	startTimeout   = 15 * time.Second
	stopTimeout    = 5 * time.Second
	treeStatsName  = "shell"
	exitCodeFailed = 1
)

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newLogger(opts *options, errOut io.Writer) (xlog.XLogger, error) {
	lvl, err := xlog.ParseLogLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	enc, err := xlog.ParseLogEncoder(opts.logEncoder)
	if err != nil {
		return nil, err
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerEncoder(enc),
		xlog.WithXLoggerWriter(zapcore.Lock(zapcore.AddSync(errOut))),
		xlog.WithXLoggerName(appName),
	), nil
}

func newShell(opts *options, logger xlog.XLogger, in io.Reader, out io.Writer) (*shell.Shell, error) {
	kind, err := shell.ParseKind(opts.treeKind)
	if err != nil {
		return nil, err
	}
	shellOpts := []shell.ShellOption{
		shell.WithShellKind(kind),
		shell.WithShellLogger(logger.Named("shell")),
		shell.WithShellPrompt(isTerminal(in)),
		shell.WithShellColor(!opts.noColor && isTerminal(out)),
	}
	if opts.metrics != string(observability.NoneMetricsExporter) {
		shellOpts = append(shellOpts, shell.WithShellTreeStats(treeStatsName))
	}
	return shell.NewShell(in, out, shellOpts...), nil
}

type metricsParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Opts      *options
	Logger    xlog.XLogger
}

func registerMetrics(p metricsParams) error {
	typ, err := observability.ParseMetricsExporterType(p.Opts.metrics)
	if err != nil {
		return err
	}
	if typ == observability.NoneMetricsExporter {
		return nil
	}
	shutdown, err := observability.InitMetricsExporter(typ, p.Opts.metricsInterval)
	if err != nil {
		return err
	}

	var srv *http.Server
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := observability.InitAppStats(context.Background(), appName, nil); err != nil {
				return err
			}
			if typ != observability.PrometheusMetricsExporter {
				return nil
			}
			ln, err := net.Listen("tcp", p.Opts.metricsAddr)
			if err != nil {
				return err
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv = &http.Server{Handler: mux, ReadHeaderTimeout: stopTimeout}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error(err, "metrics server stopped", zap.String("addr", p.Opts.metricsAddr))
				}
			}()
			p.Logger.Info("metrics server started", zap.String("addr", ln.Addr().String()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var err error
			if srv != nil {
				err = multierr.Append(err, srv.Shutdown(ctx))
			}
			return multierr.Append(err, shutdown(ctx))
		},
	})
	return nil
}

type shellParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     xlog.XLogger
	Shell      *shell.Shell
}

func runShell(p shellParams) {
	ctx, cancel := context.WithCancel(context.Background())
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := p.Shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					p.Logger.Error(err, "shell stopped")
					code = exitCodeFailed
				}
				if err := p.Shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					p.Logger.Error(err, "shutdown failed")
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func run(ctx context.Context, opts *options, in io.Reader, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger(opts, errOut)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Supply(opts),
		fx.Provide(
			func() xlog.XLogger {
				return logger
			},
			func(opts *options, logger xlog.XLogger) (*shell.Shell, error) {
				return newShell(opts, logger, in, out)
			},
		),
		fx.Invoke(registerMetrics, runShell),
	)
	if err = app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		return err
	}

	var sig fx.ShutdownSignal
	select {
	case sig = <-app.Wait():
	case <-ctx.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	err = app.Stop(stopCtx)
	if sig.ExitCode != 0 {
		err = multierr.Append(err, errors.New("xbst exited with failure"))
	}
	return err
}
