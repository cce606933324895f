package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger routes the fx application events into the XLogger,
// as a component named "Fx".
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("HOOK OnStart",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStart failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Duration("in", e.Runtime),
			)
		} else {
			l.logger.Debug("HOOK OnStart successfully",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Duration("in", e.Runtime),
			)
		}
	case *fxevent.OnStopExecuting:
		l.logger.Debug("HOOK OnStop executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStop failed",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Duration("in", e.Runtime),
			)
		} else {
			l.logger.Debug("HOOK OnStop successfully",
				zap.String("function", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Duration("in", e.Runtime),
			)
		}
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "SUPPLY ERROR",
				zap.String("type", e.TypeName),
				zap.Strings("stacktrace", e.StackTrace),
			)
		} else {
			l.logger.Debug("SUPPLY", zap.String("type", e.TypeName))
		}
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("PROVIDE",
				zap.Bool("private", e.Private),
				zap.String("rtype", rtype),
				zap.String("constructor", e.ConstructorName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "PROVIDE ERROR",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE ERROR",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Debug("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "Failed to stop cleanly")
		}
	case *fxevent.RollingBack:
		l.logger.Error(e.StartErr, "Start failed, rolling back")
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "Couldn't roll back cleanly")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "Failed to start")
		} else {
			l.logger.Debug("RUNNING")
		}
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "Failed to initialize custom logger")
		} else {
			l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
		}
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	xl, ok := logger.(*xLogger)
	if !ok || xl.core == nil {
		return &FxXLogger{logger: logger.Named("Fx")}
	}
	l := &xLogger{
		dynamicLevelEnabler: xl.dynamicLevelEnabler,
		encoder:             xl.encoder,
	}
	l.logger.Store(xl.
		zap().
		Named("Fx").
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			cc, err := WrapCore(xl.core, componentCoreEncoderCfg)
			if err != nil {
				panic(err)
			}
			l.core = cc
			return cc
		})),
	)
	return &FxXLogger{logger: l}
}
