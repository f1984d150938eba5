package logx

import (
	"io"

	"github.com/mcmusabe/blokhut-display/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// Output overrides the destination; nil means stderr.
	Output io.Writer
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	o := safe(opts...)
	if o.Environment == core.Production {
		logger := log.Logger
		if o.Output != nil {
			logger = zerolog.New(o.Output).With().Timestamp().Logger()
		}
		log.Logger = logger.Level(zerolog.InfoLevel)
		return
	}

	writer := zerolog.NewConsoleWriter()
	if o.Output != nil {
		writer.Out = o.Output
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Caller().Logger()
	log.Logger = log.Logger.Level(zerolog.DebugLevel)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
