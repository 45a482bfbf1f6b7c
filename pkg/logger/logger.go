package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls how the global logger is built.
type Options struct {
	Production bool
	Debug      bool
	Output     io.Writer
}

// Init replaces the global zerolog logger. Production emits JSON at info
// level; anything else gets a console writer with caller info.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if opts.Production {
		log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).
		With().Timestamp().Caller().Logger().
		Level(level)
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
