package twswire

import (
	"log/slog"

	"github.com/rs/zerolog"
)

// Logger is the structured logging interface used by Conn, Server and Mux.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

func defaultLogger() Logger {
	return slog.Default()
}

// zerologLogger adapts a zerolog.Logger to Logger.
type zerologLogger struct {
	z zerolog.Logger
}

// NewZerologLogger returns a Logger writing through z. Arguments are read as
// alternating keys and values, like slog.
func NewZerologLogger(z zerolog.Logger) Logger {
	return zerologLogger{z: z}
}

func (l zerologLogger) Debug(msg string, args ...any) { l.log(l.z.Debug(), msg, args) }
func (l zerologLogger) Info(msg string, args ...any)  { l.log(l.z.Info(), msg, args) }
func (l zerologLogger) Warn(msg string, args ...any)  { l.log(l.z.Warn(), msg, args) }
func (l zerologLogger) Error(msg string, args ...any) { l.log(l.z.Error(), msg, args) }

func (l zerologLogger) log(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		if i+1 == len(args) {
			e = e.Interface("!BADKEY", args[i])
			break
		}
		if err, isErr := args[i+1].(error); isErr {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, args[i+1])
	}
	e.Msg(msg)
}
