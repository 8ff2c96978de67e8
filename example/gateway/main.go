// Command gateway is a minimal stand-in for a trading gateway. It answers a
// handful of requests so that clients built on twswire can be exercised
// without a real gateway. The initial version handshake is not implemented;
// peers exchange framed messages from the first byte.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zereker/twswire"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
)

type cliOptions struct {
	ConfigFile string `short:"C" long:"config" description:"Path to a TOML configuration file"`
	Listen     string `short:"l" long:"listen" description:"Address to listen on, overrides the config file"`
	Account    string `long:"account" default:"DU12345" description:"Account reported in ManagedAccts"`
}

// session holds the per-connection state of the fake gateway.
type session struct {
	conn    *twswire.Conn
	account string
	nextID  int32
	logger  twswire.Logger
}

func (s *session) reply(kind twswire.IncomingKind, fields ...twswire.Field) error {
	payload := twswire.NewFrameBuffer(32)
	if err := payload.AppendField(twswire.Int(kind.Code())); err != nil {
		return err
	}
	for _, f := range fields {
		if err := payload.AppendField(f); err != nil {
			return err
		}
	}
	return s.conn.WriteTimeout(twswire.RawMessage(payload.Take()), time.Second)
}

func (s *session) serve(msg twswire.Message) error {
	in := msg.(*twswire.Inbound)
	code, ok := in.Code()
	if !ok {
		return twswire.ErrMalformedFrame
	}
	kind, ok := twswire.OutgoingKindOf(code)
	if !ok {
		s.logger.Warn("unknown request code", "code", code)
		return nil
	}
	s.logger.Debug("request", "kind", kind.String(), "fields", in.Fields())

	const version = 1
	switch kind {
	case twswire.StartAPI:
		if err := s.reply(twswire.NextValidID, twswire.Int(version), twswire.Int(s.nextID)); err != nil {
			return err
		}
		return s.reply(twswire.ManagedAccts, twswire.Int(version), twswire.String(s.account))
	case twswire.ReqIDs:
		return s.reply(twswire.NextValidID, twswire.Int(version), twswire.Int(s.nextID))
	case twswire.ReqCurrentTime:
		return s.reply(twswire.CurrentTime, twswire.Int(version), twswire.Long(time.Now().Unix()))
	case twswire.ReqManagedAccts:
		return s.reply(twswire.ManagedAccts, twswire.Int(version), twswire.String(s.account))
	case twswire.PlaceOrder:
		s.nextID++
		return nil
	default:
		return s.reply(twswire.ErrMsg, twswire.Int(2), twswire.Int(-1), twswire.Int(502),
			twswire.String("request "+kind.String()+" is not supported"))
	}
}

func main() {
	var opts cliOptions
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg := twswire.DefaultConfig()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = twswire.LoadConfig(opts.ConfigFile); err != nil {
			l := zerolog.New(os.Stderr)
			l.Fatal().Err(err).Str("path", opts.ConfigFile).Msg("failed to load config")
		}
	}
	if opts.Listen != "" {
		cfg.Address = opts.Listen
	}

	z := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(cfg.LogLevel).With().Timestamp().Str("app", "gateway").Logger()
	logger := twswire.NewZerologLogger(z)

	addr, err := net.ResolveTCPAddr("tcp", cfg.Address)
	if err != nil {
		z.Fatal().Err(err).Str("addr", cfg.Address).Msg("invalid listen address")
	}

	server, err := twswire.New(addr, append(cfg.ServerOptions(), twswire.ServerLoggerOption(logger))...)
	if err != nil {
		z.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	handler := twswire.HandlerFunc(func(conn *twswire.Conn) func(twswire.Message) error {
		s := &session{conn: conn, account: opts.Account, nextID: 1, logger: logger}
		return s.serve
	})

	if err := server.Serve(ctx, handler); err != nil && err != context.Canceled {
		logger.Error("server error", "error", err)
	}
}
