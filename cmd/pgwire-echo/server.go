package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/lib/pq/oid"

	"github.com/materialize-io/pgwire/codec"
	"github.com/materialize-io/pgwire/codes"
	psqlerr "github.com/materialize-io/pgwire/errors"
)

// Option configures a Server. It follows the functional-options convention
// used throughout this module's packages.
type Option func(*Server)

// WithLogger overrides the server's logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// Server accepts PostgreSQL wire protocol connections and echoes every
// query back as a single text column.
type Server struct {
	addr   string
	logger *slog.Logger
}

// NewServer constructs a Server listening on addr once ListenAndServe is
// called.
func NewServer(addr string, opts ...Option) *Server {
	srv := &Server{addr: addr, logger: slog.Default()}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// ListenAndServe accepts connections on the server's address until the
// listener errors.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("pgwire-echo: listen: %w", err)
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("pgwire-echo: accept: %w", err)
		}

		go s.serve(conn)
	}
}

// errTerminated signals that the client sent Terminate; it is not logged as
// a connection failure.
var errTerminated = errors.New("pgwire-echo: client terminated")

func (s *Server) serve(conn net.Conn) {
	logger := s.logger.With(slog.String("remote", conn.RemoteAddr().String()))
	defer conn.Close()

	c := codec.New(logger)

	var pending []byte
	var out bytes.Buffer
	readBuf := make([]byte, 4096)

	for {
		n, err := conn.Read(readBuf)
		if err != nil {
			if err != io.EOF {
				logger.Error("read failed", slog.Any("error", err))
			}
			return
		}
		pending = append(pending, readBuf[:n]...)

		for {
			msg, ok, err := c.Decode(&pending)
			if err != nil {
				s.writeError(conn, c, &out, err)
				return
			}
			if !ok {
				break
			}

			if err := s.handle(conn, c, &out, msg); err != nil {
				if !errors.Is(err, errTerminated) {
					logger.Error("handling message failed", slog.Any("error", err))
				}
				return
			}
		}
	}
}

func (s *Server) handle(conn net.Conn, c *codec.Codec, out *bytes.Buffer, msg codec.FrontendMessage) error {
	switch m := msg.(type) {
	case codec.Startup:
		return s.handleStartup(conn, c, out, m)
	case codec.Parse:
		return s.send(conn, c, out, codec.ParseComplete{})
	case codec.Query:
		return s.handleQuery(conn, c, out, m)
	case codec.Terminate:
		return errTerminated
	default:
		return fmt.Errorf("pgwire-echo: unhandled message %T", msg)
	}
}

func (s *Server) handleStartup(conn net.Conn, c *codec.Codec, out *bytes.Buffer, startup codec.Startup) error {
	if err := c.Encode(codec.AuthenticationOk{}, out); err != nil {
		return err
	}
	if err := c.Encode(codec.ParameterStatus{Name: "server_version", Value: "pgwire-echo"}, out); err != nil {
		return err
	}
	if err := c.Encode(codec.ReadyForQuery{}, out); err != nil {
		return err
	}
	return flush(conn, out)
}

func (s *Server) handleQuery(conn net.Conn, c *codec.Codec, out *bytes.Buffer, query codec.Query) error {
	if query.SQL == "" {
		if err := c.Encode(codec.EmptyQueryResponse{}, out); err != nil {
			return err
		}
		return s.readyForQuery(conn, c, out)
	}

	desc := codec.RowDescription{Fields: []codec.RowField{
		{Name: "echo", TypeOID: oid.T_text, TypeLen: -1, TypeMod: -1, Format: 0},
	}}
	if err := c.Encode(desc, out); err != nil {
		return err
	}

	row := codec.DataRow{Fields: []*codec.Value{codec.ValueText(query.SQL)}}
	if err := c.Encode(row, out); err != nil {
		return err
	}

	if err := c.Encode(codec.CommandComplete{Tag: "SELECT 1"}, out); err != nil {
		return err
	}

	return s.readyForQuery(conn, c, out)
}

func (s *Server) readyForQuery(conn net.Conn, c *codec.Codec, out *bytes.Buffer) error {
	if err := c.Encode(codec.ReadyForQuery{}, out); err != nil {
		return err
	}
	return flush(conn, out)
}

func (s *Server) send(conn net.Conn, c *codec.Codec, out *bytes.Buffer, msg codec.BackendMessage) error {
	if err := c.Encode(msg, out); err != nil {
		return err
	}
	return flush(conn, out)
}

func (s *Server) writeError(conn net.Conn, c *codec.Codec, out *bytes.Buffer, cause error) {
	flat := psqlerr.Flatten(cause)
	resp := codec.ErrorResponse{
		Severity: psqlerr.DefaultSeverity(flat.Severity),
		Code:     flat.Code,
		Message:  flat.Message,
		Detail:   flat.Detail,
		Hint:     flat.Hint,
	}
	if resp.Code == "" || resp.Code == codes.Uncategorized {
		resp.Code = codes.Internal
	}

	if err := c.Encode(resp, out); err != nil {
		s.logger.Error("failed to encode error response", slog.Any("error", err))
		return
	}
	_ = flush(conn, out)
}

func flush(conn net.Conn, out *bytes.Buffer) error {
	defer out.Reset()
	_, err := conn.Write(out.Bytes())
	return err
}
