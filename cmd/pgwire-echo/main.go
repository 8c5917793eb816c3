// Command pgwire-echo is a minimal illustrative PostgreSQL wire protocol
// server. It exercises the codec package end to end without implementing a
// real SQL engine: every query it receives is echoed back as a single
// text column.
//
// It exists to demonstrate the codec's external interface end to end; the
// session-handling loop here is intentionally small and is not the part of
// this repository meant to be imitated for production use.
package main

import (
	"flag"
	"log/slog"
	"os"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5432", "address to listen on")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := NewServer(*addr, WithLogger(logger))

	logger.Info("pgwire-echo listening", slog.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
