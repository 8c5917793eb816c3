package codec

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"
)

type decodeState int

const (
	stateAwaitingStartup decodeState = iota
	stateAwaitingHeader
	stateAwaitingBody
)

// startupType is a sentinel type byte injected into the state machine for
// the one frame on a connection that carries no type byte on the wire. It
// must never be compared against bytes actually read off the wire outside
// of this package, and is never written by Encode.
const startupType byte = 's'

// Codec decodes frontend messages and encodes backend messages for a
// single PostgreSQL wire protocol connection. A Codec is not safe for
// concurrent use; callers typically own one per connection.
type Codec struct {
	logger *slog.Logger
	types  *pgtype.Map

	state   decodeState
	typ     byte
	bodyLen int
}

// New constructs a Codec ready to decode the startup frame of a fresh
// connection. A nil logger falls back to slog.Default, matching the rest
// of this module's logging convention.
func New(logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}

	return &Codec{
		logger: logger,
		types:  pgtype.NewMap(),
		state:  stateAwaitingStartup,
	}
}
