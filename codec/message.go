// Package codec implements the streaming PostgreSQL wire protocol (v3)
// codec: a resumable frame reader, a frontend message decoder, a backend
// message encoder, and a text-format value formatter. It is deliberately
// transport-agnostic; callers drive it with buffers filled from whatever
// connection they hold.
package codec

import (
	"github.com/lib/pq/oid"

	"github.com/materialize-io/pgwire/codes"
	psqlerr "github.com/materialize-io/pgwire/errors"
)

// FrontendMessage is implemented by every message Decode can produce from
// client-sent bytes.
type FrontendMessage interface {
	frontendMessage()
}

// Startup is the very first message on a connection. It carries no type
// byte on the wire; the decoder injects the sentinel tag internally.
type Startup struct {
	Version uint32
}

func (Startup) frontendMessage() {}

// Query is a simple query request.
type Query struct {
	SQL string
}

func (Query) frontendMessage() {}

// Parse prepares a statement under Name, with zero or more declared
// parameter type OIDs. ParamTypeOIDs may be shorter than the client's
// declared count; see the decoder documentation for why.
type Parse struct {
	Name          string
	SQL           string
	ParamTypeOIDs []uint32
}

func (Parse) frontendMessage() {}

// Terminate requests an orderly connection shutdown.
type Terminate struct{}

func (Terminate) frontendMessage() {}

// BackendMessage is implemented by every message Encode can serialize to
// client-bound bytes.
type BackendMessage interface {
	backendMessage()
}

// AuthenticationOk reports that no further authentication is required.
type AuthenticationOk struct{}

func (AuthenticationOk) backendMessage() {}

// RowField describes one column of a RowDescription.
type RowField struct {
	Name     string
	TableID  uint32
	ColumnID uint16
	TypeOID  oid.Oid
	TypeLen  int16
	TypeMod  int32
	Format   int16
}

// RowDescription announces the shape of the rows that follow.
type RowDescription struct {
	Fields []RowField
}

func (RowDescription) backendMessage() {}

// DataRow carries one row of result data. A nil entry in Fields encodes a
// SQL NULL.
type DataRow struct {
	Fields []*Value
}

func (DataRow) backendMessage() {}

// CommandComplete reports that a command completed, with the server's
// human-readable completion tag (e.g. "SELECT 1").
type CommandComplete struct {
	Tag string
}

func (CommandComplete) backendMessage() {}

// EmptyQueryResponse reports that an empty query string was received.
type EmptyQueryResponse struct{}

func (EmptyQueryResponse) backendMessage() {}

// ReadyForQuery reports that the server is ready for a new query. Only the
// idle transaction status is supported.
type ReadyForQuery struct{}

func (ReadyForQuery) backendMessage() {}

// ParameterStatus reports the current value of a run-time parameter.
type ParameterStatus struct {
	Name  string
	Value string
}

func (ParameterStatus) backendMessage() {}

// ParseComplete reports that a Parse request succeeded.
type ParseComplete struct{}

func (ParseComplete) backendMessage() {}

// ErrorResponse reports a fatal or non-fatal error to the client. Detail
// and Hint are optional; an empty string omits the field from the wire
// encoding.
type ErrorResponse struct {
	Severity psqlerr.Severity
	Code     codes.Code
	Message  string
	Detail   string
	Hint     string
}

func (ErrorResponse) backendMessage() {}

// CopyOutResponse begins a COPY TO STDOUT sequence. Only the all-text,
// zero-column form is supported.
type CopyOutResponse struct{}

func (CopyOutResponse) backendMessage() {}

// CopyData carries one chunk of COPY payload, verbatim.
type CopyData struct {
	Data []byte
}

func (CopyData) backendMessage() {}
