package codec_test

import (
	"bytes"
	"testing"

	"github.com/lib/pq/oid"
	"github.com/stretchr/testify/require"

	"github.com/materialize-io/pgwire/codec"
	"github.com/materialize-io/pgwire/codes"
	psqlerr "github.com/materialize-io/pgwire/errors"
)

func TestEncodeRowDescription(t *testing.T) {
	c := newCodec(t)
	var out bytes.Buffer
	msg := codec.RowDescription{Fields: []codec.RowField{
		{Name: "id", TableID: 0, ColumnID: 1, TypeOID: oid.T_int4, TypeLen: 4, TypeMod: -1, Format: 0},
	}}
	require.NoError(t, c.Encode(msg, &out))

	b := out.Bytes()
	require.Equal(t, byte('T'), b[0])
	require.Equal(t, "id\x00", string(b[7:10]))
}

func TestEncodeCommandComplete(t *testing.T) {
	c := newCodec(t)
	var out bytes.Buffer
	require.NoError(t, c.Encode(codec.CommandComplete{Tag: "SELECT 1"}, &out))

	want := append([]byte{'C', 0x00, 0x00, 0x00, byte(4 + len("SELECT 1") + 1)}, append([]byte("SELECT 1"), 0)...)
	require.Equal(t, want, out.Bytes())
}

func TestEncodeEmptyQueryResponse(t *testing.T) {
	c := newCodec(t)
	var out bytes.Buffer
	require.NoError(t, c.Encode(codec.EmptyQueryResponse{}, &out))
	require.Equal(t, []byte{'I', 0x00, 0x00, 0x00, 0x04}, out.Bytes())
}

func TestEncodeReadyForQuery(t *testing.T) {
	c := newCodec(t)
	var out bytes.Buffer
	require.NoError(t, c.Encode(codec.ReadyForQuery{}, &out))
	require.Equal(t, []byte{'Z', 0x00, 0x00, 0x00, 0x05, 'I'}, out.Bytes())
}

func TestEncodeParseComplete(t *testing.T) {
	c := newCodec(t)
	var out bytes.Buffer
	require.NoError(t, c.Encode(codec.ParseComplete{}, &out))
	require.Equal(t, []byte{'1', 0x00, 0x00, 0x00, 0x04}, out.Bytes())
}

func TestEncodeParameterStatus(t *testing.T) {
	c := newCodec(t)
	var out bytes.Buffer
	require.NoError(t, c.Encode(codec.ParameterStatus{Name: "server_version", Value: "14.0"}, &out))

	body := append(append([]byte("server_version"), 0), append([]byte("14.0"), 0)...)
	want := append([]byte{'S', 0, 0, 0, byte(4 + len(body))}, body...)
	require.Equal(t, want, out.Bytes())
}

func TestEncodeErrorResponseWithAndWithoutDetail(t *testing.T) {
	c := newCodec(t)

	var withDetail bytes.Buffer
	require.NoError(t, c.Encode(codec.ErrorResponse{
		Severity: psqlerr.LevelError,
		Code:     codes.Syntax,
		Message:  "syntax error",
		Detail:   "near token",
	}, &withDetail))
	require.Contains(t, withDetail.String(), "near token")
	require.Equal(t, byte(0), withDetail.Bytes()[withDetail.Len()-1])

	var withoutDetail bytes.Buffer
	require.NoError(t, c.Encode(codec.ErrorResponse{
		Severity: psqlerr.LevelError,
		Code:     codes.Syntax,
		Message:  "syntax error",
	}, &withoutDetail))
	require.NotContains(t, withoutDetail.String(), "near token")
}

func TestEncodeCopyOutResponseAndCopyData(t *testing.T) {
	c := newCodec(t)

	var out bytes.Buffer
	require.NoError(t, c.Encode(codec.CopyOutResponse{}, &out))
	require.Equal(t, []byte{'H', 0x00, 0x00, 0x00, 0x07, 0x00, 0x00, 0x00}, out.Bytes())

	out.Reset()
	require.NoError(t, c.Encode(codec.CopyData{Data: []byte("payload")}, &out))
	require.Equal(t, append([]byte{'d', 0x00, 0x00, 0x00, byte(4 + len("payload"))}, []byte("payload")...), out.Bytes())
}
