package codec_test

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/materialize-io/pgwire/codec"
)

func encodeField(t *testing.T, v *codec.Value) []byte {
	t.Helper()
	c := newCodec(t)
	var out bytes.Buffer
	require.NoError(t, c.Encode(codec.DataRow{Fields: []*codec.Value{v}}, &out))

	// strip the envelope (5-byte header + 2-byte field count + 4-byte field
	// length) to get at the raw textual encoding.
	body := out.Bytes()[5:]
	require.GreaterOrEqual(t, len(body), 6)
	fieldLen := int(binary.BigEndian.Uint32(body[2:6]))
	return body[6 : 6+fieldLen]
}

func TestValueBoolText(t *testing.T) {
	require.Equal(t, []byte("t"), encodeField(t, codec.ValueBool(true)))
	require.Equal(t, []byte("f"), encodeField(t, codec.ValueBool(false)))
}

func TestValueIntText(t *testing.T) {
	require.Equal(t, []byte("42"), encodeField(t, codec.ValueInt4(42)))
	require.Equal(t, []byte("-7"), encodeField(t, codec.ValueInt4(-7)))
	require.Equal(t, []byte("9000000000"), encodeField(t, codec.ValueInt8(9000000000)))
}

func TestValueNumericText(t *testing.T) {
	d := decimal.RequireFromString("12.3400")
	require.Equal(t, []byte("12.3400"), encodeField(t, codec.ValueNumeric(d)))
}

func TestValueTextAndBytea(t *testing.T) {
	require.Equal(t, []byte("hello"), encodeField(t, codec.ValueText("hello")))
	require.Equal(t, []byte{0xDE, 0xAD}, encodeField(t, codec.ValueBytea([]byte{0xDE, 0xAD})))
}

func TestValueIntervalMonths(t *testing.T) {
	require.Equal(t, []byte("3 months"), encodeField(t, codec.ValueIntervalMonths(3)))
}

func TestValueIntervalDuration(t *testing.T) {
	d := 90 * time.Minute
	require.Equal(t, []byte(d.String()), encodeField(t, codec.ValueIntervalDuration(true, d)))
	require.Equal(t, []byte("-"+d.String()), encodeField(t, codec.ValueIntervalDuration(false, d)))
}

func TestValueDateAndTimestampEncodeWithoutError(t *testing.T) {
	c := newCodec(t)
	var out bytes.Buffer
	msg := codec.DataRow{Fields: []*codec.Value{
		codec.ValueDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		codec.ValueTimestamp(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)),
	}}
	require.NoError(t, c.Encode(msg, &out))
	require.NotEmpty(t, out.Bytes())
}
