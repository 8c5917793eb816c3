package codec

import (
	"encoding/binary"
	"log/slog"

	"github.com/materialize-io/pgwire/pkg/types"
)

// parseFrameLen validates and returns the body length (the declared length
// minus the 4 bytes of the length prefix itself) from a 4-byte big-endian
// length field at the front of b.
func parseFrameLen(b []byte) (int, error) {
	n := int(binary.BigEndian.Uint32(b))
	if n > MaxFrameSize {
		return 0, newFrameTooBig(n)
	}
	if n < 4 {
		return 0, newInvalidFrameLength(n)
	}
	return n - 4, nil
}

// readCString splits buf at the first NUL byte, returning the string before
// it and the remainder after it. It fails if buf contains no NUL.
func readCString(buf []byte) (string, []byte, error) {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), buf[i+1:], nil
		}
	}
	return "", nil, newMissingNulTerminator()
}

// Decode attempts to decode a single frontend message out of the front of
// *buf. If a full message is available, it is returned with ok=true and
// *buf is advanced past every byte consumed. If *buf does not yet hold a
// complete frame, Decode returns ok=false so the caller can retry after
// appending more bytes: a complete header at the front of *buf is still
// consumed and remembered in the codec's state, while a partial header or a
// partial body is left in *buf untouched. A non-nil error is fatal:
// the decoder's internal state should not be trusted afterward and the
// connection should be closed.
func (c *Codec) Decode(buf *[]byte) (FrontendMessage, bool, error) {
	for {
		switch c.state {
		case stateAwaitingStartup:
			if len(*buf) < 4 {
				return nil, false, nil
			}
			n, err := parseFrameLen(*buf)
			if err != nil {
				return nil, false, err
			}
			*buf = (*buf)[4:]
			c.typ = startupType
			c.bodyLen = n
			c.state = stateAwaitingBody

		case stateAwaitingHeader:
			if len(*buf) < 5 {
				return nil, false, nil
			}
			typ := (*buf)[0]
			n, err := parseFrameLen((*buf)[1:])
			if err != nil {
				return nil, false, err
			}
			*buf = (*buf)[5:]
			c.typ = typ
			c.bodyLen = n
			c.state = stateAwaitingBody

		case stateAwaitingBody:
			if len(*buf) < c.bodyLen {
				return nil, false, nil
			}
			body := (*buf)[:c.bodyLen]
			*buf = (*buf)[c.bodyLen:]
			c.state = stateAwaitingHeader

			msg, err := decodeBody(c.typ, body)
			if err != nil {
				return nil, false, err
			}

			c.logger.Debug("decoded frontend message", slog.String("type", frontendTypeName(c.typ)))
			return msg, true, nil
		}
	}
}

func decodeBody(typ byte, body []byte) (FrontendMessage, error) {
	switch typ {
	case startupType:
		if len(body) < 4 {
			return nil, newInsufficientData(len(body))
		}
		version := binary.BigEndian.Uint32(body[:4])
		if version != uint32(types.Version30) {
			return nil, newUnsupportedProtocolVersion(version)
		}
		return Startup{Version: version}, nil

	case 'Q':
		if len(body) == 0 || body[len(body)-1] != 0 {
			return nil, newMissingNulTerminator()
		}
		return Query{SQL: string(body[:len(body)-1])}, nil

	case 'X':
		return Terminate{}, nil

	case 'P':
		return decodeParse(body)

	default:
		return nil, newInvalidMessageType(typ)
	}
}

func decodeParse(body []byte) (FrontendMessage, error) {
	name, rest, err := readCString(body)
	if err != nil {
		return nil, err
	}

	sql, rest, err := readCString(rest)
	if err != nil {
		return nil, err
	}

	if len(rest) < 2 {
		return nil, newInsufficientData(len(rest))
	}
	count := binary.BigEndian.Uint16(rest[:2])
	rest = rest[2:]

	// A parameter's type may be left unspecified by making the OID array
	// shorter than count; a declared count that runs past the body is
	// tolerated rather than rejected, reading as many OIDs as are actually
	// present. An OID that exactly fills the remaining body is accepted
	// (the bound is "< 4 remaining", not "<= 4 remaining").
	oids := make([]uint32, 0, count)
	for i := uint16(0); i < count && len(rest) >= 4; i++ {
		oids = append(oids, binary.BigEndian.Uint32(rest[:4]))
		rest = rest[4:]
	}

	return Parse{Name: name, SQL: sql, ParamTypeOIDs: oids}, nil
}

func frontendTypeName(typ byte) string {
	switch typ {
	case startupType:
		return "Startup"
	case 'Q':
		return "Query"
	case 'X':
		return "Terminate"
	case 'P':
		return "Parse"
	default:
		return "Unknown"
	}
}
