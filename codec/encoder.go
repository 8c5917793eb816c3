package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
)

// Encode appends one complete, length-prefixed frame for msg to out. It
// never partially writes a frame: on error out is left exactly as it was
// before the call.
func (c *Codec) Encode(msg BackendMessage, out *bytes.Buffer) error {
	tag, err := messageTag(msg)
	if err != nil {
		return err
	}

	mark := out.Len()
	out.WriteByte(tag)
	lenOffset := out.Len()
	out.Write([]byte{0, 0, 0, 0}) // length placeholder, back-patched below

	if err := c.writeBody(out, msg); err != nil {
		out.Truncate(mark)
		return err
	}

	length := uint32(out.Len() - lenOffset)
	binary.BigEndian.PutUint32(out.Bytes()[lenOffset:lenOffset+4], length)

	c.logger.Debug("encoded backend message", slog.String("type", backendTypeName(tag)))
	return nil
}

func messageTag(msg BackendMessage) (byte, error) {
	switch msg.(type) {
	case AuthenticationOk:
		return 'R', nil
	case RowDescription:
		return 'T', nil
	case DataRow:
		return 'D', nil
	case CommandComplete:
		return 'C', nil
	case EmptyQueryResponse:
		return 'I', nil
	case ReadyForQuery:
		return 'Z', nil
	case ParameterStatus:
		return 'S', nil
	case ParseComplete:
		return '1', nil
	case ErrorResponse:
		return 'E', nil
	case CopyOutResponse:
		return 'H', nil
	case CopyData:
		return 'd', nil
	default:
		return 0, fmt.Errorf("codec: unsupported backend message %T", msg)
	}
}

func writeCString(out *bytes.Buffer, s string) {
	out.WriteString(s)
	out.WriteByte(0)
}

func writeU16(out *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	out.Write(b[:])
}

func writeU32(out *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	out.Write(b[:])
}

func writeI16(out *bytes.Buffer, v int16) { writeU16(out, uint16(v)) }

func writeI32(out *bytes.Buffer, v int32) { writeU32(out, uint32(v)) }

// writeBody emits the type-specific body of msg. It is a Codec method,
// rather than a free function, because DataRow field encoding consults the
// codec's type map.
func (c *Codec) writeBody(out *bytes.Buffer, msg BackendMessage) error {
	switch m := msg.(type) {
	case AuthenticationOk:
		writeU32(out, 0)

	case RowDescription:
		writeU16(out, uint16(len(m.Fields)))
		for _, f := range m.Fields {
			writeCString(out, f.Name)
			writeU32(out, f.TableID)
			writeU16(out, f.ColumnID)
			writeU32(out, uint32(f.TypeOID))
			writeI16(out, f.TypeLen)
			writeI32(out, f.TypeMod)
			writeU16(out, uint16(f.Format))
		}

	case DataRow:
		writeU16(out, uint16(len(m.Fields)))
		for _, f := range m.Fields {
			if f == nil {
				writeI32(out, -1)
				continue
			}
			b, err := f.encode(c.types)
			if err != nil {
				return err
			}
			writeU32(out, uint32(len(b)))
			out.Write(b)
		}

	case CommandComplete:
		writeCString(out, m.Tag)

	case EmptyQueryResponse:
		// no body

	case ReadyForQuery:
		out.WriteByte('I')

	case ParameterStatus:
		writeCString(out, m.Name)
		writeCString(out, m.Value)

	case ParseComplete:
		// no body

	case ErrorResponse:
		out.WriteByte('S')
		writeCString(out, string(m.Severity))
		out.WriteByte('C')
		writeCString(out, string(m.Code))
		out.WriteByte('M')
		writeCString(out, m.Message)
		if m.Detail != "" {
			out.WriteByte('D')
			writeCString(out, m.Detail)
		}
		if m.Hint != "" {
			out.WriteByte('H')
			writeCString(out, m.Hint)
		}
		out.WriteByte(0)

	case CopyOutResponse:
		out.WriteByte(0) // text format
		writeI16(out, 0) // column count

	case CopyData:
		out.Write(m.Data)

	default:
		return fmt.Errorf("codec: unsupported backend message %T", msg)
	}

	return nil
}

func backendTypeName(tag byte) string {
	switch tag {
	case 'R':
		return "AuthenticationOk"
	case 'T':
		return "RowDescription"
	case 'D':
		return "DataRow"
	case 'C':
		return "CommandComplete"
	case 'I':
		return "EmptyQueryResponse"
	case 'Z':
		return "ReadyForQuery"
	case 'S':
		return "ParameterStatus"
	case '1':
		return "ParseComplete"
	case 'E':
		return "ErrorResponse"
	case 'H':
		return "CopyOutResponse"
	case 'd':
		return "CopyData"
	default:
		return "Unknown"
	}
}
