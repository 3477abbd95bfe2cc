// Package stratumv2 implements the Stratum V2 wire framing: a fixed
// 4-byte little-endian header prefixing every protocol message, plus
// the closed set of message identifiers the header's type byte can
// carry. Isolating the framing here, as a leaf component, lets the
// rest of the system trade in typed messages instead of raw bytes.
package stratumv2

import "fmt"

// HeaderSize is the number of bytes in a packed Header.
const HeaderSize = 4

// MaxMessageLength is the largest msg_length a Header can carry: the
// length field is an unsigned 24-bit integer.
const MaxMessageLength = 1<<24 - 1

// Header is the fixed framing header: msg_type:u8 || msg_length:u24,
// little-endian.
type Header struct {
	MsgType   MessageKind
	MsgLength uint32
}

// NewHeader builds a Header, rejecting a msg_length that would not fit
// the 24-bit wire field.
func NewHeader(msgType MessageKind, msgLength int) (Header, error) {
	if msgLength < 0 || msgLength > MaxMessageLength {
		return Header{}, &DecodeError{
			Kind:   ErrLengthOverflow,
			Reason: fmt.Sprintf("message length %d exceeds %d", msgLength, MaxMessageLength),
		}
	}
	return Header{MsgType: msgType, MsgLength: uint32(msgLength)}, nil
}

// Pack serializes the header to its 4-byte wire form.
func (h Header) Pack() []byte {
	b := make([]byte, HeaderSize)
	b[0] = byte(h.MsgType)
	b[1] = byte(h.MsgLength)
	b[2] = byte(h.MsgLength >> 8)
	b[3] = byte(h.MsgLength >> 16)
	return b
}

// Unpack parses a 4-byte wire header, rejecting a buffer that is not
// exactly HeaderSize bytes long (reported as ErrShortBuffer whether it
// is shorter or longer) or an unknown msg_type.
func Unpack(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, &DecodeError{
			Kind:   ErrShortBuffer,
			Reason: fmt.Sprintf("expected %d bytes, got %d", HeaderSize, len(b)),
		}
	}
	kind := MessageKind(b[0])
	if !kind.Valid() {
		return Header{}, &DecodeError{
			Kind:   ErrUnknownMessageType,
			Reason: fmt.Sprintf("unknown message type 0x%02x", b[0]),
		}
	}
	length := uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16
	return Header{MsgType: kind, MsgLength: length}, nil
}

// DecodeErrorKind classifies a framing decode failure, per the error
// taxonomy: framing errors are local to the codec and are propagated
// to the transport, which closes the connection.
type DecodeErrorKind int

const (
	ErrShortBuffer DecodeErrorKind = iota
	ErrUnknownMessageType
	ErrLengthOverflow
)

// DecodeError reports why Unpack or NewHeader rejected its input.
type DecodeError struct {
	Kind   DecodeErrorKind
	Reason string
}

func (e *DecodeError) Error() string { return e.Reason }
