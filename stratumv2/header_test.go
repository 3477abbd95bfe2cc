package stratumv2

import (
	"bytes"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		msgType   MessageKind
		msgLength int
	}{
		{"zero length", SetupMiningConnection, 0},
		{"setup mining connection", SetupMiningConnection, 0xaabbcc},
		{"new mining job", NewMiningJob, 1},
		{"submit shares error", SubmitSharesError, MaxMessageLength},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h, err := NewHeader(test.msgType, test.msgLength)
			if err != nil {
				t.Fatalf("NewHeader: %v", err)
			}
			packed := h.Pack()
			unpacked, err := Unpack(packed)
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if unpacked != h {
				t.Fatalf("round trip mismatch: got %+v, want %+v", unpacked, h)
			}
		})
	}
}

// TestUnpackPackRoundTrip covers invariant 2: every 4-byte input whose
// msg_type is a known identifier survives a decode/encode round trip
// byte-for-byte.
func TestUnpackPackRoundTrip(t *testing.T) {
	for kind := range messageKindNames {
		b := []byte{byte(kind), 0xcc, 0xbb, 0xaa}
		h, err := Unpack(b)
		if err != nil {
			t.Fatalf("Unpack(%v): %v", b, err)
		}
		if got := h.Pack(); !bytes.Equal(got, b) {
			t.Fatalf("Pack(Unpack(%v)) = %v, want %v", b, got, b)
		}
	}
}

// TestS1PackSetupMiningConnection is scenario S1.
func TestS1PackSetupMiningConnection(t *testing.T) {
	h, err := NewHeader(SetupMiningConnection, 0xaabbcc)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	want := []byte{0x00, 0xcc, 0xbb, 0xaa}
	if got := h.Pack(); !bytes.Equal(got, want) {
		t.Fatalf("Pack() = %v, want %v", got, want)
	}
}

// TestS2UnpackUnknownMessageType is scenario S2.
func TestS2UnpackUnknownMessageType(t *testing.T) {
	_, err := Unpack([]byte{0xff, 0xaa, 0xbb, 0xcc})
	if err == nil {
		t.Fatal("Unpack with msg_type 0xff: expected error, got nil")
	}
	decErr, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if decErr.Kind != ErrUnknownMessageType {
		t.Fatalf("error kind = %v, want ErrUnknownMessageType", decErr.Kind)
	}
}

// TestUnpackShortBuffer covers the wrong-length rejection: buffers
// shorter or longer than HeaderSize fail with ErrShortBuffer.
func TestUnpackShortBuffer(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5} {
		_, err := Unpack(make([]byte, n))
		if err == nil {
			t.Fatalf("Unpack(%d bytes): expected error, got nil", n)
		}
		decErr, ok := err.(*DecodeError)
		if !ok || decErr.Kind != ErrShortBuffer {
			t.Fatalf("Unpack(%d bytes): error = %v, want ErrShortBuffer", n, err)
		}
	}
}

// TestNewHeaderLengthOverflow is invariant 4.
func TestNewHeaderLengthOverflow(t *testing.T) {
	_, err := NewHeader(SetupMiningConnection, MaxMessageLength+1)
	if err == nil {
		t.Fatal("NewHeader with overflowing length: expected error, got nil")
	}
	decErr, ok := err.(*DecodeError)
	if !ok || decErr.Kind != ErrLengthOverflow {
		t.Fatalf("error = %v, want ErrLengthOverflow", err)
	}
}

func TestNewHeaderNegativeLength(t *testing.T) {
	_, err := NewHeader(SetupMiningConnection, -1)
	if err == nil {
		t.Fatal("NewHeader with negative length: expected error, got nil")
	}
}

func TestMessageKindString(t *testing.T) {
	if got := SetNewPrevHash.String(); got != "SetNewPrevHash" {
		t.Fatalf("String() = %q, want %q", got, "SetNewPrevHash")
	}
	if got := MessageKind(0xff).String(); got != "Unknown" {
		t.Fatalf("String() = %q, want %q", got, "Unknown")
	}
}
