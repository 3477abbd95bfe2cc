package stratumv2

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

// KeySize is the length in bytes of a Noise static or ephemeral X25519 key.
const KeySize = 32

// HandshakeInitiator drives the client side of a minimal one-way
// Noise-style handshake: both sides generate an ephemeral X25519
// keypair, exchange public keys in the clear, and use the raw ECDH
// output as the shared AEAD key. This is a deliberately small
// subset of the real Stratum V2 Noise_NX pattern, enough to exercise
// the encrypted transport without implementing the full handshake
// state machine.
type HandshakeInitiator struct {
	privateKey [KeySize]byte
	publicKey  [KeySize]byte
}

// NewHandshakeInitiator generates a fresh ephemeral keypair.
func NewHandshakeInitiator() (*HandshakeInitiator, error) {
	h := &HandshakeInitiator{}
	if _, err := io.ReadFull(rand.Reader, h.privateKey[:]); err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}
	curve25519.ScalarBaseMult(&h.publicKey, &h.privateKey)
	return h, nil
}

// PublicKey returns the public half of the initiator's ephemeral
// keypair, to be sent to the responder in the clear.
func (h *HandshakeInitiator) PublicKey() [KeySize]byte { return h.publicKey }

// Finish derives the shared session key from the responder's public
// key.
func (h *HandshakeInitiator) Finish(responderPublic [KeySize]byte) ([]byte, error) {
	return deriveSessionKey(h.privateKey, responderPublic)
}

// HandshakeResponder mirrors HandshakeInitiator for the server side of
// the handshake.
type HandshakeResponder struct {
	privateKey [KeySize]byte
	publicKey  [KeySize]byte
}

// NewHandshakeResponder generates a fresh ephemeral keypair.
func NewHandshakeResponder() (*HandshakeResponder, error) {
	h := &HandshakeResponder{}
	if _, err := io.ReadFull(rand.Reader, h.privateKey[:]); err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}
	curve25519.ScalarBaseMult(&h.publicKey, &h.privateKey)
	return h, nil
}

// PublicKey returns the public half of the responder's ephemeral keypair.
func (h *HandshakeResponder) PublicKey() [KeySize]byte { return h.publicKey }

// Finish derives the shared session key from the initiator's public key.
func (h *HandshakeResponder) Finish(initiatorPublic [KeySize]byte) ([]byte, error) {
	return deriveSessionKey(h.privateKey, initiatorPublic)
}

func deriveSessionKey(private, peerPublic [KeySize]byte) ([]byte, error) {
	shared, err := curve25519.X25519(private[:], peerPublic[:])
	if err != nil {
		return nil, fmt.Errorf("compute shared secret: %w", err)
	}
	// The shared X25519 output is already uniformly random and is used
	// directly as the AEAD key; a production Noise implementation
	// would run this through HKDF alongside a transcript hash.
	return shared, nil
}

// EncryptedConn wraps a net.Conn so that framed Stratum V2 messages can
// be sent and received under a ChaCha20-Poly1305 AEAD using the shared
// key derived from a handshake. Send and receive directions keep
// independent nonce counters: this is a full-duplex connection and
// either side may write while the other reads, so a single shared
// counter would desynchronize the two directions.
type EncryptedConn struct {
	net.Conn

	aead      cipher.AEAD
	sendNonce uint64
	recvNonce uint64
}

// NewEncryptedConn wraps conn, sealing outgoing frames and opening
// incoming frames with key (as produced by Finish on either handshake
// side).
func NewEncryptedConn(conn net.Conn, key []byte) (*EncryptedConn, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("construct aead: %w", err)
	}
	return &EncryptedConn{Conn: conn, aead: aead}, nil
}

func nonceBytes(counter uint64) []byte {
	n := make([]byte, chacha20poly1305.NonceSize)
	binary.LittleEndian.PutUint64(n[:8], counter)
	return n
}

// WriteFrame seals and writes one length-prefixed ciphertext frame.
func (c *EncryptedConn) WriteFrame(plaintext []byte) error {
	nonce := nonceBytes(c.sendNonce)
	c.sendNonce++
	ciphertext := c.aead.Seal(nil, nonce, plaintext, nil)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(ciphertext)))
	if _, err := c.Conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := c.Conn.Write(ciphertext); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads and opens one length-prefixed ciphertext frame.
func (c *EncryptedConn) ReadFrame() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.Conn, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	ciphertext := make([]byte, n)
	if _, err := io.ReadFull(c.Conn, ciphertext); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	nonce := nonceBytes(c.recvNonce)
	c.recvNonce++
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	return plaintext, nil
}
