package sealbox

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/box"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init performs the one-time check that the cryptographic subsystem is
// usable, by reading from the platform's secure random source. It must
// succeed once per process before any sealing call. Repeated calls are
// cheap and return the result of the first attempt; concurrent first
// callers serialize on the initialization barrier.
func Init() error {
	initOnce.Do(func() {
		var sample [8]byte
		if _, err := io.ReadFull(rand.Reader, sample[:]); err != nil {
			initErr = fmt.Errorf("%w: secure random source unavailable: %v", ErrInitialization, err)
		}
	})
	return initErr
}

// decodePublicKey strictly decodes the transport-encoded recipient key.
// Anything that does not decode to exactly PublicKeySize bytes fails with
// ErrPublicKeyDecode: invalid alphabet, bad padding, and wrong length are
// deliberately indistinguishable to the caller.
func decodePublicKey(publicKeyB64 string) (*[PublicKeySize]byte, error) {
	// DecodeString skips CR and LF before consulting the alphabet; the
	// wire format never contains them, so reject them up front.
	if strings.ContainsAny(publicKeyB64, "\r\n") {
		return nil, fmt.Errorf("%w: key text contains line breaks", ErrPublicKeyDecode)
	}
	raw, err := encoding.Strict().DecodeString(publicKeyB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublicKeyDecode, err)
	}
	if len(raw) != PublicKeySize {
		wipe(raw)
		return nil, fmt.Errorf("%w: decoded to %d bytes, want %d", ErrPublicKeyDecode, len(raw), PublicKeySize)
	}

	var key [PublicKeySize]byte
	copy(key[:], raw)
	wipe(raw)
	return &key, nil
}

// seal produces the raw sealed ciphertext for plaintext under key, drawing
// fresh ephemeral randomness from crypto/rand.
func seal(key *[PublicKeySize]byte, plaintext []byte) ([]byte, error) {
	raw, err := box.SealAnonymous(nil, plaintext, key, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	if len(raw) != SealOverhead+len(plaintext) {
		wipe(raw)
		return nil, fmt.Errorf("%w: sealed length %d, want %d", ErrEncryption, len(raw), SealOverhead+len(plaintext))
	}
	return raw, nil
}

// SealToBuffer seals plaintext for the recipient identified by the
// base64-encoded publicKeyB64 and writes the base64-encoded ciphertext
// into out, returning the number of bytes written.
//
// The capacity contract is two-phase: if len(out) is smaller than the
// required encoded length, nothing is written and a *BufferTooSmallError
// reports the exact capacity a retry needs. Partial writes never happen.
// A zero-length (or nil) out is therefore a valid way to ask for the
// required size, though EncodedLen answers the same question without a
// call. On any non-nil error the contents of out are unchanged.
//
// A zero-length plaintext is valid and seals to exactly EncodedLen(0)
// bytes. Each call draws fresh randomness: outputs for identical inputs
// have equal length but never equal bytes.
func SealToBuffer(publicKeyB64 string, plaintext, out []byte) (int, error) {
	if publicKeyB64 == "" {
		return 0, fmt.Errorf("%w: public key text is empty", ErrInvalidArgument)
	}

	key, err := decodePublicKey(publicKeyB64)
	if err != nil {
		return 0, err
	}
	defer wipe(key[:])

	raw, err := seal(key, plaintext)
	if err != nil {
		return 0, err
	}
	defer wipe(raw)

	required := encoding.EncodedLen(len(raw))
	if len(out) < required {
		return 0, &BufferTooSmallError{Required: required}
	}

	encoding.Encode(out, raw)
	return required, nil
}

// Seal is the owned-buffer form of SealToBuffer: it seals plaintext for
// the recipient identified by publicKeyB64 and returns the base64-encoded
// ciphertext as a string, sized exactly. The orchestration layer uses this
// form; SealToBuffer exists for callers that manage their own buffers.
func Seal(publicKeyB64 string, plaintext []byte) (string, error) {
	if publicKeyB64 == "" {
		return "", fmt.Errorf("%w: public key text is empty", ErrInvalidArgument)
	}

	key, err := decodePublicKey(publicKeyB64)
	if err != nil {
		return "", err
	}
	defer wipe(key[:])

	raw, err := seal(key, plaintext)
	if err != nil {
		return "", err
	}
	defer wipe(raw)

	return encoding.EncodeToString(raw), nil
}

// wipe zeroes b. Used on decoded keys and raw ciphertexts before release
// so key material does not linger in reusable memory.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
