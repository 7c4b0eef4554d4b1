package forgeseal

import (
	"errors"

	"github.com/forgeseal/client-go/internal/sealbox"
)

// SealOverhead is the fixed number of bytes a sealed ciphertext is longer
// than its plaintext.
const SealOverhead = sealbox.SealOverhead

// Init performs the one-time check that the cryptographic subsystem is
// usable. It must succeed once per process before any secret is sealed;
// repeated calls are cheap and concurrent first callers are serialized.
// A failure is fatal: nothing can be sealed without a working subsystem.
func Init() error {
	return sealbox.Init()
}

// SealSecret seals plaintext under a repository's base64-encoded secrets
// public key and returns the base64-encoded ciphertext, transport-ready
// for the forge API. Each call draws fresh randomness, so outputs for
// identical inputs differ in bytes while matching in length.
func SealSecret(publicKeyB64 string, plaintext []byte) (string, error) {
	return sealbox.Seal(publicKeyB64, plaintext)
}

// SealSecretToBuffer is the allocation-free form of SealSecret: it writes
// the encoded ciphertext into out and returns the number of bytes written.
// If out is too small nothing is written and the returned error matches
// ErrBufferTooSmall; its *BufferTooSmallError form reports the exact
// capacity a retry needs. SealedLen answers the same question up front.
func SealSecretToBuffer(publicKeyB64 string, plaintext, out []byte) (int, error) {
	n, err := sealbox.SealToBuffer(publicKeyB64, plaintext, out)
	if err != nil {
		var tooSmall *sealbox.BufferTooSmallError
		if errors.As(err, &tooSmall) {
			return 0, &BufferTooSmallError{Required: tooSmall.Required}
		}
		return 0, err
	}
	return n, nil
}

// SealedLen returns the exact encoded output length for a plaintext of
// the given length.
func SealedLen(plaintextLen int) int {
	return sealbox.EncodedLen(plaintextLen)
}
