package sealbox

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// This file provides the decrypt counterpart and key generation needed to
// verify round-trip behavior in tests. Production code in this module only
// ever encrypts; since the package is internal, neither function is
// reachable by external code.

// GenerateKeypairForTesting creates a recipient X25519 key pair.
func GenerateKeypairForTesting() (publicKey, privateKey *[PublicKeySize]byte, err error) {
	return box.GenerateKey(rand.Reader)
}

// OpenForTesting decodes a transport-encoded sealed ciphertext and decrypts
// it with the recipient's key pair.
func OpenForTesting(encoded string, publicKey, privateKey *[PublicKeySize]byte) ([]byte, error) {
	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	plaintext, ok := box.OpenAnonymous(nil, raw, publicKey, privateKey)
	if !ok {
		return nil, fmt.Errorf("sealed box did not open")
	}
	return plaintext, nil
}
