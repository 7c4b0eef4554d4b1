package sealbox

import (
	"encoding/base64"

	"golang.org/x/crypto/nacl/box"
)

const (
	// PublicKeySize is the size of a recipient X25519 public key in bytes.
	PublicKeySize = 32

	// SealOverhead is the fixed number of bytes a sealed ciphertext is
	// longer than its plaintext: a 32-byte ephemeral public key plus a
	// 16-byte Poly1305 tag. It matches libsodium's crypto_box_SEALBYTES.
	SealOverhead = box.AnonymousOverhead
)

// encoding is the transport encoding applied in both directions: decoding
// the recipient public key and encoding the sealed ciphertext. Standard
// base64 with padding, matching libsodium's VARIANT_ORIGINAL.
var encoding = base64.StdEncoding

// EncodedLen returns the exact transport-encoded length of a sealed
// ciphertext for a plaintext of the given length. Callers can size output
// buffers for [SealToBuffer] with this instead of probing for
// [BufferTooSmallError].
func EncodedLen(plaintextLen int) int {
	return encoding.EncodedLen(SealOverhead + plaintextLen)
}
