// Package sealbox implements the encryption primitive used to submit
// repository secrets to the forge API: anonymous public-key encryption
// ("sealed box") of a plaintext secret under the repository's public key,
// with base64 transport encoding in both directions.
//
// # Construction
//
// Sealing uses the NaCl sealed-box construction (X25519 + XSalsa20-Poly1305),
// the same scheme libsodium exposes as crypto_box_seal. The sender needs no
// key pair: a fresh ephemeral key pair is generated per call and the
// ciphertext carries no sender identity. Only the holder of the private key
// matching the supplied public key can recover the plaintext.
//
// Its published constants apply here: public keys are exactly 32 bytes and
// every ciphertext is exactly [SealOverhead] bytes longer than its plaintext.
//
// # Encoding
//
// The forge transmits the public key and accepts ciphertext as standard
// base64 with padding (RFC 4648 section 4). The same alphabet is used for
// decoding the key and encoding the output; no other encodings are accepted.
// Key decoding is strict: anything that does not decode to exactly 32 bytes
// fails, whatever the reason.
//
// # Usage
//
// [Init] must succeed once per process before any sealing call. After that,
// [Seal] and [SealToBuffer] are stateless and safe for concurrent use.
// [SealToBuffer] implements a two-phase capacity contract: a call with an
// undersized destination writes nothing and reports the exact required
// length via [BufferTooSmallError], so callers that manage their own
// buffers can retry with an exact allocation.
//
// # Security Notes
//
// Sealing draws fresh randomness on every call. Two calls with identical
// inputs produce equal-length but different ciphertexts; never compare
// sealed outputs byte-for-byte. This package only encrypts: the decrypt
// counterpart exists solely for round-trip verification in tests.
//
// Decoded keys and raw ciphertexts are wiped before the functions return,
// on error paths included.
package sealbox
