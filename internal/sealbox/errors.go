package sealbox

import (
	"errors"
	"fmt"
)

var (
	// ErrInitialization is returned by Init when the cryptographic
	// subsystem is unavailable. Nothing can be sealed after this; callers
	// should treat it as fatal to the process.
	ErrInitialization = errors.New("crypto subsystem initialization failed")

	// ErrInvalidArgument is returned when a required input is absent.
	ErrInvalidArgument = errors.New("missing required argument")

	// ErrPublicKeyDecode is returned when the public key text does not
	// decode to exactly PublicKeySize bytes, regardless of why.
	ErrPublicKeyDecode = errors.New("public key does not decode to a valid key")

	// ErrEncryption is returned when the seal operation itself fails.
	// With valid inputs and a healthy subsystem this does not occur;
	// it is not retryable by changing inputs.
	ErrEncryption = errors.New("seal operation failed")

	// ErrBufferTooSmall is returned when the caller-supplied output buffer
	// cannot hold the encoded ciphertext. Match the concrete
	// *BufferTooSmallError to learn the required capacity.
	ErrBufferTooSmall = errors.New("output buffer too small")

	// ErrEncoding is returned when transport encoding fails after an
	// otherwise successful seal. It is defensive and should be unreachable.
	ErrEncoding = errors.New("ciphertext encoding failed")
)

// BufferTooSmallError reports the exact output capacity a retry needs.
// No bytes have been written to the caller's buffer when it is returned.
type BufferTooSmallError struct {
	// Required is the minimum output capacity in bytes.
	Required int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("output buffer too small: %d bytes required", e.Required)
}

// Is implements errors.Is for sentinel error matching.
func (e *BufferTooSmallError) Is(target error) bool {
	return target == ErrBufferTooSmall
}
