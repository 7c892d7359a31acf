package crypto

import "errors"

var (
	// ErrEmptyKeyRing is returned when a key ring operation has no keys to
	// try. It is never retried.
	ErrEmptyKeyRing = errors.New("master key ring is empty")
	// ErrUndecryptable is returned when no key of the ring could decrypt.
	ErrUndecryptable = errors.New("payload could not be decrypted with any key")
	// ErrUnsupportedVersion is returned for an unknown data format version.
	ErrUnsupportedVersion = errors.New("unsupported encryption version")
	// ErrInvalidKey is returned when a key has the wrong size or encoding.
	ErrInvalidKey = errors.New("invalid key")
	// ErrCiphertextTooShort is returned when the input cannot hold an IV.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	// ErrBadPadding is returned when CBC padding does not verify.
	ErrBadPadding = errors.New("invalid padding")
	// ErrKeyPairTooShort is returned when an exported key is implausibly short.
	ErrKeyPairTooShort = errors.New("exported key pair is too short")
)
