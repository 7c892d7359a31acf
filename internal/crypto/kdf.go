package crypto

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

// HashAlgorithm selects the PRF of PBKDF2.
type HashAlgorithm string

const (
	SHA1   HashAlgorithm = "SHA-1"
	SHA256 HashAlgorithm = "SHA-256"
	SHA384 HashAlgorithm = "SHA-384"
	SHA512 HashAlgorithm = "SHA-512"
)

func (h HashAlgorithm) new() (func() hash.Hash, error) {
	switch h {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA384:
		return sha512.New384, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", string(h))
	}
}

// DeriveBits implements [Engine].
func (e *engine) DeriveBits(password, salt []byte, iterations int, hashAlgo HashAlgorithm, bitLength int) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}
	if bitLength <= 0 || bitLength%8 != 0 {
		return nil, fmt.Errorf("bit length must be a positive multiple of 8, got %d", bitLength)
	}

	h, err := hashAlgo.new()
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key(password, salt, iterations, bitLength/8, h), nil
}

// DerivePasswordKeys implements [Engine]. 512 bits are derived with
// PBKDF2-SHA512; the first half (hex) is the master key and the SHA-512 of
// the second half (hex) is the auth password.
func (e *engine) DerivePasswordKeys(password, salt string, iterations int) (string, string, error) {
	bits, err := e.DeriveBits([]byte(password), []byte(salt), iterations, SHA512, 512)
	if err != nil {
		return "", "", fmt.Errorf("derive password keys: %w", err)
	}

	derived := hex.EncodeToString(bits)
	masterKey := derived[:len(derived)/2]
	sum := sha512.Sum512([]byte(derived[len(derived)/2:]))

	return masterKey, hex.EncodeToString(sum[:]), nil
}

// stretchKey normalises an arbitrary-length key into an AES-256 key with a
// single PBKDF2-SHA512 iteration salted by the key itself.
func stretchKey(key string) []byte {
	return pbkdf2.Key([]byte(key), []byte(key), 1, 32, sha512.New)
}
