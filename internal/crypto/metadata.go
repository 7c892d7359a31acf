package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"strings"
)

// Format tags an encrypted metadata string.
type Format int

const (
	FormatUnknown Format = iota
	FormatLegacy
	FormatV002
)

const (
	legacyPrefix  = "U2FsdGVk"
	versionV002   = "002"
	versionLength = 3
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatV002:
		return versionV002
	default:
		return "unknown"
	}
}

// EncryptedMetadata is a parsed metadata string. Body is base64 for both
// known formats; IV is only set for [FormatV002].
type EncryptedMetadata struct {
	Format Format
	IV     string
	Body   string
}

// ParseMetadata is the single place where a metadata string is classified.
func ParseMetadata(input string) EncryptedMetadata {
	switch {
	case strings.HasPrefix(input, legacyPrefix):
		return EncryptedMetadata{Format: FormatLegacy, Body: input}
	case strings.HasPrefix(input, versionV002) && len(input) > versionLength+ivLength:
		return EncryptedMetadata{
			Format: FormatV002,
			IV:     input[versionLength : versionLength+ivLength],
			Body:   input[versionLength+ivLength:],
		}
	default:
		return EncryptedMetadata{Format: FormatUnknown}
	}
}

// EncryptMetadata implements [Engine].
func (e *engine) EncryptMetadata(plaintext, key string) (string, error) {
	iv, err := e.randomString(ivLength)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(stretchKey(key))
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, []byte(iv), []byte(plaintext), nil)
	return versionV002 + iv + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptMetadata implements [Engine]. Results, including failures, are
// cached per (input, key).
func (e *engine) DecryptMetadata(input, key string) string {
	return cached(e, func() string {
		plaintext, err := decryptMetadata(ParseMetadata(input), key)
		if err != nil {
			return ""
		}
		return plaintext
	}, "decryptMetadata", input, key)
}

func decryptMetadata(m EncryptedMetadata, key string) (string, error) {
	switch m.Format {
	case FormatLegacy:
		blob, err := base64.StdEncoding.DecodeString(m.Body)
		if err != nil {
			return "", fmt.Errorf("decode legacy metadata: %w", err)
		}
		plaintext, err := opensslDecrypt(blob, key)
		if err != nil {
			return "", err
		}
		return string(plaintext), nil

	case FormatV002:
		sealed, err := base64.StdEncoding.DecodeString(m.Body)
		if err != nil {
			return "", fmt.Errorf("decode metadata: %w", err)
		}
		gcm, err := newGCM(stretchKey(key))
		if err != nil {
			return "", err
		}
		plaintext, err := gcm.Open(nil, []byte(m.IV), sealed, nil)
		if err != nil {
			return "", fmt.Errorf("open metadata: %w", err)
		}
		return string(plaintext), nil

	default:
		return "", ErrUnsupportedVersion
	}
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
