package crypto

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// EncryptData implements [Engine].
//
//	version 1: binary OpenSSL passphrase format (kept for compatibility)
//	version 2: iv(12) ‖ AES-256-GCM ciphertext, key used as raw bytes
func (e *engine) EncryptData(data []byte, key string, version int) ([]byte, error) {
	switch version {
	case 1:
		return opensslEncrypt(data, key, e.random)
	case 2:
		gcm, err := newGCM([]byte(key))
		if err != nil {
			return nil, err
		}
		iv, err := e.randomString(ivLength)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, ivLength+len(data)+gcm.Overhead())
		out = append(out, iv...)
		return gcm.Seal(out, []byte(iv), data, nil), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}

// DecryptData implements [Engine]. Version 1 input is sniffed: binary
// OpenSSL, base64 OpenSSL, or plain AES-CBC whose IV is the first 16 bytes
// of the key.
func (e *engine) DecryptData(data []byte, key string, version int) ([]byte, error) {
	switch version {
	case 1:
		return decryptDataV1(data, key)
	case 2:
		if len(data) < ivLength {
			return nil, ErrCiphertextTooShort
		}
		gcm, err := newGCM([]byte(key))
		if err != nil {
			return nil, err
		}
		plaintext, err := gcm.Open(nil, data[:ivLength], data[ivLength:], nil)
		if err != nil {
			return nil, fmt.Errorf("open data: %w", err)
		}
		return plaintext, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}

func decryptDataV1(data []byte, key string) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, opensslMagic):
		return opensslDecrypt(data, key)
	case bytes.HasPrefix(data, []byte(legacyPrefix)):
		blob, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("decode legacy data: %w", err)
		}
		return opensslDecrypt(blob, key)
	default:
		raw := []byte(key)
		if len(raw) < 16 {
			return nil, fmt.Errorf("%w: legacy key shorter than iv", ErrInvalidKey)
		}
		return cbcDecrypt(data, raw, raw[:16])
	}
}
