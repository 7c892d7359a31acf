package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"fmt"
	"io"
)

// opensslMagic starts every passphrase-encrypted OpenSSL blob. Its base64
// form is "U2FsdGVk".
var opensslMagic = []byte("Salted__")

const opensslSaltLen = 8

// evpBytesToKey is OpenSSL's EVP_BytesToKey with MD5 and one round, as
// used by CryptoJS passphrase encryption.
func evpBytesToKey(passphrase, salt []byte, keyLen, ivLen int) ([]byte, []byte) {
	var derived, block []byte
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(block)
		h.Write(passphrase)
		h.Write(salt)
		block = h.Sum(nil)
		derived = append(derived, block...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

// opensslDecrypt decrypts "Salted__" ‖ salt ‖ AES-256-CBC ciphertext.
func opensslDecrypt(blob []byte, passphrase string) ([]byte, error) {
	if len(blob) < len(opensslMagic)+opensslSaltLen+aes.BlockSize || !bytes.HasPrefix(blob, opensslMagic) {
		return nil, ErrCiphertextTooShort
	}

	salt := blob[len(opensslMagic) : len(opensslMagic)+opensslSaltLen]
	key, iv := evpBytesToKey([]byte(passphrase), salt, 32, aes.BlockSize)

	return cbcDecrypt(blob[len(opensslMagic)+opensslSaltLen:], key, iv)
}

// opensslEncrypt produces the binary OpenSSL format with a random salt.
func opensslEncrypt(plaintext []byte, passphrase string, random io.Reader) ([]byte, error) {
	salt := make([]byte, opensslSaltLen)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt, 32, aes.BlockSize)
	ciphertext, err := cbcEncrypt(plaintext, key, iv)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(opensslMagic)+len(salt)+len(ciphertext))
	out = append(out, opensslMagic...)
	out = append(out, salt...)
	return append(out, ciphertext...), nil
}

func cbcDecrypt(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrCiphertextTooShort
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext)
}

func cbcEncrypt(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return out, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-n], nil
}
