package crypto

import (
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/MKhiriev/go-sync-client/models"
)

// minExportLength is the shortest base64 export accepted from the key
// generator.
const minExportLength = 16

// GenerateKeyPair implements [Engine].
func (e *engine) GenerateKeyPair() (models.KeyPair, error) {
	priv, err := rsa.GenerateKey(e.random, e.rsaBits)
	if err != nil {
		return models.KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}

	spki, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return models.KeyPair{}, fmt.Errorf("export public key: %w", err)
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return models.KeyPair{}, fmt.Errorf("export private key: %w", err)
	}

	pair := models.KeyPair{
		PublicKey:  base64.StdEncoding.EncodeToString(spki),
		PrivateKey: base64.StdEncoding.EncodeToString(pkcs8),
	}
	if len(pair.PublicKey) < minExportLength || len(pair.PrivateKey) < minExportLength {
		return models.KeyPair{}, ErrKeyPairTooShort
	}

	return pair, nil
}

// EncryptMetadataPublicKey implements [Engine].
func (e *engine) EncryptMetadataPublicKey(plaintext, publicKey string) (string, error) {
	pub, err := parsePublicKey(publicKey)
	if err != nil {
		return "", err
	}

	out, err := rsa.EncryptOAEP(sha512.New(), e.random, pub, []byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("rsa encrypt: %w", err)
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptMetadataPrivateKey implements [Engine].
func (e *engine) DecryptMetadataPrivateKey(input, privateKey string) string {
	return cached(e, func() string {
		priv, err := parsePrivateKey(privateKey)
		if err != nil {
			return ""
		}
		ciphertext, err := base64.StdEncoding.DecodeString(input)
		if err != nil {
			return ""
		}
		plaintext, err := rsa.DecryptOAEP(sha512.New(), nil, priv, ciphertext, nil)
		if err != nil {
			return ""
		}
		return string(plaintext)
	}, "decryptMetadataPrivateKey", input, privateKey)
}

func parsePublicKey(b64 string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode public key: %v", ErrInvalidKey, err)
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %v", ErrInvalidKey, err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an rsa public key", ErrInvalidKey)
	}
	return pub, nil
}

func parsePrivateKey(b64 string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode private key: %v", ErrInvalidKey, err)
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", ErrInvalidKey, err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an rsa private key", ErrInvalidKey)
	}
	return priv, nil
}
