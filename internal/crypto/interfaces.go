package crypto

import (
	"encoding/json"

	"github.com/MKhiriev/go-sync-client/models"
)

// Engine owns every cryptographic operation of the client. It knows nothing
// about the network or storage; it only derives keys and protects metadata,
// file data and key pairs.
//
// Metadata formats:
//
//	legacy  "U2FsdGVk..."              passphrase AES-256-CBC (OpenSSL/EVP_BytesToKey)
//	v002    "002" + iv(12) + base64     AES-256-GCM, key fast-stretched by PBKDF2
//
// Decrypt* operations over metadata never fail loudly: a wrong key or an
// unknown format yields an empty result so callers can trial-decrypt with a
// whole key ring.
type Engine interface {
	// DeriveBits runs PBKDF2 over password and salt and returns bitLength
	// bits. bitLength must be a multiple of 8.
	DeriveBits(password, salt []byte, iterations int, hash HashAlgorithm, bitLength int) ([]byte, error)

	// DerivePasswordKeys turns a login password into the account master key
	// and the password sent to the server, both hex encoded.
	DerivePasswordKeys(password, salt string, iterations int) (masterKey, authPassword string, err error)

	// EncryptMetadata encrypts plaintext into the current "002" format.
	EncryptMetadata(plaintext, key string) (string, error)

	// DecryptMetadata decrypts any known format. It returns "" on failure.
	DecryptMetadata(input, key string) string

	// EncryptMetadataPublicKey encrypts plaintext with a base64 SPKI RSA key.
	EncryptMetadataPublicKey(plaintext, publicKey string) (string, error)

	// DecryptMetadataPrivateKey decrypts with a base64 PKCS#8 RSA key. It
	// returns "" on failure.
	DecryptMetadataPrivateKey(input, privateKey string) string

	// DecryptFolderName tries every key of the ring and stops at the first
	// one that yields a non-empty name.
	DecryptFolderName(payload string, ring models.MasterKeyRing) (string, error)

	// DecryptFileMetadata tries every key of the ring without stopping; the
	// last key that yields valid metadata wins.
	DecryptFileMetadata(payload string, ring models.MasterKeyRing) (models.FileMetadata, error)

	// DecryptFolderNameLink decrypts a folder name with a single link key.
	DecryptFolderNameLink(payload, linkKey string) string

	// DecryptFileMetadataLink decrypts file metadata with a single link key.
	DecryptFileMetadataLink(payload, linkKey string) (models.FileMetadata, error)

	// DecryptFolderNamePrivateKey decrypts a folder name shared through the
	// account key pair.
	DecryptFolderNamePrivateKey(payload, privateKey string) string

	// DecryptFileMetadataPrivateKey decrypts file metadata shared through the
	// account key pair.
	DecryptFileMetadataPrivateKey(payload, privateKey string) (models.FileMetadata, error)

	// DecryptSocketPayload decrypts a pushed socket message; the first key
	// that yields valid JSON wins.
	DecryptSocketPayload(payload string, ring models.MasterKeyRing) (json.RawMessage, error)

	// EncryptData encrypts a file chunk with the given format version.
	EncryptData(data []byte, key string, version int) ([]byte, error)

	// DecryptData decrypts a file chunk with the given format version.
	DecryptData(data []byte, key string, version int) ([]byte, error)

	// GenerateKeyPair creates an RSA-OAEP/SHA-512 key pair.
	GenerateKeyPair() (models.KeyPair, error)
}
