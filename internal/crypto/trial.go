package crypto

import (
	"encoding/json"

	"github.com/MKhiriev/go-sync-client/models"
)

// trialFirst returns the result of the first key for which try succeeds.
func trialFirst[T any](ring models.MasterKeyRing, try func(key string) (T, bool)) (T, bool) {
	for _, key := range ring {
		if v, ok := try(key); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// trialLast tries every key and returns the result of the last one for
// which try succeeded. Earlier successes are overwritten.
func trialLast[T any](ring models.MasterKeyRing, try func(key string) (T, bool)) (T, bool) {
	var (
		result T
		found  bool
	)
	for _, key := range ring {
		if v, ok := try(key); ok {
			result, found = v, true
		}
	}
	return result, found
}

// DecryptFolderName implements [Engine]. The stored name "default" is
// shown as "Default".
func (e *engine) DecryptFolderName(payload string, ring models.MasterKeyRing) (string, error) {
	if len(ring) == 0 {
		return "", ErrEmptyKeyRing
	}

	name, _ := trialFirst(ring, func(key string) (string, bool) {
		name := e.DecryptFolderNameLink(payload, key)
		return name, name != ""
	})
	return name, nil
}

// DecryptFileMetadata implements [Engine].
func (e *engine) DecryptFileMetadata(payload string, ring models.MasterKeyRing) (models.FileMetadata, error) {
	if len(ring) == 0 {
		return models.FileMetadata{}, ErrEmptyKeyRing
	}

	meta, ok := trialLast(ring, func(key string) (models.FileMetadata, bool) {
		meta, err := e.DecryptFileMetadataLink(payload, key)
		return meta, err == nil
	})
	if !ok {
		return models.FileMetadata{}, ErrUndecryptable
	}
	return meta, nil
}

// DecryptFolderNameLink implements [Engine].
func (e *engine) DecryptFolderNameLink(payload, linkKey string) string {
	return parseFolderName(e.DecryptMetadata(payload, linkKey))
}

// DecryptFileMetadataLink implements [Engine].
func (e *engine) DecryptFileMetadataLink(payload, linkKey string) (models.FileMetadata, error) {
	return parseFileMetadata(e.DecryptMetadata(payload, linkKey))
}

// DecryptFolderNamePrivateKey implements [Engine].
func (e *engine) DecryptFolderNamePrivateKey(payload, privateKey string) string {
	return parseFolderName(e.DecryptMetadataPrivateKey(payload, privateKey))
}

// DecryptFileMetadataPrivateKey implements [Engine].
func (e *engine) DecryptFileMetadataPrivateKey(payload, privateKey string) (models.FileMetadata, error) {
	return parseFileMetadata(e.DecryptMetadataPrivateKey(payload, privateKey))
}

// DecryptSocketPayload implements [Engine].
func (e *engine) DecryptSocketPayload(payload string, ring models.MasterKeyRing) (json.RawMessage, error) {
	if len(ring) == 0 {
		return nil, ErrEmptyKeyRing
	}

	raw, ok := trialFirst(ring, func(key string) (json.RawMessage, bool) {
		plaintext := e.DecryptMetadata(payload, key)
		if plaintext == "" || !json.Valid([]byte(plaintext)) {
			return nil, false
		}
		return json.RawMessage(plaintext), true
	})
	if !ok {
		return nil, ErrUndecryptable
	}
	return raw, nil
}

func parseFolderName(plaintext string) string {
	if plaintext == "" {
		return ""
	}

	var folder models.FolderMetadata
	if err := json.Unmarshal([]byte(plaintext), &folder); err != nil {
		return ""
	}
	if folder.Name == "default" {
		return "Default"
	}
	return folder.Name
}

func parseFileMetadata(plaintext string) (models.FileMetadata, error) {
	if plaintext == "" {
		return models.FileMetadata{}, ErrUndecryptable
	}

	var meta models.FileMetadata
	if err := json.Unmarshal([]byte(plaintext), &meta); err != nil {
		return models.FileMetadata{}, ErrUndecryptable
	}
	return meta, nil
}
