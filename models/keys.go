// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// MasterKeyRing is the ordered list of symmetric account keys, oldest
// first and newest last. It only ever grows by append and must be
// replaced as a whole, never edited in place.
type MasterKeyRing []string

// Newest returns the last key of the ring or "" when the ring is empty.
func (r MasterKeyRing) Newest() string {
	if len(r) == 0 {
		return ""
	}
	return r[len(r)-1]
}

// Clone returns an independent copy of the ring.
func (r MasterKeyRing) Clone() MasterKeyRing {
	if r == nil {
		return nil
	}
	out := make(MasterKeyRing, len(r))
	copy(out, r)
	return out
}

// KeyPair holds an RSA key pair exported as base64 SPKI (public) and
// base64 PKCS#8 (private).
type KeyPair struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// FileMetadata is the decrypted metadata of a remote file.
type FileMetadata struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Mime         string `json:"mime"`
	Key          string `json:"key"`
	LastModified int64  `json:"lastModified"`
	Hash         string `json:"hash,omitempty"`
}

// FolderMetadata is the decrypted metadata of a remote folder.
type FolderMetadata struct {
	Name string `json:"name"`
}
