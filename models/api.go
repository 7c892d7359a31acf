// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// APIResponse is the envelope every remote API endpoint answers with.
// Status reports business success; Message and Code describe a failure.
// Data is left raw so each endpoint can decode its own shape.
type APIResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// LockRequest is the body of lock/acquire, lock/hold and lock/release.
type LockRequest struct {
	APIKey string `json:"apiKey"`
	ID     string `json:"id"`
}

// KeyPairInfo is returned by keyPair/info. PrivateKey is encrypted
// metadata (see crypto.Engine.EncryptMetadata) protected by the newest
// master key at the time it was uploaded.
type KeyPairInfo struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// KeyPairRequest is the body of keyPair/set and keyPair/update.
type KeyPairRequest struct {
	APIKey     string `json:"apiKey"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// MasterKeysRequest uploads the local key ring, joined with "|" and
// encrypted with the newest key, so the server can merge it.
type MasterKeysRequest struct {
	APIKey     string `json:"apiKey"`
	MasterKeys string `json:"masterKeys"`
}

// MasterKeysResponse carries the merged ring encrypted the same way.
type MasterKeysResponse struct {
	Keys string `json:"keys"`
}
