package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-sync-client/models"
)

// Remote endpoints, relative to the API origin.
const (
	endpointLockAcquire   = "lock/acquire"
	endpointLockHold      = "lock/hold"
	endpointLockRelease   = "lock/release"
	endpointKeyPairInfo   = "keyPair/info"
	endpointKeyPairSet    = "keyPair/set"
	endpointKeyPairUpdate = "keyPair/update"
	endpointMasterKeys    = "masterKeys"
)

// AcquireLock implements [ServerAdapter]. POST lock/acquire {apiKey, id}.
func (h *httpServerAdapter) AcquireLock(ctx context.Context, id string) error {
	return h.lockCall(ctx, endpointLockAcquire, id)
}

// HoldLock implements [ServerAdapter]. POST lock/hold {apiKey, id}.
func (h *httpServerAdapter) HoldLock(ctx context.Context, id string) error {
	return h.lockCall(ctx, endpointLockHold, id)
}

// ReleaseLock implements [ServerAdapter]. POST lock/release {apiKey, id}.
func (h *httpServerAdapter) ReleaseLock(ctx context.Context, id string) error {
	return h.lockCall(ctx, endpointLockRelease, id)
}

func (h *httpServerAdapter) lockCall(ctx context.Context, endpoint, id string) error {
	_, err := h.Request(ctx, http.MethodPost, endpoint, models.LockRequest{APIKey: h.Credential(), ID: id}, 0)
	if err != nil {
		return fmt.Errorf("%s %q: %w", endpoint, id, err)
	}
	return nil
}

// KeyPairInfo implements [ServerAdapter]. GET keyPair/info?apiKey=...
func (h *httpServerAdapter) KeyPairInfo(ctx context.Context) (models.KeyPairInfo, error) {
	payload := struct {
		APIKey string `json:"apiKey"`
	}{APIKey: h.Credential()}

	resp, err := h.Request(ctx, http.MethodGet, endpointKeyPairInfo, payload, 0)
	if err != nil {
		return models.KeyPairInfo{}, fmt.Errorf("%s: %w", endpointKeyPairInfo, err)
	}

	var info models.KeyPairInfo
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err = json.Unmarshal(resp.Data, &info); err != nil {
			return models.KeyPairInfo{}, fmt.Errorf("%s decode: %w", endpointKeyPairInfo, err)
		}
	}

	return info, nil
}

// SetKeyPair implements [ServerAdapter]. POST keyPair/set.
func (h *httpServerAdapter) SetKeyPair(ctx context.Context, pair models.KeyPair) error {
	return h.keyPairCall(ctx, endpointKeyPairSet, pair)
}

// UpdateKeyPair implements [ServerAdapter]. POST keyPair/update.
func (h *httpServerAdapter) UpdateKeyPair(ctx context.Context, pair models.KeyPair) error {
	return h.keyPairCall(ctx, endpointKeyPairUpdate, pair)
}

func (h *httpServerAdapter) keyPairCall(ctx context.Context, endpoint string, pair models.KeyPair) error {
	body := models.KeyPairRequest{
		APIKey:     h.Credential(),
		PublicKey:  pair.PublicKey,
		PrivateKey: pair.PrivateKey,
	}
	if _, err := h.Request(ctx, http.MethodPost, endpoint, body, 0); err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	return nil
}

// MasterKeys implements [ServerAdapter]. POST masterKeys {apiKey, masterKeys}
// answers with data.keys.
func (h *httpServerAdapter) MasterKeys(ctx context.Context, encryptedRing string) (string, error) {
	body := models.MasterKeysRequest{APIKey: h.Credential(), MasterKeys: encryptedRing}

	resp, err := h.Request(ctx, http.MethodPost, endpointMasterKeys, body, 0)
	if err != nil {
		return "", fmt.Errorf("%s: %w", endpointMasterKeys, err)
	}

	var data models.MasterKeysResponse
	if err = json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("%s decode: %w", endpointMasterKeys, err)
	}

	return data.Keys, nil
}
