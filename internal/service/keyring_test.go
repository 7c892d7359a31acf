package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/MKhiriev/go-sync-client/internal/crypto"
	"github.com/MKhiriev/go-sync-client/internal/logger"
	"github.com/MKhiriev/go-sync-client/internal/mock"
	"github.com/MKhiriev/go-sync-client/internal/store"
	"github.com/MKhiriev/go-sync-client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testEngine = crypto.NewEngine(crypto.WithRSABits(2048))

func newTestKeyRing(t *testing.T) (*keyRing, *mock.MockServerAdapter, store.KeyValueStorage) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	storage := store.NewMemoryStorage()

	k := NewKeyRingManager(storage, mockAdapter, testEngine, logger.Nop()).(*keyRing)
	return k, mockAdapter, storage
}

func seedRing(t *testing.T, storage store.KeyValueStorage, ring ...string) {
	t.Helper()
	raw, err := json.Marshal(ring)
	require.NoError(t, err)
	require.NoError(t, storage.Set(context.Background(), store.KeyMasterKeys, string(raw)))
}

// fakeDecryptEngine overrides DecryptMetadata; every other method panics.
type fakeDecryptEngine struct {
	crypto.Engine
	decrypt func(input, key string) string
}

func (f fakeDecryptEngine) DecryptMetadata(input, key string) string {
	return f.decrypt(input, key)
}

// ── Load / Keys / Swap ───────────────────────────────────────────────────────

func TestKeyRing_Load_Empty(t *testing.T) {
	k, _, _ := newTestKeyRing(t)

	require.NoError(t, k.Load(context.Background()))
	assert.Empty(t, k.Keys())
	assert.Equal(t, models.KeyPair{}, k.KeyPair())
}

func TestKeyRing_Load_ReadsRingAndKeyPair(t *testing.T) {
	k, _, storage := newTestKeyRing(t)
	ctx := context.Background()

	seedRing(t, storage, "k1", "k2")
	require.NoError(t, storage.Set(ctx, store.KeyPublicKey, "pub"))
	require.NoError(t, storage.Set(ctx, store.KeyPrivateKey, "priv"))

	require.NoError(t, k.Load(ctx))
	assert.Equal(t, models.MasterKeyRing{"k1", "k2"}, k.Keys())
	assert.Equal(t, models.KeyPair{PublicKey: "pub", PrivateKey: "priv"}, k.KeyPair())
}

func TestKeyRing_Load_CorruptRing(t *testing.T) {
	k, _, storage := newTestKeyRing(t)
	require.NoError(t, storage.Set(context.Background(), store.KeyMasterKeys, "not json"))

	err := k.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode master keys")
}

func TestKeyRing_Keys_ReturnsSnapshot(t *testing.T) {
	k, _, _ := newTestKeyRing(t)
	require.NoError(t, k.Swap(context.Background(), models.MasterKeyRing{"k1"}))

	snapshot := k.Keys()
	snapshot[0] = "mutated"

	assert.Equal(t, models.MasterKeyRing{"k1"}, k.Keys())
}

func TestKeyRing_Swap_Persists(t *testing.T) {
	k, _, storage := newTestKeyRing(t)
	ctx := context.Background()

	require.NoError(t, k.Swap(ctx, models.MasterKeyRing{"k1", "k2"}))

	raw, err := storage.Get(ctx, store.KeyMasterKeys)
	require.NoError(t, err)
	assert.JSONEq(t, `["k1","k2"]`, raw)
	assert.Equal(t, models.MasterKeyRing{"k1", "k2"}, k.Keys())
}

func TestKeyRing_Swap_PersistErrorKeepsOldRing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStorage := mock.NewMockKeyValueStorage(ctrl)
	k := NewKeyRingManager(mockStorage, mock.NewMockServerAdapter(ctrl), testEngine, logger.Nop())

	mockStorage.EXPECT().Set(gomock.Any(), store.KeyMasterKeys, gomock.Any()).Return(errors.New("disk full"))

	err := k.Swap(context.Background(), models.MasterKeyRing{"k1"})
	require.Error(t, err)
	assert.Empty(t, k.Keys())
}

// ── UpdateKeys ───────────────────────────────────────────────────────────────

func TestKeyRing_UpdateKeys_EmptyRing(t *testing.T) {
	k, _, _ := newTestKeyRing(t)

	err := k.UpdateKeys(context.Background())
	assert.ErrorIs(t, err, crypto.ErrEmptyKeyRing)
}

func TestKeyRing_UpdateKeys_RotationGeneratesKeyPair(t *testing.T) {
	k, mockAdapter, storage := newTestKeyRing(t)
	ctx := context.Background()

	seedRing(t, storage, "k1")
	require.NoError(t, k.Load(ctx))

	var uploaded models.KeyPair
	gomock.InOrder(
		mockAdapter.EXPECT().MasterKeys(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, encrypted string) (string, error) {
				assert.Equal(t, "k1", testEngine.DecryptMetadata(encrypted, "k1"))
				return testEngine.EncryptMetadata("k1|k2", "k1")
			},
		),
		mockAdapter.EXPECT().KeyPairInfo(gomock.Any()).Return(models.KeyPairInfo{}, nil),
		mockAdapter.EXPECT().SetKeyPair(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, pair models.KeyPair) error {
				uploaded = pair
				return nil
			},
		),
	)

	require.NoError(t, k.UpdateKeys(ctx))

	assert.Equal(t, models.MasterKeyRing{"k1", "k2"}, k.Keys())

	raw, err := storage.Get(ctx, store.KeyMasterKeys)
	require.NoError(t, err)
	assert.JSONEq(t, `["k1","k2"]`, raw)

	pair := k.KeyPair()
	require.NotEmpty(t, pair.PublicKey)
	require.NotEmpty(t, pair.PrivateKey)
	assert.Equal(t, pair.PublicKey, uploaded.PublicKey)
	assert.Equal(t, pair.PrivateKey, testEngine.DecryptMetadata(uploaded.PrivateKey, "k2"),
		"uploaded private key must be protected by the newest key")

	stored, err := storage.Get(ctx, store.KeyPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, pair.PrivateKey, stored)
}

func TestKeyRing_UpdateKeys_ReuploadsExistingKeyPair(t *testing.T) {
	k, mockAdapter, storage := newTestKeyRing(t)
	ctx := context.Background()

	seedRing(t, storage, "k1")
	require.NoError(t, k.Load(ctx))

	oldPrivate, err := testEngine.EncryptMetadata("private-pkcs8", "k1")
	require.NoError(t, err)
	remoteRing, err := testEngine.EncryptMetadata("k1|k2", "k1")
	require.NoError(t, err)

	mockAdapter.EXPECT().MasterKeys(gomock.Any(), gomock.Any()).Return(remoteRing, nil)
	mockAdapter.EXPECT().KeyPairInfo(gomock.Any()).Return(models.KeyPairInfo{PublicKey: "public-spki", PrivateKey: oldPrivate}, nil)
	mockAdapter.EXPECT().UpdateKeyPair(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pair models.KeyPair) error {
			assert.Equal(t, "public-spki", pair.PublicKey)
			assert.Equal(t, "private-pkcs8", testEngine.DecryptMetadata(pair.PrivateKey, "k2"))
			return nil
		},
	)

	require.NoError(t, k.UpdateKeys(ctx))
	assert.Equal(t, models.KeyPair{PublicKey: "public-spki", PrivateKey: "private-pkcs8"}, k.KeyPair())
}

func TestKeyRing_UpdateKeys_UndecryptableRemoteRing(t *testing.T) {
	k, mockAdapter, storage := newTestKeyRing(t)
	ctx := context.Background()

	seedRing(t, storage, "k1")
	require.NoError(t, k.Load(ctx))

	foreign, err := testEngine.EncryptMetadata("x1|x2", "someone-else")
	require.NoError(t, err)
	mockAdapter.EXPECT().MasterKeys(gomock.Any(), gomock.Any()).Return(foreign, nil)

	err = k.UpdateKeys(ctx)
	assert.ErrorIs(t, err, ErrEmptyRemoteRing)
	assert.Equal(t, models.MasterKeyRing{"k1"}, k.Keys())
}

func TestKeyRing_UpdateKeys_UndecryptablePrivateKey(t *testing.T) {
	k, mockAdapter, storage := newTestKeyRing(t)
	ctx := context.Background()

	seedRing(t, storage, "k1")
	require.NoError(t, k.Load(ctx))

	remoteRing, err := testEngine.EncryptMetadata("k1", "k1")
	require.NoError(t, err)
	foreign, err := testEngine.EncryptMetadata("private", "someone-else")
	require.NoError(t, err)

	mockAdapter.EXPECT().MasterKeys(gomock.Any(), gomock.Any()).Return(remoteRing, nil)
	mockAdapter.EXPECT().KeyPairInfo(gomock.Any()).Return(models.KeyPairInfo{PublicKey: "pub", PrivateKey: foreign}, nil)

	err = k.UpdateKeys(ctx)
	assert.ErrorIs(t, err, ErrKeyPairUndecryptable)
}

func TestKeyRing_UpdateKeys_MasterKeysError(t *testing.T) {
	k, mockAdapter, storage := newTestKeyRing(t)
	ctx := context.Background()

	seedRing(t, storage, "k1")
	require.NoError(t, k.Load(ctx))

	mockAdapter.EXPECT().MasterKeys(gomock.Any(), gomock.Any()).Return("", errors.New("gave up"))

	err := k.UpdateKeys(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update master keys")
}

// ── lastDecrypted ────────────────────────────────────────────────────────────

func TestLastDecrypted_LastSuccessWins(t *testing.T) {
	var tried []string
	engine := fakeDecryptEngine{decrypt: func(_, key string) string {
		tried = append(tried, key)
		if key == "b" {
			return ""
		}
		return "plain-" + key
	}}

	got := lastDecrypted(engine, "payload", models.MasterKeyRing{"a", "b", "c"}, strings.ToUpper)

	assert.Equal(t, "PLAIN-C", got)
	assert.Equal(t, []string{"a", "b", "c"}, tried, "every key must be tried")
}

func TestSplitRing(t *testing.T) {
	assert.Equal(t, models.MasterKeyRing{"k1", "k2"}, splitRing("k1|k2"))
	assert.Equal(t, models.MasterKeyRing{"k1"}, splitRing(" k1 ||"))
	assert.Nil(t, splitRing(""))
}
