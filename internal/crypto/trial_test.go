package crypto

import (
	"encoding/json"
	"testing"

	"github.com/MKhiriev/go-sync-client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncrypt(t *testing.T, e Engine, v any, key string) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	enc, err := e.EncryptMetadata(string(raw), key)
	require.NoError(t, err)
	return enc
}

// ── generic trial helpers ───────────────────────────────────────────────────

func TestTrialFirst_StopsAtFirstSuccess(t *testing.T) {
	var tried []string
	got, ok := trialFirst(models.MasterKeyRing{"k1", "k2", "k3"}, func(key string) (string, bool) {
		tried = append(tried, key)
		return "from-" + key, key != "k1"
	})

	assert.True(t, ok)
	assert.Equal(t, "from-k2", got)
	assert.Equal(t, []string{"k1", "k2"}, tried)
}

// Two keys both "succeed"; only the later one is the right answer. File
// metadata resolution must keep going and return the later one.
func TestTrialLast_LaterSuccessOverwritesEarlier(t *testing.T) {
	var tried []string
	got, ok := trialLast(models.MasterKeyRing{"k1", "k2", "k3"}, func(key string) (string, bool) {
		tried = append(tried, key)
		return "from-" + key, key != "k3"
	})

	assert.True(t, ok)
	assert.Equal(t, "from-k2", got)
	assert.Equal(t, []string{"k1", "k2", "k3"}, tried)
}

func TestTrial_NoSuccess(t *testing.T) {
	fail := func(string) (int, bool) { return 7, false }

	v, ok := trialFirst(models.MasterKeyRing{"a"}, fail)
	assert.False(t, ok)
	assert.Zero(t, v)

	v, ok = trialLast(models.MasterKeyRing{"a"}, fail)
	assert.False(t, ok)
	assert.Zero(t, v)
}

// ── folder names ────────────────────────────────────────────────────────────

func TestDecryptFolderName_AnyPosition(t *testing.T) {
	e := NewEngine()
	payload := mustEncrypt(t, e, models.FolderMetadata{Name: "Photos"}, "kj")

	for _, ring := range []models.MasterKeyRing{
		{"kj"},
		{"a", "kj"},
		{"kj", "b", "c"},
		{"a", "kj", "c"},
	} {
		name, err := e.DecryptFolderName(payload, ring)
		require.NoError(t, err)
		assert.Equal(t, "Photos", name, "ring %v", ring)
	}
}

func TestDecryptFolderName_Default(t *testing.T) {
	e := NewEngine()
	payload := mustEncrypt(t, e, models.FolderMetadata{Name: "default"}, "k")

	name, err := e.DecryptFolderName(payload, models.MasterKeyRing{"k"})
	require.NoError(t, err)
	assert.Equal(t, "Default", name)
}

func TestDecryptFolderName_NoKeyMatches(t *testing.T) {
	e := NewEngine()
	payload := mustEncrypt(t, e, models.FolderMetadata{Name: "x"}, "k")

	name, err := e.DecryptFolderName(payload, models.MasterKeyRing{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestDecryptFolderName_EmptyRing(t *testing.T) {
	_, err := NewEngine().DecryptFolderName("002...", nil)
	assert.ErrorIs(t, err, ErrEmptyKeyRing)
}

// ── file metadata ───────────────────────────────────────────────────────────

func TestDecryptFileMetadata(t *testing.T) {
	e := NewEngine()
	want := models.FileMetadata{Name: "a.txt", Size: 10, Mime: "text/plain", Key: "fk", LastModified: 1700000000000}
	payload := mustEncrypt(t, e, want, "k2")

	got, err := e.DecryptFileMetadata(payload, models.MasterKeyRing{"k1", "k2", "k3"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecryptFileMetadata_Undecryptable(t *testing.T) {
	e := NewEngine()
	payload := mustEncrypt(t, e, models.FileMetadata{Name: "a"}, "k")

	_, err := e.DecryptFileMetadata(payload, models.MasterKeyRing{"x"})
	assert.ErrorIs(t, err, ErrUndecryptable)
}

func TestDecryptFileMetadata_NotJSON(t *testing.T) {
	e := NewEngine()
	payload, err := e.EncryptMetadata("not json", "k")
	require.NoError(t, err)

	_, err = e.DecryptFileMetadata(payload, models.MasterKeyRing{"k"})
	assert.ErrorIs(t, err, ErrUndecryptable)
}

func TestDecryptFileMetadata_EmptyRing(t *testing.T) {
	_, err := NewEngine().DecryptFileMetadata("x", models.MasterKeyRing{})
	assert.ErrorIs(t, err, ErrEmptyKeyRing)
}

func TestLinkVariants(t *testing.T) {
	e := NewEngine()

	folder := mustEncrypt(t, e, models.FolderMetadata{Name: "Shared"}, "link")
	assert.Equal(t, "Shared", e.DecryptFolderNameLink(folder, "link"))
	assert.Empty(t, e.DecryptFolderNameLink(folder, "nope"))

	file := mustEncrypt(t, e, models.FileMetadata{Name: "s.txt"}, "link")
	meta, err := e.DecryptFileMetadataLink(file, "link")
	require.NoError(t, err)
	assert.Equal(t, "s.txt", meta.Name)
}

// ── socket payloads ─────────────────────────────────────────────────────────

func TestDecryptSocketPayload_FirstValidJSON(t *testing.T) {
	e := NewEngine()
	payload := mustEncrypt(t, e, map[string]string{"type": "upload"}, "k2")

	raw, err := e.DecryptSocketPayload(payload, models.MasterKeyRing{"k1", "k2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"upload"}`, string(raw))
}

func TestDecryptSocketPayload_Errors(t *testing.T) {
	e := NewEngine()

	_, err := e.DecryptSocketPayload("x", nil)
	assert.ErrorIs(t, err, ErrEmptyKeyRing)

	notJSON, err := e.EncryptMetadata("plain text", "k")
	require.NoError(t, err)
	_, err = e.DecryptSocketPayload(notJSON, models.MasterKeyRing{"k"})
	assert.ErrorIs(t, err, ErrUndecryptable)
}

// Data encrypted with k1 before a rotation stays readable with the rotated
// ring.
func TestRotatedRingStillDecryptsOldMetadata(t *testing.T) {
	e := NewEngine()
	payload := mustEncrypt(t, e, models.FileMetadata{Name: "old.txt"}, "k1")

	meta, err := e.DecryptFileMetadata(payload, models.MasterKeyRing{"k1", "k2"})
	require.NoError(t, err)
	assert.Equal(t, "old.txt", meta.Name)
}
