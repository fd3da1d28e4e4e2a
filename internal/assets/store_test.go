package assets

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *DiskStore {
	t.Helper()
	return NewDiskStore(
		t.TempDir(),
		"http://localhost:8080/assets",
		"http://localhost:8080/uploads",
		"0123456789abcdef0123456789abcdef",
		ttl,
	)
}

// parseUploadURL pulls key, exp and sig out of a generated upload URL.
func parseUploadURL(t *testing.T, raw string) (key string, exp int64, sig string) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	key = u.Path[len("/uploads/"):]
	exp, err = strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	require.NoError(t, err)
	return key, exp, u.Query().Get("sig")
}

func TestDiskStore_UploadRoundTrip(t *testing.T) {
	store := newTestStore(t, 15*time.Minute)
	ctx := context.Background()

	rawURL, key, err := store.GenerateUploadURL(ctx)
	require.NoError(t, err)

	urlKey, exp, sig := parseUploadURL(t, rawURL)
	assert.Equal(t, key, urlKey)

	assert.NoError(t, store.VerifyUpload(key, exp, sig))
	require.NoError(t, store.Put(key, []byte("image bytes")))

	resolved, err := store.Resolve(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/assets/"+key, resolved)
}

func TestDiskStore_VerifyUpload(t *testing.T) {
	store := newTestStore(t, 15*time.Minute)

	t.Run("ExpiredURL", func(t *testing.T) {
		expired := newTestStore(t, -time.Minute)
		rawURL, key, err := expired.GenerateUploadURL(context.Background())
		require.NoError(t, err)

		_, exp, sig := parseUploadURL(t, rawURL)
		assert.ErrorIs(t, expired.VerifyUpload(key, exp, sig), ErrExpiredUploadURL)
	})

	t.Run("TamperedSignature", func(t *testing.T) {
		rawURL, key, err := store.GenerateUploadURL(context.Background())
		require.NoError(t, err)

		_, exp, _ := parseUploadURL(t, rawURL)
		assert.ErrorIs(t, store.VerifyUpload(key, exp, "deadbeef"), ErrBadSignature)
	})

	t.Run("TamperedExpiry", func(t *testing.T) {
		rawURL, key, err := store.GenerateUploadURL(context.Background())
		require.NoError(t, err)

		_, exp, sig := parseUploadURL(t, rawURL)
		// stretching the deadline invalidates the signature
		assert.ErrorIs(t, store.VerifyUpload(key, exp+3600, sig), ErrBadSignature)
	})

	t.Run("KeySwap", func(t *testing.T) {
		first, _, err := store.GenerateUploadURL(context.Background())
		require.NoError(t, err)
		_, key2, err := store.GenerateUploadURL(context.Background())
		require.NoError(t, err)

		_, exp, sig := parseUploadURL(t, first)
		assert.ErrorIs(t, store.VerifyUpload(key2, exp, sig), ErrBadSignature)
	})
}

func TestDiskStore_ResolveMiss(t *testing.T) {
	store := newTestStore(t, time.Minute)

	resolved, err := store.Resolve(context.Background(), "never-uploaded")
	assert.NoError(t, err)
	assert.Equal(t, "", resolved)

	resolved, err = store.Resolve(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, "", resolved)
}

func TestDiskStore_Delete(t *testing.T) {
	store := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, key, err := store.GenerateUploadURL(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Put(key, []byte("x")))

	assert.NoError(t, store.Delete(ctx, key))

	resolved, err := store.Resolve(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, "", resolved)

	// deleting a missing asset is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestDiskStore_PathTraversalKeysStayInside(t *testing.T) {
	store := newTestStore(t, time.Minute)

	err := store.Put("../../etc/owned", []byte("nope"))
	assert.NoError(t, err)

	// the traversal collapses to the base name inside the store dir
	resolved, err := store.Resolve(context.Background(), "owned")
	assert.NoError(t, err)
	assert.NotEqual(t, "", resolved)
}
