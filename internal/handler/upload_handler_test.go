package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reelog/internal/assets"
	"reelog/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUploadRouter(t *testing.T, ttl time.Duration) (*gin.Engine, *assets.DiskStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := assets.NewDiskStore(
		t.TempDir(),
		"http://localhost:8080/assets",
		"http://localhost:8080/uploads",
		"0123456789abcdef0123456789abcdef",
		ttl,
	)

	r := gin.New()
	handler.NewUploadHandler(store, 1024).RegisterRoutes(r.Group("/uploads"))
	return r, store
}

// signedPath strips the host from a generated upload URL.
func signedPath(t *testing.T, store *assets.DiskStore) string {
	t.Helper()
	rawURL, _, err := store.GenerateUploadURL(context.Background())
	require.NoError(t, err)
	return rawURL[len("http://localhost:8080"):]
}

// brokenReader simulates a client connection dying mid-upload.
type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestUploadHandler_Put(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, store := setupUploadRouter(t, 15*time.Minute)
		path := signedPath(t, store)

		req, _ := http.NewRequest(http.MethodPut, path, bytes.NewBufferString("avatar bytes"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ExpiredURL", func(t *testing.T) {
		r, store := setupUploadRouter(t, -time.Minute)
		path := signedPath(t, store)

		req, _ := http.NewRequest(http.MethodPut, path, bytes.NewBufferString("x"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("BadSignature", func(t *testing.T) {
		r, _ := setupUploadRouter(t, 15*time.Minute)

		req, _ := http.NewRequest(http.MethodPut, "/uploads/some-key?exp=99999999999&sig=deadbeef", bytes.NewBufferString("x"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("MissingExp", func(t *testing.T) {
		r, _ := setupUploadRouter(t, 15*time.Minute)

		req, _ := http.NewRequest(http.MethodPut, "/uploads/some-key?sig=deadbeef", bytes.NewBufferString("x"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("OversizedBody", func(t *testing.T) {
		r, store := setupUploadRouter(t, 15*time.Minute)
		path := signedPath(t, store)

		big := bytes.Repeat([]byte("a"), 2048)
		req, _ := http.NewRequest(http.MethodPut, path, bytes.NewBuffer(big))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("BodyReadFailure", func(t *testing.T) {
		r, store := setupUploadRouter(t, 15*time.Minute)
		path := signedPath(t, store)

		req, _ := http.NewRequest(http.MethodPut, path, brokenReader{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		// a dropped connection is not an oversize body
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		r, store := setupUploadRouter(t, 15*time.Minute)
		path := signedPath(t, store)

		req, _ := http.NewRequest(http.MethodPut, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
