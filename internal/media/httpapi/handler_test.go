package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akozlov/custhub/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

type fakeStore struct {
	gotKey      string
	gotPayload  []byte
	gotDeadline time.Time
	hadDeadline bool

	url       string
	uploadErr error
	bucketErr error
}

func (f *fakeStore) Upload(ctx context.Context, key, contentType string, payload []byte) (string, error) {
	f.gotKey = key
	f.gotPayload = payload
	f.gotDeadline, f.hadDeadline = ctx.Deadline()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.url, nil
}

func (f *fakeStore) CheckBucket(ctx context.Context) error { return f.bucketErr }

func newTestServer(t *testing.T, store Store, maxBytes int64) *httptest.Server {
	t.Helper()
	return newTestServerTimeout(t, store, maxBytes, 0)
}

func newTestServerTimeout(t *testing.T, store Store, maxBytes int64, uploadTimeout time.Duration) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(nopLogger{}, store, maxBytes, uploadTimeout).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func multipartBody(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}

func TestUpload_Success(t *testing.T) {
	store := &fakeStore{url: "http://127.0.0.1:9000/photos/k-cat.jpg"}
	srv := newTestServer(t, store, 5*1024*1024)

	body, contentType := multipartBody(t, "photo", "cat.jpg", []byte("image-bytes"))

	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"url":"http://127.0.0.1:9000/photos/k-cat.jpg"}`, readBody(t, resp))

	assert.True(t, strings.HasSuffix(store.gotKey, "cat.jpg"))
	assert.NotEqual(t, "cat.jpg", store.gotKey, "key must carry a random prefix")
	assert.Equal(t, []byte("image-bytes"), store.gotPayload)
}

func TestUpload_NoFile(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, 5*1024*1024)

	body, contentType := multipartBody(t, "not-photo", "cat.jpg", []byte("x"))

	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded.", readBody(t, resp))
}

func TestUpload_TooLarge(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, 128)

	body, contentType := multipartBody(t, "photo", "big.bin", bytes.Repeat([]byte("a"), 4096))

	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_AppliesStoreDeadline(t *testing.T) {
	store := &fakeStore{url: "http://127.0.0.1:9000/photos/k"}
	srv := newTestServerTimeout(t, store, 1024, 30*time.Second)

	body, contentType := multipartBody(t, "photo", "cat.jpg", []byte("x"))

	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, store.hadDeadline, "store context must carry the upload deadline")
	assert.WithinDuration(t, time.Now().Add(30*time.Second), store.gotDeadline, 5*time.Second)
}

func TestUpload_NoDeadlineWhenTimeoutUnset(t *testing.T) {
	store := &fakeStore{url: "http://127.0.0.1:9000/photos/k"}
	srv := newTestServerTimeout(t, store, 1024, 0)

	body, contentType := multipartBody(t, "photo", "cat.jpg", []byte("x"))

	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, store.hadDeadline)
}

func TestUpload_StoreFailure(t *testing.T) {
	srv := newTestServer(t, &fakeStore{uploadErr: errors.New("store down")}, 5*1024*1024)

	body, contentType := multipartBody(t, "photo", "cat.jpg", []byte("x"))

	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", readBody(t, resp))
}

func TestUpload_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, 5*1024*1024)

	resp, err := http.Get(srv.URL + "/upload")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth_Probes(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, 1024)

	resp, err := http.Get(srv.URL + "/health/live")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "Live", readBody(t, resp))

	resp2, err := http.Get(srv.URL + "/health/ready")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "Ready", readBody(t, resp2))
}

func TestHealth_NotReadyWhenBucketMissing(t *testing.T) {
	srv := newTestServer(t, &fakeStore{bucketErr: errors.New("no such bucket")}, 1024)

	resp, err := http.Get(srv.URL + "/health/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Not Ready", readBody(t, resp))
}
