package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 — in-memory транспорт, отвечающий на HEAD/PUT/GET/DELETE path-style запросы.
type fakeS3 struct {
	mu   sync.Mutex
	objs map[string][]byte
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	empty := func(code int) *http.Response {
		return &http.Response{StatusCode: code, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}, Request: req}
	}
	switch req.Method {
	case http.MethodHead:
		b, ok := f.objs[key]
		if !ok {
			return empty(http.StatusNotFound), nil
		}
		resp := empty(http.StatusOK)
		resp.Header.Set("Content-Length", fmt.Sprint(len(b)))
		return resp, nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objs[key] = body
		resp := empty(http.StatusOK)
		resp.Header.Set("ETag", `"etag"`)
		return resp, nil
	case http.MethodDelete:
		delete(f.objs, key)
		return empty(http.StatusNoContent), nil
	}
	return empty(http.StatusNotImplemented), nil
}

// decodeChunked разбирает однокусковое aws-chunked тело: <hex>\r\n<data>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	var n int
	if _, err := fmt.Sscanf(parts[0], "%x", &n); err != nil || n != len(parts[1]) {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newFakeS3(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	rt := &fakeS3{objs: map[string][]byte{}}
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	awsCfg.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	s := newS3(awsCfg, S3Config{Bucket: "mock-bucket", Region: "us-east-1", Endpoint: "https://mock.s3.local", PathStyle: true},
		&http.Client{Transport: rt})
	return s, rt
}

func TestS3_PutDeletePresign(t *testing.T) {
	s, rt := newFakeS3(t)
	ctx := context.Background()

	obj, err := s.Put(ctx, "receipts/a.png", bytes.NewReader([]byte("hello")), 5, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "mock-bucket", obj.Bucket)
	assert.Equal(t, "https://mock.s3.local/mock-bucket/receipts/a.png", obj.PublicURL)
	assert.Equal(t, int64(5), obj.Size)
	assert.Equal(t, []byte("hello"), rt.objs["receipts/a.png"])

	u, err := s.PresignGet(ctx, "receipts/a.png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, u, "mock-bucket/receipts/a.png")
	assert.Contains(t, u, "X-Amz-Signature")
	assert.Contains(t, u, "X-Amz-Expires=3600")

	require.NoError(t, s.Delete(ctx, "receipts/a.png"))
	assert.Empty(t, rt.objs)
	assert.ErrorIs(t, s.Delete(ctx, "receipts/a.png"), ErrObjectNotFound)
}

func TestS3_PutNonSeekable(t *testing.T) {
	s, rt := newFakeS3(t)
	obj, err := s.Put(context.Background(), "documents/b.txt", io.LimitReader(strings.NewReader("abcdef"), 3), -1, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(3), obj.Size)
	assert.Equal(t, []byte("abc"), rt.objs["documents/b.txt"])
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBase(S3Config{PublicBaseURL: "https://cdn.example.com", Bucket: "b"}))
	assert.Equal(t, "http://minio:9000/b", publicBase(S3Config{Endpoint: "http://minio:9000/", Bucket: "b"}))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicBase(S3Config{Bucket: "b", Region: "eu-west-1"}))
}

func TestFilesystem(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFilesystem(root, "http://localhost:8081/blobs/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := fs.Put(ctx, "images/x.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081/blobs/images/x.png", obj.PublicURL)
	assert.Equal(t, int64(9), obj.Size)
	data, err := os.ReadFile(filepath.Join(root, "images", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	srv := httptest.NewServer(http.StripPrefix("/blobs/", fs.Handler()))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/blobs/images/x.png")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png-bytes", string(body))

	_, err = fs.PresignGet(ctx, "images/x.png", time.Minute)
	assert.ErrorIs(t, err, ErrUnsupported)

	require.NoError(t, fs.Delete(ctx, "images/x.png"))
	assert.ErrorIs(t, fs.Delete(ctx, "images/x.png"), ErrObjectNotFound)

	_, err = fs.Put(ctx, "../escape", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	m := NewMemory("")
	ctx := context.Background()
	_, err := m.PresignGet(ctx, "a", time.Minute)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	obj, err := m.Put(ctx, "a", strings.NewReader("1"), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "memory://blobs/a", obj.PublicURL)
	assert.True(t, m.Has("a"))
	u, err := m.PresignGet(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "expires=")
	require.NoError(t, m.Delete(ctx, "a"))
	assert.False(t, m.Has("a"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, Config{FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, Config{Driver: "s3"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Driver: "ftp"})
	assert.Error(t, err)
}
