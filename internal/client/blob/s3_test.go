package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<Error><Code>`+code+`</Code><Message>`+code+`</Message><RequestId>req-1</RequestId></Error>`)
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deny    bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deny {
		s3Error(w, http.StatusForbidden, "AccessDenied")
		return
	}

	key := r.URL.Path
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		if _, ok := f.objects[key]; !ok {
			s3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewS3Store(context.Background(), S3Config{
		Endpoint:   srv.URL,
		Region:     "us-east-1",
		Bucket:     "cards",
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		URLExpiry:  time.Hour,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return store, fake
}

func TestS3Store_UploadAndDelete(t *testing.T) {
	store, fake := newS3Store(t)
	ctx := context.Background()
	payload := append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)

	raw, err := store.Upload(ctx, "audio/uid-1/1.wav", payload)
	require.NoError(t, err)

	fake.mu.Lock()
	stored, ok := fake.objects["/cards/audio/uid-1/1.wav"]
	ct := fake.types["/cards/audio/uid-1/1.wav"]
	fake.mu.Unlock()
	require.True(t, ok)
	assert.True(t, bytes.Contains(stored, payload))
	assert.Contains(t, ct, "audio/")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/cards/audio/uid-1/1.wav", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	require.NoError(t, store.Delete(ctx, "audio/uid-1/1.wav"))
	require.NoError(t, store.Delete(ctx, "audio/uid-1/1.wav"), "missing object counts as deleted")
}

func TestS3Store_Errors(t *testing.T) {
	store, fake := newS3Store(t)
	fake.mu.Lock()
	fake.deny = true
	fake.mu.Unlock()
	ctx := context.Background()

	_, err := store.Upload(ctx, "a.wav", []byte("x"))
	require.ErrorIs(t, err, client.ErrStorage)

	err = store.Delete(ctx, "a.wav")
	require.ErrorIs(t, err, client.ErrStorage)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestNewS3Store_Config(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	require.Error(t, err)

	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var region string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		region = lo.Region
		return aws.Config{}, errors.New("no config")
	}

	_, err = NewS3Store(context.Background(), S3Config{Bucket: "b"})
	require.ErrorContains(t, err, "no config")
	assert.Equal(t, "us-east-1", region)
}
