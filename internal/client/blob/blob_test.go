package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	uploaded map[string][]byte
	deleted  []string
}

func (r *recordingClient) UploadFile(_ context.Context, path string, data []byte) (string, error) {
	r.uploaded[path] = data
	return "https://files.example.com/" + path, nil
}

func (r *recordingClient) DeleteFile(_ context.Context, path string) error {
	r.deleted = append(r.deleted, path)
	return nil
}

func TestHosted_DelegatesToClient(t *testing.T) {
	rc := &recordingClient{uploaded: map[string][]byte{}}
	var s Store = NewHosted(rc)

	u, err := s.Upload(context.Background(), "audio/a.wav", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/audio/a.wav", u)
	assert.Equal(t, []byte("x"), rc.uploaded["audio/a.wav"])

	require.NoError(t, s.Delete(context.Background(), "audio/a.wav"))
	assert.Equal(t, []string{"audio/a.wav"}, rc.deleted)
}
