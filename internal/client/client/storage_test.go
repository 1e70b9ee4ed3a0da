package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objectsPath = "/v0/b/demo.appspot.com/o"

func TestRESTClient_UploadFile(t *testing.T) {
	payload := append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+objectsPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer id-1", r.Header.Get("Authorization"))
		assert.Equal(t, "media", r.URL.Query().Get("uploadType"))
		assert.Equal(t, "audio/uid-1/1700000000000.wav", r.URL.Query().Get("name"))
		assert.Equal(t, mimetype.Detect(payload).String(), r.Header.Get("Content-Type"))

		got, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, got)

		writeJSON(w, http.StatusOK, map[string]any{
			"name":           "audio/uid-1/1700000000000.wav",
			"bucket":         "demo.appspot.com",
			"downloadTokens": "tok-a,tok-b",
		})
	})

	c, sm, _ := newTestClient(t, mux)
	establish(t, sm, "id-1", "refresh-1", time.Now().Add(time.Hour))

	raw, err := c.UploadFile(context.Background(), "audio/uid-1/1700000000000.wav", payload)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, objectsPath+"/audio%2Fuid-1%2F1700000000000.wav", u.EscapedPath())
	assert.Equal(t, "media", u.Query().Get("alt"))
	assert.Equal(t, "tok-a", u.Query().Get("token"))
}

func TestRESTClient_UploadFileFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+objectsPath, func(w http.ResponseWriter, r *http.Request) {
		providerError(w, http.StatusInternalServerError, "backend error")
	})

	c, sm, _ := newTestClient(t, mux)
	establish(t, sm, "id-1", "refresh-1", time.Now().Add(time.Hour))

	_, err := c.UploadFile(context.Background(), "a.wav", []byte("x"))
	require.ErrorIs(t, err, ErrStorage)
}

func TestRESTClient_DeleteFile(t *testing.T) {
	deleted := &hitCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE "+objectsPath+"/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		deleted.add(name)
		switch name {
		case "audio/present.wav":
			w.WriteHeader(http.StatusNoContent)
		case "audio/broken.wav":
			providerError(w, http.StatusInternalServerError, "backend error")
		default:
			providerError(w, http.StatusNotFound, "Not Found.")
		}
	})

	c, sm, _ := newTestClient(t, mux)
	establish(t, sm, "id-1", "refresh-1", time.Now().Add(time.Hour))
	ctx := context.Background()

	require.NoError(t, c.DeleteFile(ctx, "audio/present.wav"))
	require.NoError(t, c.DeleteFile(ctx, "audio/missing.wav"))
	require.ErrorIs(t, c.DeleteFile(ctx, "audio/broken.wav"), ErrStorage)

	assert.Equal(t, 1, deleted.get("audio/present.wav"))
	assert.Equal(t, 1, deleted.get("audio/missing.wav"))
}
