package client

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/oauth2"
)

func (c *RESTClient) objectsURL() string {
	return strings.TrimRight(c.cfg.StorageURL, "/") + "/v0/b/" + url.PathEscape(c.cfg.StorageBucket) + "/o"
}

// DownloadURL is the public retrieval URL of an uploaded object.
func (c *RESTClient) DownloadURL(path, token string) string {
	return c.objectsURL() + "/" + url.PathEscape(path) + "?" +
		url.Values{"alt": {"media"}, "token": {token}}.Encode()
}

func storageError(op string) func(*http.Response) error {
	return func(resp *http.Response) error {
		return statusError(op, resp, ErrStorage)
	}
}

// UploadFile stores data at path in one request and returns its retrieval
// URL. The content type is detected from data.
func (c *RESTClient) UploadFile(ctx context.Context, path string, data []byte) (string, error) {
	const op = "upload file"

	u := c.objectsURL() + "?" + url.Values{"uploadType": {"media"}, "name": {path}}.Encode()
	contentType := mimetype.Detect(data).String()

	build := func(ctx context.Context, tok *oauth2.Token) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		bearer(req, tok)
		return req, nil
	}

	var out struct {
		Name           string `json:"name"`
		Bucket         string `json:"bucket"`
		DownloadTokens string `json:"downloadTokens"`
	}
	if err := c.authorized(ctx, op, build, &out, storageError(op)); err != nil {
		return "", err
	}

	// multiple tokens come comma separated; any of them works
	token, _, _ := strings.Cut(out.DownloadTokens, ",")
	return c.DownloadURL(path, token), nil
}

// DeleteFile removes the object at path. A missing object is not an error.
func (c *RESTClient) DeleteFile(ctx context.Context, path string) error {
	const op = "delete file"

	u := c.objectsURL() + "/" + url.PathEscape(path)
	build := func(ctx context.Context, tok *oauth2.Token) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
		if err != nil {
			return nil, err
		}
		bearer(req, tok)
		return req, nil
	}
	return c.authorized(ctx, op, build, nil, func(resp *http.Response) error {
		if resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return statusError(op, resp, ErrStorage)
	})
}
