package downloader

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadWritesBody(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://img.example.com/a.jpg",
		func(req *http.Request) (*http.Response, error) {
			assert.Contains(t, req.Header.Get("User-Agent"), "Mozilla/5.0")
			return httpmock.NewBytesResponse(http.StatusOK, []byte("JPEGDATA")), nil
		})

	client := New(Options{Transport: transport})
	dest := filepath.Join(t.TempDir(), "food", "a_0.jpg")

	n, err := client.Download(context.Background(), "https://img.example.com/a.jpg", dest)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "JPEGDATA", string(data))

	_, err = os.Stat(dest + ".part")
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadOverwritesExisting(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://img.example.com/b.png",
		httpmock.NewStringResponder(http.StatusOK, "new"))

	dest := filepath.Join(t.TempDir(), "b.png")
	require.NoError(t, os.WriteFile(dest, []byte("old content"), 0o644))

	_, err := New(Options{Transport: transport}).Download(context.Background(), "https://img.example.com/b.png", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestDownloadHTTPError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://img.example.com/gone.jpg",
		httpmock.NewStringResponder(http.StatusForbidden, "denied"))

	dest := filepath.Join(t.TempDir(), "gone.jpg")
	_, err := New(Options{Transport: transport}).Download(context.Background(), "https://img.example.com/gone.jpg", dest)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "HTTP 403", err.Error())
	assert.Equal(t, "http_status", ErrorLabel(err))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadFollowsRedirect(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://short.example.com/x",
		func(req *http.Request) (*http.Response, error) {
			resp := httpmock.NewStringResponse(http.StatusFound, "")
			resp.Header.Set("Location", "https://img.example.com/real.jpg")
			return resp, nil
		})
	transport.RegisterResponder(http.MethodGet, "https://img.example.com/real.jpg",
		httpmock.NewStringResponder(http.StatusOK, "real"))

	dest := filepath.Join(t.TempDir(), "x.jpg")
	_, err := New(Options{Transport: transport}).Download(context.Background(), "https://short.example.com/x", dest)
	require.NoError(t, err)

	data, _ := os.ReadFile(dest)
	assert.Equal(t, "real", string(data))
}

func TestDownloadTransportError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://img.example.com/a.jpg",
		httpmock.NewErrorResponder(errors.New("connection reset by peer")))

	_, err := New(Options{Transport: transport}).Download(context.Background(), "https://img.example.com/a.jpg",
		filepath.Join(t.TempDir(), "a.jpg"))
	require.Error(t, err)
	assert.Equal(t, "network", ErrorLabel(err))
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"Plain jpg", "https://a.example/x/y.jpg", ".jpg"},
		{"Uppercase", "https://a.example/PHOTO.JPG", ".jpg"},
		{"Mixed case png", "https://a.example/p.PnG?size=large", ".png"},
		{"Webp", "https://a.example/p.webp", ".webp"},
		{"Jpeg", "https://a.example/p.jpeg#frag", ".jpeg"},
		{"No extension", "https://a.example/images/12345", ".jpg"},
		{"Query only extension", "https://a.example/img?f=.png", ".jpg"},
		{"Unrecognized", "https://a.example/anim.gif", ".jpg"},
		{"Encoded junk", "https://a.example/p.jp%20g", ".jpg"},
		{"Trailing dot", "https://a.example/p.", ".jpg"},
		{"Unparseable", "://bad", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtensionFor(tt.url))
		})
	}
}

func TestErrorLabel(t *testing.T) {
	assert.Equal(t, "none", ErrorLabel(nil))
	assert.Equal(t, "timeout", ErrorLabel(context.DeadlineExceeded))
	assert.Equal(t, "http_status", ErrorLabel(&HTTPError{StatusCode: 500}))
	assert.Equal(t, "other", ErrorLabel(errors.New("disk full")))
}
