package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	body := []byte("fake pdf bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 1<<20)
	doc, data, err := f.Fetch(context.Background(), srv.URL+"/files/policy.pdf?sig=abc")
	require.NoError(t, err)
	assert.Equal(t, body, data)
	assert.Equal(t, FormatPDF, doc.Format)
	assert.Equal(t, "policy.pdf", doc.Filename)
	assert.Equal(t, srv.URL+"/files/policy.pdf?sig=abc", doc.SourceURL)
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	f := NewFetcher(time.Second, 1<<20)

	_, _, err := f.Fetch(context.Background(), "not a url")
	assert.Error(t, err)

	_, _, err = f.Fetch(context.Background(), "ftp://example.com/doc.pdf")
	assert.Error(t, err)
}

func TestFetchRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 1<<20)
	_, _, err := f.Fetch(context.Background(), srv.URL+"/missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 404")
}

func TestFetchEnforcesSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, 1024)
	_, _, err := f.Fetch(context.Background(), srv.URL+"/big.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatPDF, detectFormat("https://example.com/a.PDF"))
	assert.Equal(t, FormatPDF, detectFormat("https://example.com/a.pdf?token=x"))
	assert.Equal(t, FormatDOCX, detectFormat("https://example.com/a.docx"))
	// Anything that is not recognizably PDF falls back to DOCX.
	assert.Equal(t, FormatDOCX, detectFormat("https://example.com/download?id=42"))
}

func TestFilenameFromURL(t *testing.T) {
	u, _ := url.Parse("https://example.com/files/contract.docx?sig=zz")
	assert.Equal(t, "contract.docx", filenameFromURL(u))

	u, _ = url.Parse("https://example.com/")
	assert.Equal(t, "example.com", filenameFromURL(u))
}
