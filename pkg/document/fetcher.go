package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Fetcher downloads source documents over HTTP with a size cap.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if maxBytes == 0 {
		maxBytes = 15 << 20 // 15MB
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the document at rawURL and returns its raw bytes together
// with the detected format and filename.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Document, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return Document{}, nil, fmt.Errorf("invalid document url: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Document{}, nil, fmt.Errorf("failed to download document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, nil, fmt.Errorf("failed to download document: http %d", resp.StatusCode)
	}

	data, err := readAtMost(resp.Body, f.maxBytes)
	if err != nil {
		return Document{}, nil, err
	}

	doc := Document{
		SourceURL: rawURL,
		Filename:  filenameFromURL(u),
		Format:    detectFormat(rawURL),
	}
	return doc, data, nil
}

// detectFormat assumes PDF whenever ".pdf" appears in the lowercased URL and
// falls back to DOCX otherwise.
func detectFormat(rawURL string) Format {
	if strings.Contains(strings.ToLower(rawURL), ".pdf") {
		return FormatPDF
	}
	return FormatDOCX
}

// filenameFromURL is the URL path base with the query stripped.
func filenameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return u.Host
	}
	return name
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	limited := io.LimitReader(r, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("document too large: limit is %d bytes", max)
	}
	return b, nil
}
