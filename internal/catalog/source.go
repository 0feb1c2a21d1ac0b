package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"voicedash/internal/apperr"
)

//go:embed stt.json
var bundled []byte

// maxDocumentSize caps how much of a remote catalog is read
const maxDocumentSize = 4 << 20

// Source fetches the raw catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// EmbeddedSource serves the catalog compiled into the binary.
type EmbeddedSource struct{}

// Fetch returns the bundled document.
func (EmbeddedSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]byte(nil), bundled...), nil
}

// FileSource reads the catalog from a local file.
type FileSource struct {
	Path string
}

// Fetch reads the file.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// HTTPSource downloads the catalog with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Fetch performs the request. Any non-2xx status is an error.
func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch catalog: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return data, nil
}

// NewSource picks a source for location: "" is the bundled catalog, an
// http(s) URL is fetched with the given timeout, anything else is a path.
func NewSource(location string, timeout time.Duration) Source {
	switch {
	case location == "":
		return EmbeddedSource{}
	case isRemote(location):
		return HTTPSource{URL: location, Client: &http.Client{Timeout: timeout}}
	default:
		return FileSource{Path: location}
	}
}

// RemoteHost returns the host of location when it names an http(s)
// catalog. Paths and other schemes report false.
func RemoteHost(location string) (string, bool) {
	u, err := url.ParseRequestURI(location)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.Host, true
}

func isRemote(location string) bool {
	_, ok := RemoteHost(location)
	return ok
}

// Load fetches and parses the catalog. Every failure is reported as
// CatalogUnavailable.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, apperr.E("catalog.Load", apperr.KindCatalogUnavailable, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, apperr.E("catalog.Load", apperr.KindCatalogUnavailable, err)
	}
	return c, nil
}
