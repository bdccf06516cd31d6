// Package loader fetches template text for component hosts and renders
// Markdown templates to HTML.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Loader fetches the text of a template resource
type Loader interface {
	LoadText(ctx context.Context, name string) (string, error)
}

// LoadError reports a resource that could not be fetched
type LoadError struct {
	Path       string
	Status     int
	StatusText string
}

// Error implements the error interface
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %q: %d %s", e.Path, e.Status, e.StatusText)
}

func newLoadError(name string, status int) *LoadError {
	return &LoadError{Path: name, Status: status, StatusText: http.StatusText(status)}
}

// FSLoader reads templates from a file system
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates a loader reading from fsys
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// LoadText implements Loader. A missing file is a 404 LoadError.
func (l *FSLoader) LoadText(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(clean) {
		return "", newLoadError(name, http.StatusBadRequest)
	}
	data, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newLoadError(name, http.StatusNotFound)
		}
		return "", fmt.Errorf("loading %q: %w", name, err)
	}
	return string(data), nil
}

// HTTPLoader fetches templates relative to a base URL
type HTTPLoader struct {
	client *http.Client
	base   *url.URL
}

// NewHTTPLoader creates a loader resolving names against base. A nil client
// means http.DefaultClient.
func NewHTTPLoader(client *http.Client, base string) (*HTTPLoader, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{client: client, base: u}, nil
}

// LoadText implements Loader. A non-2xx response is a LoadError carrying the
// status.
func (l *HTTPLoader) LoadText(ctx context.Context, name string) (string, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return "", fmt.Errorf("invalid template name %q: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.base.ResolveReference(ref).String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("loading %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newLoadError(name, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", name, err)
	}
	return string(body), nil
}
