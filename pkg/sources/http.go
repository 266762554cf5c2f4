package sources

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/seqtab/seqtab/pkg/errors"
)

// HTTPSource streams a URL with a plain GET. The server's
// Content-Length, when present, becomes the size after Open.
type HTTPSource struct {
	url    string
	client *http.Client
	size   int64
}

func NewHTTP(rawURL string) *HTTPSource {
	return &HTTPSource{url: rawURL, client: http.DefaultClient, size: -1}
}

func (s *HTTPSource) ID() string {
	if u, err := url.Parse(s.url); err == nil {
		return path.Base(u.Path)
	}
	return s.url
}

func (s *HTTPSource) Location() string { return s.url }
func (s *HTTPSource) Size() int64      { return s.size }

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Newf("fetching %s: unexpected status %s", s.url, resp.Status)
	}
	if resp.ContentLength >= 0 {
		s.size = resp.ContentLength
	}
	return resp.Body, nil
}
