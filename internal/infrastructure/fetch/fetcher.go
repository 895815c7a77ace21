package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/prasad0706/docintel/internal/core/domain"
)

const defaultMaxBytes = 10 << 20

// Fetcher downloads registered source URLs for the extraction worker. The
// body is capped so a misbehaving origin cannot balloon worker memory.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

type Options struct {
	Timeout  time.Duration
	MaxBytes int64
}

func New() *Fetcher {
	return NewWithOptions(Options{})
}

func NewWithOptions(options Options) *Fetcher {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBytes := options.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrTemporary, "fetch.download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("fetch %s status: %s", url, resp.Status)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, "", domain.WrapError(domain.ErrTemporary, "fetch.download", err)
		}
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrTemporary, "fetch.download", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", fmt.Errorf("fetch %s: body exceeds %d bytes", url, f.maxBytes)
	}

	return data, contentMimeType(resp.Header.Get("Content-Type")), nil
}

func contentMimeType(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	mimeType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mimeType
}
