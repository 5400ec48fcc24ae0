package eodhd

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// diskCache implements a simple disk cache for HTTP responses.
//
// Entries are keyed by the request and the current ttl window, so they expire
// when the window rolls over.
type diskCache struct {
	base   http.RoundTripper
	dir    string // os.TempDir() when empty
	ttl    time.Duration
	logger *zerolog.Logger
	now    func() time.Time // time.Now when nil
}

// RoundTrip implements the http.RoundTripper interface.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := c.key(req)

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		c.logger.Debug().Str("path", req.URL.Path).Msg("cache hit")
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Str("status", resp.Status).Msg("http")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.logger.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

func (c *diskCache) key(req *http.Request) string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	window := now().Truncate(c.ttl).Unix()
	return fmt.Sprintf("eodhd-%x", sha1.Sum([]byte(fmt.Sprintf("%d %s %s", window, req.Method, req.URL.String()))))
}

func (c *diskCache) path(key string) string {
	dir := c.dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, key)
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), content, 0o644)
}
