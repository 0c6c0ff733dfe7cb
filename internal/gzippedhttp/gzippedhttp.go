// Package gzippedhttp accepts gzip-compressed request bodies. Response compression
// is left to chi's middleware.Compress.
package gzippedhttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/patric-chuzhbe/usersignup/internal/logger"
)

// compressedReader decompresses a request body and closes both streams.
type compressedReader struct {
	body io.ReadCloser
	zr   *gzip.Reader
}

func newCompressedReader(body io.ReadCloser) (*compressedReader, error) {
	zr, err := gzip.NewReader(body)
	if err != nil {
		return nil, err
	}

	return &compressedReader{body: body, zr: zr}, nil
}

func (c *compressedReader) Read(p []byte) (int, error) {
	return c.zr.Read(p)
}

func (c *compressedReader) Close() error {
	if err := c.zr.Close(); err != nil {
		c.body.Close()
		return err
	}
	return c.body.Close()
}

// UngzipRequest replaces the body of a request sent with "Content-Encoding: gzip"
// by its decompressed stream. A body that is not valid gzip is answered with 400.
func UngzipRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			h.ServeHTTP(response, request)
			return
		}

		reader, err := newCompressedReader(request.Body)
		if err != nil {
			logger.Log.Debugw("unable to read gzipped request body", "error", err)
			http.Error(response, "malformed gzip body", http.StatusBadRequest)
			return
		}
		defer reader.Close()

		request.Body = reader
		request.Header.Del("Content-Encoding")
		request.ContentLength = -1

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
