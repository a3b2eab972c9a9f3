package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

type compressWriter struct {
	w       http.ResponseWriter
	zw      *gzip.Writer
	decided bool
	direct  bool
}

func newCompressWriter(w http.ResponseWriter) *compressWriter {
	return &compressWriter{w: w}
}

func (c *compressWriter) Header() http.Header { return c.w.Header() }

func (c *compressWriter) Write(p []byte) (int, error) {
	c.prepare(http.StatusOK)
	if c.direct {
		return c.w.Write(p)
	}
	if c.zw == nil {
		c.zw = gzip.NewWriter(c.w)
	}
	return c.zw.Write(p)
}

func (c *compressWriter) WriteHeader(statusCode int) {
	c.prepare(statusCode)
	c.w.WriteHeader(statusCode)
}

// prepare один раз решает, сжимать ли ответ. Пустые ответы, редиректы и уже
// закодированные тела отдаются как есть.
func (c *compressWriter) prepare(statusCode int) {
	if c.decided {
		return
	}
	c.decided = true
	h := c.w.Header()
	if statusCode == http.StatusNoContent || (statusCode >= 300 && statusCode < 400) || h.Get("Content-Encoding") != "" {
		c.direct = true
		return
	}
	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
}

func (c *compressWriter) Close() error {
	if c.zw == nil {
		return nil
	}
	return c.zw.Close()
}

type compressReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) (*compressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &compressReader{r: r, zr: zr}, nil
}

func (c *compressReader) Read(p []byte) (int, error) { return c.zr.Read(p) }

func (c *compressReader) Close() error {
	if err := c.r.Close(); err != nil {
		return err
	}
	return c.zr.Close()
}

// WithGzip сжимает ответ, если клиент принимает gzip, и распаковывает сжатое тело запроса.
// Редиректы и пустые ответы не сжимаются.
func WithGzip(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ow := w
		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			cw := newCompressWriter(w)
			ow = cw
			defer cw.Close()
		}
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			cr, err := newCompressReader(r.Body)
			if err != nil {
				http.Error(w, "invalid gzip body", http.StatusBadRequest)
				return
			}
			r.Body = cr
			defer cr.Close()
		}
		h.ServeHTTP(ow, r)
	})
}
