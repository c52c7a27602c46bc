package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// CompressionConfig tunes the brotli response middleware.
type CompressionConfig struct {
	Quality int
	// MinLength is the body size below which responses go out uncompressed.
	MinLength int
	// ExcludedPrefixes lists path prefixes that are never compressed.
	ExcludedPrefixes []string
}

// DefaultCompressionConfig compresses JSON bodies of 1 KiB and more. Ticket
// lists carry base64 attachments, which brotli shrinks well.
var DefaultCompressionConfig = CompressionConfig{
	Quality:          brotli.DefaultCompression,
	MinLength:        1024,
	ExcludedPrefixes: []string{"/ws/"},
}

// compressWriter buffers the body until MinLength is reached, then switches
// to streaming through brotli.
type compressWriter struct {
	gin.ResponseWriter
	br         *brotli.Writer
	quality    int
	buf        []byte
	minLength  int
	compressed bool
}

func (w *compressWriter) Write(data []byte) (int, error) {
	if w.compressed {
		return w.br.Write(data)
	}

	w.buf = append(w.buf, data...)
	if len(w.buf) < w.minLength {
		return len(data), nil
	}

	h := w.ResponseWriter.Header()
	if h.Get("Content-Encoding") != "" {
		// Already encoded by the handler; pass through.
		err := w.drain()
		return len(data), err
	}
	h.Set("Content-Encoding", "br")
	h.Del("Content-Length")
	w.compressed = true
	w.br = brotli.NewWriterLevel(w.ResponseWriter, w.quality)

	pending := w.buf
	w.buf = nil
	if _, err := w.br.Write(pending); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush sends whatever is buffered. Before compression started the buffer
// goes out as plain bytes.
func (w *compressWriter) Flush() {
	if w.compressed {
		_ = w.br.Flush()
	} else {
		_ = w.drain()
	}
	w.ResponseWriter.Flush()
}

func (w *compressWriter) drain() error {
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(w.buf)
	w.buf = w.buf[:0]
	return err
}

func (w *compressWriter) finish() error {
	if w.compressed {
		return w.br.Close()
	}
	return w.drain()
}

// Compression returns brotli middleware with DefaultCompressionConfig.
func Compression() gin.HandlerFunc {
	return CompressionWithConfig(DefaultCompressionConfig)
}

// CompressionWithConfig returns brotli middleware for clients that send
// Accept-Encoding: br.
func CompressionWithConfig(cfg CompressionConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultCompressionConfig.MinLength
	}

	return func(c *gin.Context) {
		if skipCompression(c, cfg.ExcludedPrefixes) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		cw := &compressWriter{
			ResponseWriter: c.Writer,
			quality:        cfg.Quality,
			minLength:      cfg.MinLength,
		}
		c.Writer = cw
		defer func() {
			if err := cw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

// skipCompression is true for WebSocket upgrades and excluded paths; the
// upgrade handshake fails on a wrapped writer.
func skipCompression(c *gin.Context, excluded []string) bool {
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	if c.Request.Method == http.MethodHead {
		return true
	}
	for _, prefix := range excluded {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		// Strip q-values such as "br;q=0.8".
		name := strings.TrimSpace(strings.SplitN(enc, ";", 2)[0])
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
