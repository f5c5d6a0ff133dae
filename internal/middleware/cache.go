package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	ResponseCachePrefix     = "mood:resp:"
	CacheStatusHeader       = "x-mood-cache"
	defaultResponseCacheTTL = 5 * time.Minute
	defaultResponseMaxBody  = 1 << 20 // 1 MiB
)

// ResponseCacheOptions configures ResponseCache.
type ResponseCacheOptions struct {
	TTL          time.Duration
	Disable      bool
	MaxBodyBytes int
	// KeyFunc returns the cache key for a request, or false to bypass the cache.
	KeyFunc func(c *gin.Context) (string, bool)
	OnHit   func()
	OnMiss  func()
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	BodyBase64  string `json:"body_base64"`
	Body        []byte `json:"-"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body         []byte
	maxBodyBytes int
	overflow     bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.maxBodyBytes <= 0 || w.overflow || len(data) == 0 {
		return
	}
	remaining := w.maxBodyBytes - len(w.body)
	if remaining <= 0 {
		w.overflow = true
		return
	}
	if len(data) > remaining {
		w.body = append(w.body, data[:remaining]...)
		w.overflow = true
		return
	}
	w.body = append(w.body, data...)
}

func normalizeResponseCacheOptions(opts ResponseCacheOptions) ResponseCacheOptions {
	if opts.TTL <= 0 {
		opts.TTL = defaultResponseCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultResponseMaxBody
	}
	if opts.KeyFunc == nil {
		opts.KeyFunc = func(c *gin.Context) (string, bool) {
			return CurrentAccountID(c) + ":" + c.Request.URL.RequestURI(), true
		}
	}
	return opts
}

// ResponseCache stores successful GET responses in store and replays them
// until the TTL runs out. Responses are private to the caller, so the key
// should always carry the account.
func ResponseCache(store Store, opts ResponseCacheOptions) gin.HandlerFunc {
	options := normalizeResponseCacheOptions(opts)
	return func(c *gin.Context) {
		if options.Disable || store == nil || c.Request.Method != http.MethodGet || hasBypassTimestamp(c) {
			c.Next()
			return
		}

		key, ok := options.KeyFunc(c)
		if !ok || key == "" {
			c.Next()
			return
		}
		cacheKey := ResponseCachePrefix + key

		if payload, ok := readCachedResponse(c, store, cacheKey); ok {
			if options.OnHit != nil {
				options.OnHit()
			}
			setPrivateCacheHeader(c.Writer)
			c.Header(CacheStatusHeader, "hit")
			c.Data(payload.Status, payload.ContentType, payload.Body)
			c.Abort()
			return
		}
		if options.OnMiss != nil {
			options.OnMiss()
		}

		buffer := &cacheBodyWriter{
			ResponseWriter: c.Writer,
			maxBodyBytes:   options.MaxBodyBytes,
		}
		c.Writer = buffer
		setPrivateCacheHeader(c.Writer)
		c.Header(CacheStatusHeader, "miss")
		c.Next()

		status := c.Writer.Status()
		if status != http.StatusOK || buffer.overflow || len(buffer.body) == 0 {
			return
		}

		payload := cachedResponse{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			BodyBase64:  base64.StdEncoding.EncodeToString(buffer.body),
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return
		}
		if err := store.Set(c.Request.Context(), cacheKey, raw, options.TTL); err != nil {
			_ = c.Error(err)
		}
	}
}

func readCachedResponse(c *gin.Context, store Store, cacheKey string) (cachedResponse, bool) {
	raw, err := store.Get(c.Request.Context(), cacheKey)
	if err != nil || raw == "" {
		return cachedResponse{}, false
	}
	var payload cachedResponse
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return cachedResponse{}, false
	}
	if payload.Status <= 0 {
		payload.Status = http.StatusOK
	}
	if payload.ContentType == "" {
		payload.ContentType = "application/json; charset=utf-8"
	}
	body, err := base64.StdEncoding.DecodeString(payload.BodyBase64)
	if err != nil {
		return cachedResponse{}, false
	}
	payload.Body = body
	return payload, true
}

func hasBypassTimestamp(c *gin.Context) bool {
	query := c.Request.URL.Query()
	for _, key := range []string{"ts", "timestamp", "_t"} {
		if strings.TrimSpace(query.Get(key)) != "" {
			return true
		}
	}
	return false
}

func setPrivateCacheHeader(w gin.ResponseWriter) {
	w.Header().Set("cache-control", "private, max-age=0, no-cache")
}
