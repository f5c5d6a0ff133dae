package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	IdempotenceHeader = "x-idempotence"
	idempotencePrefix = "mood:idem:"
	idempotenceTTL    = 60 * time.Second

	idempotencePending = "0"
	idempotenceDone    = "1"
)

// Idempotence stops the same write from being applied twice within a minute,
// e.g. a double-tapped submit button. Requests are matched by the
// x-idempotence header or, failing that, by account, path and body.
func Idempotence(store ReservingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		storeKey := idempotencePrefix + key
		ctx := c.Request.Context()

		reserved, err := store.SetNX(ctx, storeKey, idempotencePending, idempotenceTTL)
		if err != nil {
			c.Next()
			return
		}
		if !reserved {
			msg := "the same request is still being processed"
			if val, _ := store.Get(ctx, storeKey); val == idempotenceDone {
				msg = "the same request already succeeded in the last 60 seconds"
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":      0,
				"code":    http.StatusConflict,
				"message": msg,
			})
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			_ = store.Set(ctx, storeKey, idempotenceDone, idempotenceTTL)
		} else {
			_ = store.Del(ctx, storeKey)
		}
	}
}

// resolveIdempotenceKey returns the idempotence key for the current request.
func resolveIdempotenceKey(c *gin.Context) (string, error) {
	account := CurrentAccountID(c)
	if hdr := c.GetHeader(IdempotenceHeader); hdr != "" {
		return account + ":" + hdr, nil
	}

	var body []byte
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		body = raw
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	}
	if len(body) == 0 && account == "" {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + account
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
