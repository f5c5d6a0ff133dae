package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestOK_WrapsSlices(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, []string{"Joy", "Calm"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{"Joy", "Calm"}, body["data"])
}

func TestOK_PlainObject(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"version": "2025.1"})

	body := decode(t, w)
	assert.Equal(t, "2025.1", body["version"])
	assert.NotContains(t, body, "data")
}

func TestErrorEnvelope(t *testing.T) {
	tests := map[string]struct {
		send   func(c *gin.Context)
		status int
	}{
		"bad request":  {func(c *gin.Context) { BadRequest(c, "bad") }, http.StatusBadRequest},
		"unauthorized": {func(c *gin.Context) { Unauthorized(c) }, http.StatusUnauthorized},
		"forbidden":    {func(c *gin.Context) { ForbiddenMsg(c, "no") }, http.StatusForbidden},
		"not found":    {func(c *gin.Context) { NotFound(c) }, http.StatusNotFound},
		"conflict":     {func(c *gin.Context) { Conflict(c, "dup") }, http.StatusConflict},
		"internal":     {func(c *gin.Context) { InternalError(c, errors.New("boom")) }, http.StatusInternalServerError},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.send(c)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())
			body := decode(t, w)
			assert.Equal(t, float64(0), body["ok"])
			assert.Equal(t, float64(tt.status), body["code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorWith_ReservedKeysWin(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorWith(c, http.StatusForbidden, "locked", gin.H{"tier": "year", "code": 999})

	body := decode(t, w)
	assert.Equal(t, "year", body["tier"])
	assert.Equal(t, float64(http.StatusForbidden), body["code"])
	assert.Equal(t, "locked", body["message"])
}
