package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddlewareRedactsPasswords(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var out bytes.Buffer
	logger := NewDiscardLogger()
	logger.SetOutput(&out)

	router := gin.New()
	router.Use(logger.LoggingMiddleWare())
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	body := `{"email":"ana@evs.ao","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, out.String(), "hunter22")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "/api/v1/auth/login", entry["path"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	request := entry["request"].(map[string]interface{})
	assert.Equal(t, "****", request["password"])
	assert.Equal(t, "ana@evs.ao", request["email"])
}
