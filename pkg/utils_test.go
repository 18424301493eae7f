package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/todos/1", nil)
	c.Request.RemoteAddr = "10.0.0.9:4321"

	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}

	return c
}

func TestGetClientIP(t *testing.T) {
	assert.Equal(t, "1.2.3.4", GetClientIP(newContext(map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"})))
	assert.Equal(t, "9.9.9.9", GetClientIP(newContext(map[string]string{"X-Real-IP": "9.9.9.9"})))
	assert.Equal(t, "10.0.0.9", GetClientIP(newContext(nil)))
}
