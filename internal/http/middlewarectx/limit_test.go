package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momconnect/backend/internal/http/middlewarectx"
)

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.RateLimitMiddleware(1, 2, makeLogger())(next)

	doRequest := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// burst=2: два запроса проходят, третий ограничен
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest("10.0.0.1:1234"))

	// квота считается отдельно для каждого адреса
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.2:1234"))
}
