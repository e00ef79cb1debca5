package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Conceptual-Machines/magda-patterns/internal/config"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/whoami", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role, "request_id": c.GetString("request_id")})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestGatewayAuth(t *testing.T) {
	router := newTestRouter(Auth(&config.Config{AuthMode: "gateway"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "42")
	req.Header.Set("X-User-Role", "beta")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"42","role":"beta","request_id":""}`, w.Body.String())
}

func TestSentryUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GatewayAuth())

	var user sentry.User
	router.GET("/whoami", func(c *gin.Context) {
		user = sentryUser(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "42")
	req.Header.Set("X-User-Email", "ada@example.com")
	req.Header.Set("X-User-Role", "beta")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, map[string]string{"role": "beta"}, user.Data)
}

func TestNoAuth(t *testing.T) {
	router := newTestRouter(Auth(&config.Config{AuthMode: "none"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"anonymous"`)
}

func TestRequestTracking(t *testing.T) {
	router := newTestRouter(RequestTracking(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	generated := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", id)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))

	// Non-uuid ids are replaced
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", "not a uuid")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid", w.Header().Get("X-Request-ID"))
}

func TestRecoverWithSentry(t *testing.T) {
	router := newTestRouter(RequestTracking(nil), RecoverWithSentry())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestCORS(t *testing.T) {
	router := newTestRouter(CORS())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/whoami", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
