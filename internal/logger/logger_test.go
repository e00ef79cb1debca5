package logger

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, "{a=x, b=2, c=1.50}", formatFields(Fields{"c": 1.5, "a": "x", "b": 2}))
}

func TestWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/clips/compile", nil)
	c.Set("request_id", "req-1")
	c.Set("user_id", "u-1")

	fields := WithContext(c)
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/v1/clips/compile", fields["path"])
	assert.Equal(t, "u-1", fields["user_id"])
}

func TestLoggingWithoutSentry(t *testing.T) {
	// No Sentry client is configured, so these only write to the log
	assert.NotPanics(t, func() {
		Info("info", Fields{"k": "v"})
		Warn("warn", nil)
		Debug("debug", Fields{})
		Error("error", errors.New("boom"), Fields{"kind": "unknown_chord"})
		LogCompile(context.Background(), "clip", 3*time.Millisecond, 4, nil)
	})
}
