package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Gin(GinConfig{Module: logging.Module("test"), TracerName: "test"}))
	r.Use(PanicRecoveryGin())
	r.GET("/x", h)
	return r
}

func TestGinPropagatesRequestID(t *testing.T) {
	var seen string
	r := newRouter(func(c *gin.Context) {
		seen = logging.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("x-request-id", id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != id {
		t.Errorf("request id in context = %q, want %q", seen, id)
	}
	if got := w.Header().Get("x-request-id"); got != id {
		t.Errorf("response x-request-id = %q, want %q", got, id)
	}
}

func TestGinGeneratesRequestID(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if _, err := uuid.Parse(w.Header().Get("x-request-id")); err != nil {
		t.Errorf("generated x-request-id is not a uuid: %v", err)
	}
}

func TestPanicRecovery(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
