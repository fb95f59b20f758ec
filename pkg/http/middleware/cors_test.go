package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins:  []string{"https://app.example"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"X-Session-ID"},
		ExposeHeaders: []string{"X-Cache"},
	}))
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantMethod string
	}{
		{"allowed simple request", http.MethodGet, "https://app.example", http.StatusOK, "https://app.example", ""},
		{"preflight", http.MethodOptions, "https://app.example", http.StatusNoContent, "https://app.example", "GET, POST"},
		{"foreign origin", http.MethodGet, "https://evil.example", http.StatusOK, "", ""},
		{"no origin", http.MethodGet, "", http.StatusOK, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			assert.Equal(t, tt.wantMethod, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
			if tt.wantOrigin != "" {
				assert.Equal(t, "X-Cache", rec.Header().Get(echo.HeaderAccessControlExposeHeaders))
			}
		})
	}
}
