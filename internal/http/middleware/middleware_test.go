package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type fakeAuthService struct {
	services.AuthService
	tokens map[string]uuid.UUID
}

func (f *fakeAuthService) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	id, ok := f.tokens[token]
	if !ok {
		return ctx, errors.New("invalid or expired token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: id}), nil
}

func newAuthRouter(t *testing.T, tokens map[string]uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.NewNop(), &fakeAuthService{tokens: tokens})
	r := gin.New()
	r.GET("/progress/me", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})
	return r
}

func TestRequireAuthTokenSources(t *testing.T) {
	userID := uuid.New()
	r := newAuthRouter(t, map[string]uuid.UUID{"good": userID, "nil-user": uuid.Nil})

	cases := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{name: "missing", setup: func(*http.Request) {}, status: http.StatusUnauthorized},
		{name: "bearer", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") }, status: http.StatusOK},
		{name: "cookie", setup: func(req *http.Request) { req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good"}) }, status: http.StatusOK},
		{name: "query", setup: func(req *http.Request) { req.URL.RawQuery = "token=good" }, status: http.StatusOK},
		{name: "bad token", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "no user", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer nil-user") }, status: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/progress/me", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: want=%d got=%d body=%s", tc.status, rec.Code, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Body.String() != userID.String() {
				t.Fatalf("user id: want=%s got=%s", userID, rec.Body.String())
			}
			if tc.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"code":"unauthorized"`) {
				t.Fatalf("body: got=%s", rec.Body.String())
			}
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/healthcheck", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(headerRequestID, "req-123")
	req.Header.Set(headerTraceID, strings.Repeat("x", maxIDLen+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get(headerRequestID) != "req-123" {
		t.Fatalf("request id: want=req-123 got=%q", rec.Header().Get(headerRequestID))
	}
	traceID := rec.Header().Get(headerTraceID)
	if traceID == "" || len(traceID) > maxIDLen {
		t.Fatalf("trace id: want generated id got=%q", traceID)
	}
	if seen == nil || seen.TraceID != traceID || seen.RequestID != "req-123" {
		t.Fatalf("trace data: got %+v", seen)
	}
}
