package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository/gateway"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	chain := []gin.HandlerFunc{h.requestID, h.sessionMiddleware}
	if role != "" {
		chain = append(chain, h.requireRole(role))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "userId": userID(c), "token": accessToken(c)})
	})
	r.GET("/secure", chain...)
	return r
}

func TestSessionMiddleware_Errors(t *testing.T) {
	type want struct {
		code   int
		errMsg string
	}
	cases := []struct {
		name     string
		header   string
		parseErr error
		sessions *mockSessions
		want     want
	}{
		{
			name:   "missing header",
			header: "",
			want:   want{code: http.StatusUnauthorized, errMsg: "missing Authorization header"},
		},
		{
			name:   "invalid scheme",
			header: "Token abc",
			want:   want{code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		},
		{
			name:   "bearer without token",
			header: "Bearer",
			want:   want{code: http.StatusUnauthorized, errMsg: "invalid Authorization header format"},
		},
		{
			name:     "expired/invalid token",
			header:   "Bearer expired",
			parseErr: service.ErrTokenExpired,
			want:     want{code: http.StatusUnauthorized, errMsg: "invalid or expired token"},
		},
		{
			name:     "gateway does not know the session",
			header:   "Bearer revoked",
			sessions: &mockSessions{res: service.Resolution{State: service.StateUnauthenticated}},
			want:     want{code: http.StatusUnauthorized, errMsg: "not signed in"},
		},
		{
			name:     "gateway unreachable keeps the session",
			header:   "Bearer good",
			sessions: &mockSessions{res: service.Resolution{State: service.StateUnauthenticated}, err: errors.New("dial tcp: connection refused")},
			want:     want{code: http.StatusServiceUnavailable, errMsg: errSessionUnverified},
		},
		{
			name:     "circuit open keeps the session",
			header:   "Bearer good",
			sessions: &mockSessions{res: service.Resolution{State: service.StateUnauthenticated}, err: fmt.Errorf("read current identity: %w", gateway.ErrCircuitOpen)},
			want:     want{code: http.StatusServiceUnavailable, errMsg: errSessionUnverified},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := tc.sessions
			if sessions == nil {
				sessions = authorizedAs("u1", models.RoleViewer)
			}
			s := &service.Service{Authorization: &mockAuth{parseSub: "u1", parseErr: tc.parseErr}, Sessions: sessions}
			r := newMiddlewareOnlyRouter(s, "")

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.want.code {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.want.code, w.Body.String())
			}

			var out struct {
				Error    string `json:"error"`
				Redirect string `json:"redirect"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.want.errMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.want.errMsg)
			}
			wantRedirect := ""
			if tc.want.code == http.StatusUnauthorized {
				wantRedirect = signInPath
			}
			if out.Redirect != wantRedirect {
				t.Fatalf("redirect: got %q, want %q", out.Redirect, wantRedirect)
			}
		})
	}
}

func TestSessionMiddleware_SuccessSetsUserIDAndProceeds(t *testing.T) {
	auth := &mockAuth{parseSub: "u-123"}
	s := &service.Service{Authorization: auth, Sessions: authorizedAs("u-123", models.RoleViewer)}
	r := newMiddlewareOnlyRouter(s, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		OK     bool   `json:"ok"`
		UserID string `json:"userId"`
		Token  string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.UserID != "u-123" || resp.Token != "good-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "good-token")
	}
}

func TestSessionMiddleware_QueryTokenFallback(t *testing.T) {
	auth := &mockAuth{parseSub: "u1"}
	s := &service.Service{Authorization: auth, Sessions: authorizedAs("u1", models.RoleViewer)}
	r := newMiddlewareOnlyRouter(s, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure?access_token=qtok", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastParseToken != "qtok" {
		t.Fatalf("ParseToken got %q", auth.lastParseToken)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name         string
		role         string
		required     string
		fallback     bool
		wantCode     int
		wantLocation string
		wantRecorded bool
	}{
		{name: "admin on admin route", role: models.RoleAdmin, required: models.RoleAdmin, wantCode: http.StatusOK},
		{name: "viewer on admin route", role: models.RoleViewer, required: models.RoleAdmin, wantCode: http.StatusForbidden, wantRecorded: true},
		{name: "missing role row on admin route", role: models.RoleViewer, fallback: true, required: models.RoleAdmin, wantCode: http.StatusForbidden, wantRecorded: true},
		{name: "admin on viewer route", role: models.RoleAdmin, required: models.RoleViewer, wantCode: http.StatusSeeOther, wantLocation: landingPath},
		{name: "viewer on viewer route", role: models.RoleViewer, required: models.RoleViewer, wantCode: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := authorizedAs("u1", tc.role)
			sessions.res.Fallback = tc.fallback
			activity := &mockActivity{}
			s := &service.Service{Authorization: &mockAuth{parseSub: "u1"}, Sessions: sessions, ActivityLog: activity}
			r := newMiddlewareOnlyRouter(s, tc.required)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			req.Header = authHeader("tok")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if loc := w.Header().Get("Location"); loc != tc.wantLocation {
				t.Fatalf("location: got %q, want %q", loc, tc.wantLocation)
			}
			if got := len(activity.recorded) == 1; got != tc.wantRecorded {
				t.Fatalf("recorded events: %+v", activity.recorded)
			}
			if tc.wantRecorded {
				ev := activity.recorded[0]
				if ev.Type != models.ActivityAccessDenied || ev.UserID != "u1" {
					t.Fatalf("unexpected event %+v", ev)
				}
			}
		})
	}
}

func TestRequestID_EchoesOrAssigns(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}
