package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/service"
)

func adminService(admin *mockAdmin, activity *mockActivity) *service.Service {
	return &service.Service{
		Authorization: &mockAuth{parseSub: "root"},
		Sessions:      authorizedAs("root", models.RoleAdmin),
		Admin:         admin,
		ActivityLog:   activity,
	}
}

func TestAdminRoutes_DeniedForViewer(t *testing.T) {
	activity := &mockActivity{}
	admin := &mockAdmin{}
	s := viewerService()
	s.Admin = admin
	s.ActivityLog = activity
	r := newTestRouter(s)

	for _, path := range []string{"/api/v1/admin/metrics", "/api/v1/admin/users", "/api/v1/admin/activity"} {
		w := doRequest(r, http.MethodGet, path, "")
		if w.Code != http.StatusForbidden {
			t.Fatalf("%s: status=%d body=%s", path, w.Code, w.Body.String())
		}
		var out struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if out.Error != "access denied" || out.Message == "" {
			t.Fatalf("%s: unexpected body %s", path, w.Body.String())
		}
	}
	if len(activity.recorded) != 3 {
		t.Fatalf("expected 3 access-denied events, got %d", len(activity.recorded))
	}
	if admin.lastWindow != "" {
		t.Fatalf("admin service must not be reached")
	}
}

func TestAdminMetrics(t *testing.T) {
	acc := 85.0
	admin := &mockAdmin{metrics: service.AdminMetrics{Window: service.Window24h, TotalUsers: 4, ModelAccuracy: &acc}}
	r := newTestRouter(adminService(admin, &mockActivity{}))

	w := doRequest(r, http.MethodGet, "/api/v1/admin/metrics?window=24h", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var m service.AdminMetrics
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m.TotalUsers != 4 || m.ModelAccuracy == nil || *m.ModelAccuracy != 85 || admin.lastWindow != service.Window24h {
		t.Fatalf("unexpected metrics %s", w.Body.String())
	}

	doRequest(r, http.MethodGet, "/api/v1/admin/metrics", "")
	if admin.lastWindow != service.Window7d {
		t.Fatalf("default window = %q", admin.lastWindow)
	}
}

func TestAdminHandlers_Errors(t *testing.T) {
	cases := []struct {
		name     string
		method   string
		path     string
		body     string
		admin    *mockAdmin
		wantCode int
	}{
		{name: "metrics unavailable", method: http.MethodGet, path: "/api/v1/admin/metrics", admin: &mockAdmin{metricsErr: service.ErrAdminUnavailable}, wantCode: http.StatusServiceUnavailable},
		{name: "metrics bad window", method: http.MethodGet, path: "/api/v1/admin/metrics?window=1y", admin: &mockAdmin{metricsErr: &service.ValidationError{Field: "window", Message: "unknown window"}}, wantCode: http.StatusBadRequest},
		{name: "list users failed", method: http.MethodGet, path: "/api/v1/admin/users", admin: &mockAdmin{usersErr: errors.New("boom")}, wantCode: http.StatusBadGateway},
		{name: "create user rejected", method: http.MethodPost, path: "/api/v1/admin/users", body: `{"email":"a@b.io","password":"secret1"}`, admin: &mockAdmin{createErr: &service.AuthError{Message: "User already registered"}}, wantCode: http.StatusBadRequest},
		{name: "create user bad body", method: http.MethodPost, path: "/api/v1/admin/users", body: `{}`, admin: &mockAdmin{}, wantCode: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(adminService(tc.admin, &mockActivity{}))
			w := doRequest(r, tc.method, tc.path, tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestAdminUsers(t *testing.T) {
	admin := &mockAdmin{
		users:   []models.Identity{{ID: "a", Role: models.RoleAdmin}, {ID: "b", Role: models.RoleViewer}},
		created: &models.Identity{ID: "c", Email: "c@b.io", Role: models.RoleViewer},
	}
	r := newTestRouter(adminService(admin, &mockActivity{}))

	w := doRequest(r, http.MethodGet, "/api/v1/admin/users", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var list struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 2 {
		t.Fatalf("count=%d", list.Count)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/admin/users", `{"email":"c@b.io","password":"secret1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGetActivity_ParsesFilters(t *testing.T) {
	activity := &mockActivity{resp: []models.ActivityEvent{{EventID: "e1", Type: models.ActivitySignIn}}}
	r := newTestRouter(adminService(&mockAdmin{}, activity))

	w := doRequest(r, http.MethodGet, "/api/v1/admin/activity?from=2025-08-01&to=2025-08-31&type=sign_in&limit=20", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 1 {
		t.Fatalf("count=%d", out.Count)
	}

	wantFrom := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !activity.last.From.Equal(wantFrom) || !activity.last.To.Equal(wantTo) {
		t.Fatalf("range = %v..%v", activity.last.From, activity.last.To)
	}
	if activity.last.Type != "sign_in" || activity.last.Limit != 20 {
		t.Fatalf("filter = %+v", activity.last)
	}
}

func TestGetActivity_Errors(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		err      error
		wantCode int
	}{
		{name: "bad from", query: "?from=yesterday", wantCode: http.StatusBadRequest},
		{name: "bad to", query: "?to=2025-13-01", wantCode: http.StatusBadRequest},
		{name: "bad limit", query: "?limit=-1", wantCode: http.StatusBadRequest},
		{name: "rejected filter", query: "?type=BOGUS", err: &service.ValidationError{Field: "type", Message: "unknown event type"}, wantCode: http.StatusBadRequest},
		{name: "store failure", query: "", err: errors.New("db locked"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(adminService(&mockAdmin{}, &mockActivity{err: tc.err}))
			w := doRequest(r, http.MethodGet, "/api/v1/admin/activity"+tc.query, "")
			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}
