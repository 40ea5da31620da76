package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weather_dashboard/internal/cities"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository/gateway"
	"weather_dashboard/internal/service"
)

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("tok") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func viewerService() *service.Service {
	return &service.Service{
		Authorization: &mockAuth{parseSub: "u1"},
		Sessions:      authorizedAs("u1", models.RoleViewer),
	}
}

func TestDashboardHandlers_Operations(t *testing.T) {
	dash := &mockDashboard{view: service.DashboardView{
		Filter:   models.DefaultFilter(),
		Readings: []models.EnrichedReading{{WeatherReading: models.WeatherReading{City: "Tokyo", Temperature: 20}}},
		LoadedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}}
	s := viewerService()
	s.Dashboard = dash
	r := newTestRouter(s)

	cases := []struct {
		method, path, body, op string
	}{
		{http.MethodGet, "/api/v1/dashboard", "", "get"},
		{http.MethodPut, "/api/v1/dashboard/filter", `{"selectedCities":["Tokyo"],"timeRangeType":"week"}`, "apply"},
		{http.MethodPost, "/api/v1/dashboard/refresh", "", "refresh"},
		{http.MethodPost, "/api/v1/dashboard/reset", "", "reset"},
	}
	for _, tc := range cases {
		w := doRequest(r, tc.method, tc.path, tc.body)
		if w.Code != http.StatusOK {
			t.Fatalf("%s %s status=%d body=%s", tc.method, tc.path, w.Code, w.Body.String())
		}
		if got := dash.calls[len(dash.calls)-1]; got != tc.op {
			t.Fatalf("%s %s called %q, want %q", tc.method, tc.path, got, tc.op)
		}
		var view service.DashboardView
		if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(view.Readings) != 1 || view.Readings[0].City != "Tokyo" {
			t.Fatalf("unexpected view %+v", view)
		}
	}
	if dash.lastUser != "u1" {
		t.Fatalf("dashboard keyed by %q", dash.lastUser)
	}
	if dash.lastFilter.TimeRangeType != models.RangeWeek || len(dash.lastFilter.SelectedCities) != 1 {
		t.Fatalf("filter not passed through: %+v", dash.lastFilter)
	}
}

func TestDashboardHandlers_Errors(t *testing.T) {
	cases := []struct {
		name     string
		view     service.DashboardView
		err      error
		wantCode int
		wantView bool
	}{
		{name: "validation", err: &service.ValidationError{Field: "timeRangeType", Message: "unknown time range"}, wantCode: http.StatusBadRequest},
		{name: "superseded", err: service.ErrSuperseded, wantCode: http.StatusConflict},
		{name: "circuit open", err: gateway.ErrCircuitOpen, wantCode: http.StatusServiceUnavailable},
		{name: "session expired upstream", err: &gateway.Error{Status: http.StatusUnauthorized, Message: "JWT expired"}, wantCode: http.StatusUnauthorized},
		{
			name:     "failed load keeps previous data",
			view:     service.DashboardView{Readings: []models.EnrichedReading{}, LastError: "boom"},
			err:      errors.New("boom"),
			wantCode: http.StatusBadGateway,
			wantView: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := viewerService()
			s.Dashboard = &mockDashboard{view: tc.view, err: tc.err}
			r := newTestRouter(s)

			w := doRequest(r, http.MethodPost, "/api/v1/dashboard/refresh", "")
			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			var out map[string]json.RawMessage
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if _, ok := out["view"]; ok != tc.wantView {
				t.Fatalf("view present=%v, want %v (body=%s)", ok, tc.wantView, w.Body.String())
			}
		})
	}
}

func TestApplyDashboardFilter_BadBody(t *testing.T) {
	s := viewerService()
	s.Dashboard = &mockDashboard{}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPut, "/api/v1/dashboard/filter", `{"selectedCities":"Tokyo"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListCities(t *testing.T) {
	s := viewerService()
	s.Cities = cities.Default()
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/cities", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		Count  int      `json:"count"`
		Cities []string `json:"cities"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count == 0 || out.Count != len(out.Cities) {
		t.Fatalf("unexpected cities %+v", out)
	}
}

func TestGetReadings(t *testing.T) {
	weather := &mockWeather{readings: []models.EnrichedReading{
		{WeatherReading: models.WeatherReading{City: "Tokyo", Temperature: 20, Humidity: 60}, Country: "Japan"},
		{WeatherReading: models.WeatherReading{City: "Lima", Temperature: 18, Humidity: 80}, Country: "Peru"},
	}}
	s := viewerService()
	s.Weather = weather
	r := newTestRouter(s)

	w := doRequest(r, http.MethodGet, "/api/v1/weather/readings?cities=Tokyo,%20Lima,&range=week", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := weather.lastFilter.SelectedCities; len(got) != 2 || got[0] != "Tokyo" || got[1] != "Lima" {
		t.Fatalf("cities = %v", got)
	}
	var out struct {
		Count int                 `json:"count"`
		Stats models.SummaryStats `json:"stats"`
		Chart models.ChartSeries  `json:"chart"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || out.Stats.TotalCities != 2 || out.Chart.Mode != models.ChartComparison {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/v1/weather/readings?start=2025-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	wantStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !weather.lastFilter.DateRange.Start.Equal(wantStart) || !weather.lastFilter.IsAll() {
		t.Fatalf("unexpected filter %+v", weather.lastFilter)
	}
}

func TestGetReadings_Errors(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		err      error
		wantCode int
	}{
		{name: "bad start", query: "?start=yesterday", wantCode: http.StatusBadRequest},
		{name: "unknown range", query: "?range=month", wantCode: http.StatusBadRequest},
		{name: "upstream failure", query: "", err: errors.New("page 3 failed"), wantCode: http.StatusBadGateway},
		{name: "rls denied", query: "", err: &gateway.Error{Status: http.StatusForbidden}, wantCode: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := viewerService()
			s.Weather = &mockWeather{err: tc.err}
			r := newTestRouter(s)

			w := doRequest(r, http.MethodGet, "/api/v1/weather/readings"+tc.query, "")
			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}
