package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLeagueDashboardPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		operatorID   int64
		cookie       string
		wantStatus   int
		wantLocation string
		wantQueries  bool
	}{
		{
			name:         "anonymous is sent to login",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/admin/login/?next=%2Fadmin%2Fleague-dashboard%2F",
		},
		{
			name:         "garbage token is sent to login",
			cookie:       "not-a-jwt",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/admin/login/?next=%2Fadmin%2Fleague-dashboard%2F",
		},
		{
			name:       "non staff is forbidden",
			operatorID: 2,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "inactive staff is forbidden",
			operatorID: 3,
			wantStatus: http.StatusForbidden,
		},
		{
			name:        "staff sees the report",
			operatorID:  1,
			wantStatus:  http.StatusOK,
			wantQueries: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApplication(t)

			req := httptest.NewRequest(http.MethodGet, "/admin/league-dashboard/", nil)
			switch {
			case tt.operatorID != 0:
				req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: app.accessTokenFor(t, tt.operatorID)})
			case tt.cookie != "":
				req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: tt.cookie})
			}

			rr := app.serve(req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := rr.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
			}

			calls := app.stats.calls.Load()
			if tt.wantQueries && calls == 0 {
				t.Error("expected report queries to run")
			}
			if !tt.wantQueries && calls != 0 {
				t.Errorf("report queries ran %d times for a rejected request", calls)
			}
		})
	}
}

func TestLeagueDashboardPageContent(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/league-dashboard", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: app.accessTokenFor(t, 1)})
	rr := app.serve(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rr.Body.String()
	for _, want := range []string{"League dashboard", "Dynamos", "Rufaro Stadium", "2024-03", "admin"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAdminIndex(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: app.accessTokenFor(t, 1)})
	rr := app.serve(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `href="/admin/league-dashboard/"`) {
		t.Error("index does not link the league dashboard")
	}
	if app.stats.calls.Load() != 0 {
		t.Error("index page should not query league tables")
	}
}

func TestLeagueDashboardJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		operatorID int64
		wantStatus int
	}{
		{"no token", 0, http.StatusUnauthorized},
		{"non staff", 2, http.StatusForbidden},
		{"staff", 1, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApplication(t)

			req := httptest.NewRequest(http.MethodGet, "/v1/superadmin/league-dashboard", nil)
			if tt.operatorID != 0 {
				req.Header.Set("Authorization", "Bearer "+app.accessTokenFor(t, tt.operatorID))
			}
			rr := app.serve(req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if app.stats.calls.Load() != 0 {
					t.Error("report queries ran for a rejected request")
				}
				return
			}

			var resp struct {
				Data struct {
					TeamCount    int64 `json:"team_count"`
					MatchCount   int64 `json:"match_count"`
					GoalsPerTeam struct {
						Labels []string `json:"labels"`
						Values []int64  `json:"values"`
					} `json:"goals_per_team"`
				} `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Data.TeamCount != 2 || resp.Data.MatchCount != 2 {
				t.Errorf("counts = %+v", resp.Data)
			}
			if len(resp.Data.GoalsPerTeam.Labels) == 0 || resp.Data.GoalsPerTeam.Labels[0] != "Dynamos" {
				t.Errorf("goals labels = %v", resp.Data.GoalsPerTeam.Labels)
			}
		})
	}
}

func TestLeagueDashboardJSONTopN(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/superadmin/league-dashboard?top_n=1", nil)
	req.Header.Set("Authorization", "Bearer "+app.accessTokenFor(t, 1))
	rr := app.serve(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Data struct {
			GoalsPerTeam struct {
				Labels []string `json:"labels"`
			} `json:"goals_per_team"`
			Standings struct {
				Labels []string `json:"labels"`
			} `json:"standings"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := resp.Data.GoalsPerTeam.Labels; len(got) != 1 || got[0] != "Dynamos" {
		t.Errorf("goals labels = %v, want [Dynamos]", got)
	}
	if got := resp.Data.Standings.Labels; len(got) != 1 {
		t.Errorf("standings labels = %v, want one entry", got)
	}
	if app.builder.TopN() != 10 {
		t.Errorf("shared builder changed to top %d", app.builder.TopN())
	}
}
