package main

import (
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateTokenHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"staff", `{"username":"admin","password":"` + testPassword + `"}`, http.StatusOK},
		{"wrong password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost","password":"` + testPassword + `"}`, http.StatusUnauthorized},
		{"non staff", `{"username":"fan","password":"` + testPassword + `"}`, http.StatusForbidden},
		{"inactive staff", `{"username":"retired","password":"` + testPassword + `"}`, http.StatusForbidden},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest},
		{"bad username", `{"username":"ad min","password":"x"}`, http.StatusBadRequest},
		{"unknown field", `{"username":"admin","password":"x","remember":true}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApplication(t)
			rr := app.serve(postJSON("/v1/authentication/token", tt.body))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data TokenResponse `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Data.AccessToken == "" || resp.Data.RefreshToken == "" {
				t.Error("expected both tokens")
			}
			if resp.Data.Role != "staff" || resp.Data.OperatorID != "1" {
				t.Errorf("response = %+v", resp.Data)
			}
			if app.staff.loginCount(1) != 1 {
				t.Error("last login not recorded")
			}
		})
	}
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)

	_, staffRefresh, err := app.authenticator.GenerateTokens(1, "staff")
	if err != nil {
		t.Fatal(err)
	}
	_, fanRefresh, err := app.authenticator.GenerateTokens(2, "user")
	if err != nil {
		t.Fatal(err)
	}
	staffAccess := app.accessTokenFor(t, 1)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"valid", staffRefresh, http.StatusOK},
		{"access token is not a refresh token", staffAccess, http.StatusUnauthorized},
		{"garbage", "abc.def.ghi", http.StatusUnauthorized},
		{"non staff", fanRefresh, http.StatusForbidden},
		{"empty", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.serve(postJSON("/v1/authentication/refresh", `{"refresh_token":"`+tt.token+`"}`))
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

var csrfFieldRx = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// loginSession fetches the login form and returns the csrf cookie and form token.
func loginSession(t *testing.T, app *testApp, next string) (*http.Cookie, string) {
	t.Helper()

	target := "/admin/login/"
	if next != "" {
		target += "?next=" + url.QueryEscape(next)
	}
	rr := app.serve(httptest.NewRequest(http.MethodGet, target, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("login form status = %d", rr.Code)
	}

	var csrfCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "csrftoken" {
			csrfCookie = c
		}
	}
	if csrfCookie == nil {
		t.Fatal("login form did not set the csrf cookie")
	}

	m := csrfFieldRx.FindStringSubmatch(rr.Body.String())
	if m == nil {
		t.Fatal("login form has no csrf field")
	}
	return csrfCookie, html.UnescapeString(m[1])
}

func postLogin(app *testApp, csrfCookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Referer", "http://example.com/admin/login/")
	if csrfCookie != nil {
		req.AddCookie(csrfCookie)
	}
	return app.serve(req)
}

func TestLoginPage(t *testing.T) {
	t.Parallel()

	t.Run("staff login redirects to next", func(t *testing.T) {
		t.Parallel()

		app := newTestApplication(t)
		cookie, token := loginSession(t, app, "/admin/league-dashboard/")

		rr := postLogin(app, cookie, url.Values{
			"csrf_token": {token},
			"username":   {"admin"},
			"password":   {testPassword},
			"next":       {"/admin/league-dashboard/"},
		})

		if rr.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusSeeOther, rr.Body.String())
		}
		if got := rr.Header().Get("Location"); got != "/admin/league-dashboard/" {
			t.Errorf("Location = %q", got)
		}

		var access *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == accessTokenCookie {
				access = c
			}
		}
		if access == nil || access.Value == "" || !access.HttpOnly {
			t.Fatalf("access cookie = %+v", access)
		}

		// The cookie opens the dashboard.
		req := httptest.NewRequest(http.MethodGet, "/admin/league-dashboard/", nil)
		req.AddCookie(access)
		if rr := app.serve(req); rr.Code != http.StatusOK {
			t.Errorf("dashboard status = %d", rr.Code)
		}
	})

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		t.Parallel()

		app := newTestApplication(t)
		cookie, token := loginSession(t, app, "")

		rr := postLogin(app, cookie, url.Values{
			"csrf_token": {token},
			"username":   {"admin"},
			"password":   {"wrong"},
		})

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
		}
		if !strings.Contains(rr.Body.String(), "Please enter the correct username and password") {
			t.Error("missing login error message")
		}
	})

	t.Run("non staff cannot log in", func(t *testing.T) {
		t.Parallel()

		app := newTestApplication(t)
		cookie, token := loginSession(t, app, "")

		rr := postLogin(app, cookie, url.Values{
			"csrf_token": {token},
			"username":   {"fan"},
			"password":   {testPassword},
		})

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("missing csrf token is rejected", func(t *testing.T) {
		t.Parallel()

		app := newTestApplication(t)

		rr := postLogin(app, nil, url.Values{
			"username": {"admin"},
			"password": {testPassword},
		})

		if rr.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
		}
		if app.staff.loginCount(1) != 0 {
			t.Error("login handler ran without a csrf token")
		}
	})
}

func TestSafeNext(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)

	tests := []struct {
		next string
		want string
	}{
		{"", "/admin/"},
		{"/admin/league-dashboard/", "/admin/league-dashboard/"},
		{"/admin", "/admin"},
		{"//evil.example.com/admin/", "/admin/"},
		{"https://evil.example.com/", "/admin/"},
		{"/v1/health", "/admin/"},
		{"/administrator", "/admin/"},
		{"/admin/\\evil", "/admin/"},
	}

	for _, tt := range tests {
		if got := app.safeNext(tt.next); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}
