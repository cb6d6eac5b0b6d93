package main

import (
	"errors"
	"net/http"
	"strings"

	"zifa/internal/web"

	"github.com/justinas/nosurf"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// setAuthCookies sets access + refresh tokens as HttpOnly cookies.
// Web browsers store/send these automatically; JS cannot read them (HttpOnly).
func (app *application) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	// Access token cookie (short lived)
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   app.config.env == "production", // must be true in production (HTTPS)
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.token.accessTokenExp.Seconds()),
	})

	// Refresh token cookie (long lived)
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/v1/authentication",
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(app.config.auth.token.refreshTokenExp.Seconds()),
	})
}

func (app *application) clearAuthCookies(w http.ResponseWriter) {
	expire := func(name, path string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			HttpOnly: true,
			Secure:   app.config.env == "production",
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}

	expire(accessTokenCookie, "/")
	expire(refreshTokenCookie, "/v1/authentication")
}

func (app *application) newPageData(r *http.Request, title string) *web.PageData {
	data := &web.PageData{
		Title:       title,
		SiteName:    app.config.admin.siteName,
		AdminPrefix: app.admin.Prefix(),
		CSRFToken:   nosurf.Token(r),
	}
	if op := getOperatorFromContext(r); op != nil {
		data.OperatorName = op.DisplayName()
	}
	return data
}

// safeNext keeps post-login redirects inside the admin site.
func (app *application) safeNext(next string) string {
	home := app.admin.Prefix() + "/"
	if next == "" || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return home
	}
	if next != app.admin.Prefix() && !strings.HasPrefix(next, home) {
		return home
	}
	return next
}

type loginForm struct {
	Username string `validate:"required,max=150,username"`
	Password string `validate:"required,max=128"`
}

const loginFailedMessage = "Please enter the correct username and password for a staff account. Note that both fields may be case-sensitive."

// loginPageHandler serves the admin login form and handles its submission.
func (app *application) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	data := app.newPageData(r, "Log in")
	data.Next = r.URL.Query().Get("next")

	if r.Method != http.MethodPost {
		app.renderPage(w, r, http.StatusOK, "login.html", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		data.Error = "The form could not be read."
		app.renderPage(w, r, http.StatusBadRequest, "login.html", data)
		return
	}
	if next := r.PostForm.Get("next"); next != "" {
		data.Next = next
	}

	form := loginForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	if err := Validate.Struct(form); err != nil {
		data.Error = loginFailedMessage
		app.renderPage(w, r, http.StatusUnauthorized, "login.html", data)
		return
	}

	op, err := app.authenticateOperator(r, form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidCredentials), errors.Is(err, errNotStaff):
			app.logger.Warnw("admin login failed", "username", form.Username, "error", err.Error())
			data.Error = loginFailedMessage
			app.renderPage(w, r, http.StatusUnauthorized, "login.html", data)
		default:
			app.internalServerErrorPage(w, r, err)
		}
		return
	}

	accessToken, refreshToken, err := app.authenticator.GenerateTokens(op.ID, op.Role())
	if err != nil {
		app.internalServerErrorPage(w, r, err)
		return
	}

	app.setAuthCookies(w, accessToken, refreshToken)
	app.logger.Infow("admin login", "operator_id", op.ID, "role", op.Role())

	http.Redirect(w, r, app.safeNext(data.Next), http.StatusSeeOther)
}

func (app *application) logoutPageHandler(w http.ResponseWriter, r *http.Request) {
	app.clearAuthCookies(w)

	loginURL, ok := app.admin.URL(loginRoute)
	if !ok {
		loginURL = app.admin.Prefix() + "/login/"
	}
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}
