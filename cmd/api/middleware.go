package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"zifa/internal/auth"
	"zifa/internal/domain/staff"

	"github.com/justinas/nosurf"
)

type operatorKey string

const operatorCtx operatorKey = "operator"

var (
	errMissingCredentials = errors.New("no access token on request")
	errInvalidCredentials = errors.New("invalid access token")
)

// BasicAuthMiddleware guards the ops endpoints (health, expvar) with the AUTH_BASIC_* pair.
func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing or malformed"))
				return
			}

			wantUser := app.config.auth.basic.user
			wantPass := app.config.auth.basic.pass
			if wantUser == "" || wantPass == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("basic auth is not configured"))
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) == 1
			if !userMatch || !passMatch {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// accessToken reads the bearer token, falling back to the access_token cookie set by the login page.
func accessToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", fmt.Errorf("%w: authorization header is malformed", errInvalidCredentials)
		}
		return parts[1], nil
	}

	c, err := r.Cookie(accessTokenCookie)
	if err != nil || c.Value == "" {
		return "", errMissingCredentials
	}
	return c.Value, nil
}

// operatorFromRequest resolves the signed-in operator. Missing or bad credentials come back as
// errMissingCredentials / errInvalidCredentials; anything else is a storage failure.
func (app *application) operatorFromRequest(r *http.Request) (*staff.Operator, error) {
	token, err := accessToken(r)
	if err != nil {
		return nil, err
	}

	jwtToken, err := app.authenticator.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidCredentials, err)
	}

	operatorID, _, err := auth.Subject(jwtToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidCredentials, err)
	}

	op, err := app.store.Staff.GetByID(r.Context(), operatorID)
	if err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", errInvalidCredentials, err)
		}
		return nil, err
	}
	return op, nil
}

func isCredentialError(err error) bool {
	return errors.Is(err, errMissingCredentials) || errors.Is(err, errInvalidCredentials)
}

func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, err := app.operatorFromRequest(r)
		if err != nil {
			if isCredentialError(err) {
				app.unauthorizedErrorResponse(w, r, err)
				return
			}
			app.internalServerError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), operatorCtx, op)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff rejects API callers whose account is inactive or lacks the staff flag.
func (app *application) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := getOperatorFromContext(r)
		if op == nil || !op.CanViewAdmin() {
			app.forbiddenResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaffPage guards admin pages. Anonymous visitors are sent to the login page with a
// next parameter; signed-in non-staff get a 403 page. Handlers behind it only run for staff.
func (app *application) RequireStaffPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, err := app.operatorFromRequest(r)
		if err != nil {
			if isCredentialError(err) {
				if !errors.Is(err, errMissingCredentials) {
					app.clearAuthCookies(w)
				}
				app.redirectToLogin(w, r)
				return
			}
			app.internalServerErrorPage(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), operatorCtx, op)
		r = r.WithContext(ctx)

		if !op.CanViewAdmin() {
			app.forbiddenPage(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	loginURL, ok := app.admin.URL(loginRoute)
	if !ok {
		loginURL = app.admin.Prefix() + "/login/"
	}
	target := loginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP drops the port so every connection from one address shares a window. RealIP has
// already replaced RemoteAddr when a proxy header is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// csrfMiddleware protects the admin forms with a double submit token.
func (app *application) csrfMiddleware(next http.Handler) http.Handler {
	h := nosurf.New(next)
	h.SetBaseCookie(http.Cookie{
		Name:     "csrftoken",
		Path:     app.admin.Prefix(),
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	// Origin checks compare against https unless told the request is plain http.
	h.SetIsTLSFunc(func(r *http.Request) bool {
		return r.TLS != nil || app.config.env == "production"
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Warnw("csrf check failed", "path", r.URL.Path, "reason", nosurf.Reason(r))
		app.renderError(w, r, http.StatusForbidden, "Forbidden", "CSRF verification failed. Request aborted.")
	}))
	return h
}

func getOperatorFromContext(r *http.Request) *staff.Operator {
	op, _ := r.Context().Value(operatorCtx).(*staff.Operator)
	return op
}
