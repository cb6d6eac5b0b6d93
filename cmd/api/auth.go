package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"zifa/internal/auth"
	"zifa/internal/domain/staff"
)

type CreateTokenPayload struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Password string `json:"password" validate:"required,max=128"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	OperatorID   string `json:"operator_id"`
	Role         string `json:"role"`
}

var errNotStaff = errors.New("account cannot use the admin")

// authenticateOperator checks username and password against auth_user. A wrong username and a
// wrong password are indistinguishable to the caller.
func (app *application) authenticateOperator(r *http.Request, username, password string) (*staff.Operator, error) {
	op, err := app.store.Staff.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", errInvalidCredentials, err)
		}
		return nil, err
	}

	if err := op.Password.Compare(password); err != nil {
		if errors.Is(err, staff.ErrUnsupportedPassword) {
			app.logger.Warnw("unsupported password hash", "operator_id", op.ID)
		}
		return nil, fmt.Errorf("%w: %v", errInvalidCredentials, err)
	}

	if !op.CanViewAdmin() {
		return op, errNotStaff
	}

	if err := app.store.Staff.UpdateLastLogin(r.Context(), op.ID); err != nil {
		app.logger.Warnw("could not update last login", "operator_id", op.ID, "error", err.Error())
	}
	return op, nil
}

// createTokenHandler godoc
//
//	@Summary		Creates a token pair for a staff operator
//	@Description	Checks the operator credentials and returns access and refresh tokens
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateTokenPayload	true	"Operator credentials"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Failure		403		{object}	error
//	@Failure		429		{object}	error
//	@Failure		500		{object}	error
//	@Router			/authentication/token [post]
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	op, err := app.authenticateOperator(r, payload.Username, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidCredentials):
			app.unauthorizedErrorResponse(w, r, err)
		case errors.Is(err, errNotStaff):
			app.forbiddenResponse(w, r)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.issueTokens(w, r, op)
}

type RefreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// refreshTokenHandler godoc
//
//	@Summary		Refresh authentication tokens
//	@Description	Validates the provided refresh token and issues new access and refresh tokens.
//	@Tags			authentication
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RefreshPayload	true	"Refresh token payload"
//	@Success		200		{object}	TokenResponse	"New access and refresh tokens"
//	@Failure		400		{object}	error			"Bad request"
//	@Failure		401		{object}	error			"Unauthorized"
//	@Failure		403		{object}	error			"Forbidden"
//	@Failure		500		{object}	error			"Internal server error"
//	@Router			/authentication/refresh [post]
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload RefreshPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.authenticator.ValidateRefreshToken(payload.RefreshToken)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid refresh token: %w", err))
		return
	}

	operatorID, _, err := auth.Subject(token)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	// Staff flags may have changed since the refresh token was issued.
	op, err := app.store.Staff.GetByID(r.Context(), operatorID)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrNotFound):
			app.unauthorizedErrorResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if !op.CanViewAdmin() {
		app.forbiddenResponse(w, r)
		return
	}

	app.issueTokens(w, r, op)
}

func (app *application) issueTokens(w http.ResponseWriter, r *http.Request, op *staff.Operator) {
	accessToken, refreshToken, err := app.authenticator.GenerateTokens(op.ID, op.Role())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		OperatorID:   strconv.FormatInt(op.ID, 10),
		Role:         op.Role(),
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
