package main

import (
	"context"
	"net/http"
	"time"
)

// healthCheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Healthcheck endpoint
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string	"ok"
//	@Failure		503	{object}	error
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := app.store.Ping(ctx); err != nil {
		app.logger.Errorw("database ping failed", "error", err.Error())
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	data := map[string]string{
		"status":  status,
		"env":     app.config.env,
		"version": version,
	}

	if err := app.jsonResponse(w, code, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
