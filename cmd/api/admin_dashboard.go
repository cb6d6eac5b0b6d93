package main

import (
	"context"
	"net/http"
	"time"

	"zifa/internal/adminsite"
	"zifa/internal/dashboard"
	"zifa/internal/domain/leaguestats"
	"zifa/internal/params"
	"zifa/internal/web"
)

const (
	indexRoute     = "index"
	loginRoute     = "login"
	logoutRoute    = "logout"
	dashboardRoute = "league-dashboard"

	reportTimeout = 12 * time.Second
)

// registerAdminRoutes fills the admin route table. It runs once at bootstrap; running it again
// fails with adminsite.ErrDuplicateRoute instead of adding a second copy of each page.
func (app *application) registerAdminRoutes() error {
	routes := []adminsite.Route{
		{
			Path:    "/",
			Name:    indexRoute,
			Handler: http.HandlerFunc(app.adminIndexHandler),
		},
		{
			Path:    "/login/",
			Name:    loginRoute,
			Methods: []string{http.MethodGet, http.MethodPost},
			Public:  true,
			Handler: app.RateLimiterMiddleware(http.HandlerFunc(app.loginPageHandler)),
		},
		{
			Path:    "/logout/",
			Name:    logoutRoute,
			Methods: []string{http.MethodPost},
			Public:  true,
			Handler: http.HandlerFunc(app.logoutPageHandler),
		},
		{
			Path:    "/league-dashboard/",
			Name:    dashboardRoute,
			Title:   "League dashboard",
			Handler: http.HandlerFunc(app.leagueDashboardPageHandler),
		},
	}

	for _, rt := range routes {
		if err := app.admin.Register(rt); err != nil {
			return err
		}
	}
	return nil
}

func (app *application) adminIndexHandler(w http.ResponseWriter, r *http.Request) {
	data := app.newPageData(r, "Site administration")
	for _, rt := range app.admin.Linked() {
		data.Links = append(data.Links, web.Link{Title: rt.Title, URL: app.admin.Prefix() + rt.Path})
	}
	app.renderPage(w, r, http.StatusOK, "index.html", data)
}

// buildReport runs every dashboard query inside one read-only snapshot.
func (app *application) buildReport(ctx context.Context, builder *dashboard.Builder) (*dashboard.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	var report *dashboard.Report
	err := app.store.WithReportTx(ctx, func(s leaguestats.Store) error {
		var err error
		report, err = builder.Build(ctx, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (app *application) leagueDashboardPageHandler(w http.ResponseWriter, r *http.Request) {
	report, err := app.buildReport(r.Context(), app.builder)
	if err != nil {
		app.internalServerErrorPage(w, r, err)
		return
	}

	data := app.newPageData(r, "League dashboard")
	data.Report = report.TemplateData()
	app.renderPage(w, r, http.StatusOK, "league_dashboard.html", data)
}

// leagueDashboardHandler godoc
//
//	@Summary		League dashboard report
//	@Description	Entity counts and the chart series shown on the admin league dashboard
//	@Tags			superadmin
//	@Produce		json
//	@Param			top_n	query		int	false	"Rows per ranked series (1-50)"
//	@Success		200		{object}	dashboard.Report
//	@Failure		401		{object}	error
//	@Failure		403		{object}	error
//	@Failure		500		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/superadmin/league-dashboard [get]
func (app *application) leagueDashboardHandler(w http.ResponseWriter, r *http.Request) {
	q := params.ParseReport(r.URL.Query(), app.builder.TopN())

	report, err := app.buildReport(r.Context(), app.builder.WithTopN(q.TopN))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, report); err != nil {
		app.internalServerError(w, r, err)
	}
}
