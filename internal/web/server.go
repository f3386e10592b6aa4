// Package web serves the landing side of preprints over HTTP as JSON.
package web

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aalvaropc/preprints/internal/ports"
	"github.com/aalvaropc/preprints/internal/usecase"
)

// Deps are the services behind the HTTP routes.
type Deps struct {
	Landing  *usecase.Landing
	Taxonomy ports.TaxonomyProvider
	PageSize int
	Log      *slog.Logger
}

// BuildServer wires routes and middleware. It does not start listening.
func BuildServer(deps Deps, loglevel string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	SetLevel(e, loglevel)

	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(err, c)
		log.Warn("web.request.failed", "method", c.Request().Method, "path", c.Request().URL.Path, "err", err)
	}

	e.Use(middleware.Recover())
	e.Use(LogHandlerFunc)

	e.GET("/", IndexHandler(deps.Landing))
	e.GET("/api/subjects", SubjectsHandler(deps.Taxonomy, deps.PageSize))
	e.GET("/api/search", SearchHandler(deps.Landing))
	e.POST("/api/contact", ContactHandler(deps.Landing))
	e.GET("/:provider", ProviderHandler(deps.Landing, "provider"))

	return e
}
