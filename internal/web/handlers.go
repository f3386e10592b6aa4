package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/ports"
	"github.com/aalvaropc/preprints/internal/usecase"
)

type subjectsResponse struct {
	Parent   string           `json:"parent"`
	Subjects []domain.Subject `json:"subjects"`
}

type contactRequest struct {
	Label string `json:"label"`
}

type contactResponse struct {
	Open bool `json:"open"`
}

// IndexHandler answers with the default landing index.
func IndexHandler(landing *usecase.Landing) echo.HandlerFunc {
	return func(c echo.Context) error {
		idx, err := landing.Index(c.Request().Context(), domain.DefaultTheme())
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusOK, idx)
	}
}

// ProviderHandler answers with a branded index, or redirects unknown brands to the content route.
func ProviderHandler(landing *usecase.Landing, providerKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := landing.Provider(c.Param(providerKey))
		if route.Redirect != "" {
			return c.Redirect(http.StatusFound, route.Redirect)
		}

		idx, err := landing.Index(c.Request().Context(), route.Theme)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusOK, idx)
	}
}

// SubjectsHandler lists the children of ?parent=, or the top-level subjects.
func SubjectsHandler(taxonomy ports.TaxonomyProvider, pageSize int) echo.HandlerFunc {
	return func(c echo.Context) error {
		parent := strings.TrimSpace(c.QueryParam("parent"))
		if parent == "" {
			parent = domain.RootParent
		}
		children, err := taxonomy.Children(c.Request().Context(), parent, pageSize)
		if err != nil {
			return toHTTPError(err)
		}
		if children == nil {
			children = []domain.Subject{}
		}
		return c.JSON(http.StatusOK, subjectsResponse{Parent: parent, Subjects: children})
	}
}

// SearchHandler hands ?q= over to the discover page.
func SearchHandler(landing *usecase.Landing) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, landing.SearchURL(c.QueryParam("q")))
	}
}

// ContactHandler records a contact link click.
func ContactHandler(landing *usecase.Landing) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req contactRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		if strings.TrimSpace(req.Label) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "label is required")
		}
		open, err := landing.ContactLink(req.Label)
		if err != nil {
			c.Logger().Warnf("contact link not tracked: %v", err)
		}
		return c.JSON(http.StatusOK, contactResponse{Open: open})
	}
}

func toHTTPError(err error) error {
	switch {
	case domain.IsKind(err, domain.KindNotFound):
		return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
	case domain.IsKind(err, domain.KindValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case domain.IsKind(err, domain.KindRemote):
		return echo.NewHTTPError(http.StatusBadGateway).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}
