package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/takatori/icoads/internal"
	"github.com/takatori/icoads/internal/search"
	"github.com/takatori/icoads/internal/search/solr"
	"github.com/takatori/icoads/internal/server/handler"
)

func InitServer(config *internal.Config) (*echo.Echo, error) {
	searcher := solr.NewSolrSearcher(config)
	facets := search.FacetConfig{
		Fields:   config.FacetFields,
		Limit:    config.FacetLimit,
		MinCount: config.FacetMinCount,
	}

	return newServer(searcher, searcher, facets), nil
}

func newServer(searcher search.Searcher, installer handler.SchemaInstaller, facets search.FacetConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	e.GET("/health", handler.NewHealthHandler())
	e.GET("/search", handler.NewSearchHandler(searcher, facets))
	e.POST("/solr/schema", handler.NewSetupSchemaHandler(installer))

	return e
}
