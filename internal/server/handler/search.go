package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/takatori/icoads/internal/errors"
	"github.com/takatori/icoads/internal/search"
	"github.com/takatori/icoads/internal/search/solr"
)

const defaultItemsPerPage = 10

// keys that become a list when repeated in the request
var multiValuedKeys = []string{search.KeyQualityFlag, search.KeyPlatform}

// NewSearchHandler translates the request parameters into a Solr query,
// runs it and returns the Solr payload as is.
func NewSearchHandler(searcher search.Searcher, facets search.FacetConfig) func(echo.Context) error {
	binder := &echo.DefaultBinder{}

	return func(c echo.Context) error {
		page := search.Pagination{StartIndex: 0, EntriesPerPage: defaultItemsPerPage}
		if err := binder.BindQueryParams(c, &page); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid pagination parameters"})
		}
		if err := c.Validate(&page); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		params := parseSearchParams(c.QueryParams())

		query, err := solr.Translate(page.StartIndex, page.EntriesPerPage, params, facets)
		if err != nil {
			if failure.Is(err, errors.ErrMalformedNumericInput, errors.ErrMalformedBoundingBox) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to build query"})
		}

		result, err := searcher.Search(c.Request().Context(), query)
		if err != nil {
			slog.Error("search failed", "query", query, "error", err)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to query Solr"})
		}

		return c.JSONBlob(http.StatusOK, result)
	}
}

// parseSearchParams picks the recognized keys out of the query string in
// their canonical order so equal requests give equal Solr queries.
func parseSearchParams(values url.Values) search.Parameters {
	params := search.NewParameters()
	for _, key := range search.Keys {
		vs := values[key]
		if len(vs) == 0 {
			continue
		}
		if len(vs) > 1 && lo.Contains(multiValuedKeys, key) {
			params.Set(key, search.Multi(vs...))
		} else {
			params.Set(key, search.Scalar(vs[0]))
		}
	}
	return params
}
