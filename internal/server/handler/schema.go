package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type SchemaInstaller interface {
	SetupSchema(ctx context.Context) error
}

// NewSetupSchemaHandler adds the fields queried by /search to the collection schema.
func NewSetupSchemaHandler(installer SchemaInstaller) func(echo.Context) error {
	return func(c echo.Context) error {
		if err := installer.SetupSchema(c.Request().Context()); err != nil {
			slog.Error("schema setup failed", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update schema"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Schema updated successfully"})
	}
}
