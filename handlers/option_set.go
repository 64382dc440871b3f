package handlers

import (
	"errors"
	"law_catalog_app_go/db"
	"law_catalog_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// catalogErrorStatus maps catalog service errors to HTTP status codes
func catalogErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOptionSetNotFound),
		errors.Is(err, services.ErrOptionItemNotFound),
		errors.Is(err, services.ErrOptionVersionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrOptionValueTaken),
		errors.Is(err, services.ErrOptionItemDeleted),
		errors.Is(err, services.ErrOptionItemNotDeleted):
		return http.StatusConflict
	case errors.Is(err, services.ErrOptionLabelRequired),
		errors.Is(err, services.ErrOptionValueRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// catalogError renders a catalog service error as a JSON response
func catalogError(c echo.Context, err error) error {
	status := catalogErrorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal error"
	}
	return c.JSON(status, map[string]string{"error": message})
}

// GetOptionSetsHandler returns all option sets
func GetOptionSetsHandler(c echo.Context) error {
	sets, err := services.GetOptionSets(db.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch option sets"})
	}
	return c.JSON(http.StatusOK, sets)
}

// GetOptionSetHandler returns one option set by key
func GetOptionSetHandler(c echo.Context) error {
	set, err := services.GetOptionSetByKey(db.DB, c.Param("key"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, set)
}

// GetOptionItemsHandler returns the items of an option set.
// Query params: active_only=true, include_deleted=true
func GetOptionItemsHandler(c echo.Context) error {
	filter := services.OptionItemFilter{
		ActiveOnly:     c.QueryParam("active_only") == "true",
		IncludeDeleted: c.QueryParam("include_deleted") == "true",
	}

	items, err := services.ListOptionItems(db.DB, c.Param("key"), filter)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
