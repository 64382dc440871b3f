package handlers

import (
	"law_catalog_app_go/db"
	"law_catalog_app_go/middleware"
	"law_catalog_app_go/services"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// SnapshotOptionSetHandler captures the current state of a set as a new version
func SnapshotOptionSetHandler(c echo.Context) error {
	version, err := services.SnapshotOptionSet(db.DB, middleware.GetCurrentUser(c), c.Param("key"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusCreated, version)
}

// GetOptionVersionsHandler lists a set's recorded versions, most recent first
func GetOptionVersionsHandler(c echo.Context) error {
	versions, err := services.ListOptionVersions(db.DB, c.Param("key"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, versions)
}

// RestoreOptionVersionHandler brings a set back to a recorded snapshot
func RestoreOptionVersionHandler(c echo.Context) error {
	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil || versionNumber < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid version number"})
	}

	if err := services.RestoreOptionSetVersion(db.DB, middleware.GetCurrentUser(c), c.Param("key"), versionNumber); err != nil {
		return catalogError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
