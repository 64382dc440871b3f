package handlers

import (
	"law_catalog_app_go/db"
	"law_catalog_app_go/middleware"
	"law_catalog_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateOptionItemHandler adds an item to an option set
func CreateOptionItemHandler(c echo.Context) error {
	var draft services.OptionItemDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	item, err := services.CreateOptionItem(db.DB, middleware.GetCurrentUser(c), c.Param("key"), draft)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateOptionItemHandler applies partial updates to an item
func UpdateOptionItemHandler(c echo.Context) error {
	var updates services.OptionItemUpdates
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	item, err := services.UpdateOptionItem(db.DB, middleware.GetCurrentUser(c), c.Param("key"), c.Param("id"), updates)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteOptionItemHandler soft-deletes an item
func DeleteOptionItemHandler(c echo.Context) error {
	err := services.DeleteOptionItem(db.DB, middleware.GetCurrentUser(c), c.Param("key"), c.Param("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RestoreOptionItemHandler clears an item's soft delete marker
func RestoreOptionItemHandler(c echo.Context) error {
	item, err := services.RestoreOptionItem(db.DB, middleware.GetCurrentUser(c), c.Param("key"), c.Param("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

type toggleActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ToggleOptionItemHandler activates or deactivates an item
func ToggleOptionItemHandler(c echo.Context) error {
	var req toggleActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	item, err := services.ToggleOptionItemActive(db.DB, middleware.GetCurrentUser(c), c.Param("key"), c.Param("id"), req.IsActive)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

type reorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

// ReorderOptionItemsHandler applies a new display ordering to a set's items
func ReorderOptionItemsHandler(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if len(req.OrderedIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ordered_ids is required"})
	}

	err := services.ReorderOptionItems(db.DB, middleware.GetCurrentUser(c), c.Param("key"), req.OrderedIDs)
	if err != nil {
		return catalogError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
