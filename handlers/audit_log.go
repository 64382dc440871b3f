package handlers

import (
	"law_catalog_app_go/db"
	"law_catalog_app_go/services"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// GetOptionSetAuditLogsHandler returns filtered and paginated audit logs
// for one option set
func GetOptionSetAuditLogsHandler(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	filters := services.OptionAuditFilters{
		ActorUserID: c.QueryParam("actor_user_id"),
		Action:      c.QueryParam("action"),
	}

	if dateFrom := c.QueryParam("date_from"); dateFrom != "" {
		if t, err := time.Parse("2006-01-02", dateFrom); err == nil {
			filters.DateFrom = t
		}
	}
	if dateTo := c.QueryParam("date_to"); dateTo != "" {
		if t, err := time.Parse("2006-01-02", dateTo); err == nil {
			filters.DateTo = t.Add(24*time.Hour - time.Second) // End of day
		}
	}

	logs, total, err := services.GetOptionSetAuditLogs(db.DB, c.Param("key"), filters, page, pageSize)
	if err != nil {
		return catalogError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetOptionItemHistoryHandler returns the audit trail for one item
func GetOptionItemHistoryHandler(c echo.Context) error {
	logs, err := services.GetOptionItemHistory(db.DB, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch history"})
	}
	return c.JSON(http.StatusOK, logs)
}
