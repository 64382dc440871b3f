package handlers

import (
	"bytes"
	"fmt"
	"law_catalog_app_go/db"
	"law_catalog_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ExportOptionSetExcelHandler downloads a set's items and audit trail as
// an Excel workbook
func ExportOptionSetExcelHandler(c echo.Context) error {
	key := c.Param("key")

	buf, err := services.BuildOptionSetWorkbook(db.DB, key)
	if err != nil {
		return catalogError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.xlsx"`, key))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportOptionSetCSVHandler downloads a set's picker-facing items as CSV
func ExportOptionSetCSVHandler(c echo.Context) error {
	key := c.Param("key")

	var buf bytes.Buffer
	if err := services.WriteOptionSetCSV(db.DB, key, &buf); err != nil {
		return catalogError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.csv"`, key))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
