package handlers

import (
	"law_catalog_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuggestAbbreviationsHandler returns ranked short-code candidates for a name.
// Query param: name
func SuggestAbbreviationsHandler(c echo.Context) error {
	name := c.QueryParam("name")

	suggestions := services.SuggestAbbreviations(name)
	if suggestions == nil {
		suggestions = []string{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":        name,
		"suggestions": suggestions,
	})
}

type validateAbbreviationRequest struct {
	Candidate string `json:"candidate"`
}

// ValidateAbbreviationHandler checks a user-edited code against the grammar
func ValidateAbbreviationHandler(c echo.Context) error {
	var req validateAbbreviationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	return c.JSON(http.StatusOK, services.ValidateAbbreviation(req.Candidate))
}
