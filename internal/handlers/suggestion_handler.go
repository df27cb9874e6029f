package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/services"
)

// SuggestionHandler handles HTTP requests for friend suggestions
type SuggestionHandler struct {
	suggestionService *services.SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler
func NewSuggestionHandler(suggestionService *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// RegisterSuggestionRoutes registers suggestion routes
func (h *SuggestionHandler) RegisterSuggestionRoutes(g *echo.Group) {
	g.GET("/suggestions", h.GetSuggestions)
}

// GetSuggestions returns ranked friend candidates for the authenticated user
func (h *SuggestionHandler) GetSuggestions(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	suggestions, err := h.suggestionService.Suggest(c.Request().Context(), currentUserID, limit)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"suggestions": suggestions})
}
