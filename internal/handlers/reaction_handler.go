package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/services"
)

// ReactionHandler handles HTTP requests related to post and comment reactions
type ReactionHandler struct {
	reactionService *services.ReactionService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionService *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// RegisterReactionRoutes registers reaction routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/reactions", h.React)
	g.GET("/reactions/:targetType/:targetID", h.GetSummary)
}

// React toggles the authenticated user's reaction on a post or comment.
// Same type toggles off, a different type replaces the previous reaction.
func (h *ReactionHandler) React(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.ReactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.reactionService.React(c.Request().Context(), currentUserID, req.TargetType, req.TargetID, req.Type)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetSummary returns the aggregate reaction counts for a post or comment
func (h *ReactionHandler) GetSummary(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	summary, err := h.reactionService.Summary(c.Request().Context(), c.Param("targetType"), c.Param("targetID"))
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, summary)
}
