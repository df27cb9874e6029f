package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	contentService *services.ContentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(contentService *services.ContentService) *CommentHandler {
	return &CommentHandler{contentService: contentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment handles creating a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.contentService.CreateComment(c.Request().Context(), currentUserID, req.PostID, req.Content)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetComments retrieves a post's comments in creation order
func (h *CommentHandler) GetComments(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	comments, err := h.contentService.GetComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, comments)
}

// UpdateComment edits a comment. Only the comment author may edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.contentService.UpdateComment(c.Request().Context(), currentUserID, uint(commentID), req.Content)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. Only the comment author may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.contentService.DeleteComment(c.Request().Context(), currentUserID, uint(commentID)); err != nil {
		return serviceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
