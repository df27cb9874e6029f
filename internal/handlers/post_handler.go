package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	contentService *services.ContentService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(contentService *services.ContentService) *PostHandler {
	return &PostHandler{contentService: contentService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost handles creating a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.contentService.CreatePost(c.Request().Context(), currentUserID, req.Content, models.PostVisibility(req.Visibility))
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.contentService.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, post)
}

// GetUserPosts returns a page of a user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	posts, err := h.contentService.ListPostsByAuthor(c.Request().Context(), uint(authorID), skip, limit)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, posts)
}

// UpdatePost edits a post's content. Only the author may edit.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.contentService.UpdatePost(c.Request().Context(), currentUserID, c.Param("id"), req.Content)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost removes a post. Only the author may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.contentService.DeletePost(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		return serviceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
