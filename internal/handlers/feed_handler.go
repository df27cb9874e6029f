package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/services"
)

// FeedHandler handles HTTP requests for the home feed and its hidden complement
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/hidden", h.GetHiddenFeed)
	g.POST("/feed/hidden/posts/:id", h.HidePost)
	g.DELETE("/feed/hidden/posts/:id", h.UnhidePost)
	g.POST("/feed/hidden/users/:userID", h.HideUser)
	g.DELETE("/feed/hidden/users/:userID", h.UnhideUser)
}

// GetFeed returns the authenticated user's feed, newest first.
// ?only_new=true restricts to posts from the last 24 hours.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	onlyNew, _ := strconv.ParseBool(c.QueryParam("only_new"))
	feed, err := h.feedService.GetFeed(c.Request().Context(), currentUserID, services.FeedOptions{OnlyNew: onlyNew})
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": feed, "count": len(feed)})
}

// GetHiddenFeed returns the posts the user has suppressed, so they can be reviewed and unhidden
func (h *FeedHandler) GetHiddenFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	onlyNew, _ := strconv.ParseBool(c.QueryParam("only_new"))
	feed, err := h.feedService.GetHiddenFeed(c.Request().Context(), currentUserID, services.FeedOptions{OnlyNew: onlyNew})
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": feed, "count": len(feed)})
}

// HidePost suppresses a single post from the user's feed
func (h *FeedHandler) HidePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.feedService.HidePost(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnhidePost restores a previously hidden post
func (h *FeedHandler) UnhidePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.feedService.UnhidePost(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HideUser suppresses all posts from another user
func (h *FeedHandler) HideUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	hiddenUserID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.feedService.HideUser(c.Request().Context(), currentUserID, uint(hiddenUserID)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnhideUser reverses HideUser
func (h *FeedHandler) UnhideUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	hiddenUserID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.feedService.UnhideUser(c.Request().Context(), currentUserID, uint(hiddenUserID)); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
