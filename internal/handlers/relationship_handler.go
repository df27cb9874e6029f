package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
	"github.com/unilink/backend/internal/services"
)

// RelationshipHandler handles HTTP requests related to friend relationships
type RelationshipHandler struct {
	relationshipService *services.RelationshipService
	userRepository      repositories.UserRepository // to fetch user details for friend lists
}

// NewRelationshipHandler creates a new RelationshipHandler
func NewRelationshipHandler(relationshipService *services.RelationshipService, userRepo repositories.UserRepository) *RelationshipHandler {
	return &RelationshipHandler{
		relationshipService: relationshipService,
		userRepository:      userRepo,
	}
}

// RegisterRelationshipRoutes registers relationship-related routes
func (h *RelationshipHandler) RegisterRelationshipRoutes(g *echo.Group) {
	g.POST("/relationships/request", h.SendRequest)
	g.GET("/relationships/requests/pending", h.GetPendingRequests)
	g.PUT("/relationships/:id/respond", h.RespondToRequest)
	g.DELETE("/relationships/:id", h.CancelRequest)
	g.GET("/relationships/friends", h.GetFriends)
	g.DELETE("/relationships/friends/:userID", h.Unfriend)
}

// SendRequest handles sending a friend request
func (h *RelationshipHandler) SendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.SendRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check the receiver exists before touching the edge
	if _, err := h.userRepository.GetUserByID(c.Request().Context(), req.ReceiverID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Receiver user not found")
	}

	edge, err := h.relationshipService.SendRequest(c.Request().Context(), currentUserID, req.ReceiverID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, edge)
}

// GetPendingRequests retrieves pending friend requests addressed to the authenticated user
func (h *RelationshipHandler) GetPendingRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	requests, err := h.relationshipService.PendingIncoming(c.Request().Context(), currentUserID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, requests)
}

// RespondToRequest accepts or rejects a pending friend request
func (h *RelationshipHandler) RespondToRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.RespondRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	edge, err := h.relationshipService.Respond(c.Request().Context(), currentUserID, uint(requestID), req.Accept)
	if err != nil {
		return serviceError(err)
	}
	if edge == nil {
		// Rejected: the request is gone
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, edge)
}

// CancelRequest withdraws a pending friend request the authenticated user sent
func (h *RelationshipHandler) CancelRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	if err := h.relationshipService.Cancel(c.Request().Context(), currentUserID, uint(requestID)); err != nil {
		return serviceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetFriends retrieves the authenticated user's accepted connections
func (h *RelationshipHandler) GetFriends(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	friendIDs, err := h.relationshipService.FriendIDs(c.Request().Context(), currentUserID)
	if err != nil {
		return serviceError(err)
	}

	users, err := h.userRepository.GetUsersByIDs(c.Request().Context(), friendIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friends := make([]models.UserCompact, len(users))
	for i, u := range users {
		friends[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, friends)
}

// Unfriend severs an accepted relationship with another user
func (h *RelationshipHandler) Unfriend(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	friendUserID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid friend user ID")
	}

	if err := h.relationshipService.Unfollow(c.Request().Context(), currentUserID, uint(friendUserID)); err != nil {
		return serviceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
