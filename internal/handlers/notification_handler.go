package handlers

import (
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
	"github.com/unilink/backend/internal/services"
	"github.com/unilink/backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NotificationHandler handles notification HTTP requests and the live stream
type NotificationHandler struct {
	fanout         *services.NotificationFanout
	userRepository repositories.UserRepository
	hub            *ws.Hub
	jwtSecret      string
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(fanout *services.NotificationFanout, userRepo repositories.UserRepository, hub *ws.Hub) *NotificationHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &NotificationHandler{
		fanout:         fanout,
		userRepository: userRepo,
		hub:            hub,
		jwtSecret:      jwtSecret,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// RegisterStreamRoute registers the live stream endpoint. Browsers cannot
// set headers on a WebSocket handshake, so the stream authenticates with a
// token query parameter instead of the Authorization header.
func (h *NotificationHandler) RegisterStreamRoute(g *echo.Group) {
	g.GET("/notifications/stream", h.Stream)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := userCache[n.SenderID]; ok {
			enriched[i].Actor = actor
		} else {
			user, err := h.userRepository.GetUserByID(c.Request().Context(), n.SenderID)
			if err == nil {
				compact := user.ToCompact()
				userCache[n.SenderID] = compact
				enriched[i].Actor = compact
			}
		}
	}
	return enriched
}

// GetNotifications returns paginated notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	notifications, total, err := h.fanout.List(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		return serviceError(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	enriched := h.enrichNotifications(c, notifications)

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": enriched,
		"meta": echo.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   total,
			"itemsPerPage": limit,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	count, err := h.fanout.UnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a notification as read. Only the receiver may mark it.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.fanout.MarkRead(c.Request().Context(), currentUserID, uint(notifID)); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the user's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.fanout.MarkAllRead(c.Request().Context(), currentUserID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Stream upgrades the connection and attaches the viewer to the live
// notification fanout until disconnect. Delivery is best effort: the client
// re-derives unread counts from the REST endpoints on reconnect.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, err := h.authenticateStream(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}
	defer conn.Close()

	client := &ws.Client{UserID: userID, Send: make(chan []byte, 256)}
	h.hub.Register(client)
	defer client.Close()

	sub, err := h.fanout.SubscribeViewer(c.Request().Context(), userID)
	if err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"subscription failed"}`))
		return nil
	}
	defer sub.Close()

	go writePump(client, conn)
	readPump(conn)
	return nil
}

func (h *NotificationHandler) authenticateStream(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, jwt.ErrTokenMalformed
	}
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return claims.UserID, nil
}

// writePump copies payloads from the client buffer to the connection and
// keeps the connection alive with pings.
func writePump(c *ws.Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection until the client goes away.
func readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
