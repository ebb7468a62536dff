package websocket

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/careerhub/backend/internal/auth"
	apperrors "github.com/careerhub/backend/internal/errors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the configured CORS origins
		return true
	},
}

// Handler handles WebSocket connections.
type Handler struct {
	hub         *Hub
	authService *auth.Service
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, authService *auth.Service) *Handler {
	return &Handler{
		hub:         hub,
		authService: authService,
	}
}

// ServeWS handles WebSocket requests from clients.
// Authentication is done via query parameter: ?token=<jwt_token>
// The browser WebSocket API doesn't support custom headers.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	token := r.URL.Query().Get("token")
	if token == "" {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("missing token parameter"))
		return
	}

	claims, err := h.authService.VerifyAccessToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			apperrors.WriteError(w, requestID, apperrors.TokenExpired())
			return
		}
		apperrors.WriteError(w, requestID, apperrors.InvalidToken("invalid access token"))
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.InvalidToken("invalid user ID in token"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, userID)
	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
