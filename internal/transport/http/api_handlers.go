package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatterup/chatterup-server/internal/core"
	"github.com/chatterup/chatterup-server/internal/store"
)

// APIHandlers provides the thin REST read endpoints.
type APIHandlers struct {
	coord        *core.Coordinator
	messages     store.MessageStore
	historyLimit int
	log          *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(coord *core.Coordinator, messages store.MessageStore, historyLimit int, logger *zerolog.Logger) *APIHandlers {
	if historyLimit <= 0 {
		historyLimit = core.DefaultHistoryLimit
	}
	return &APIHandlers{
		coord:        coord,
		messages:     messages,
		historyLimit: historyLimit,
		log:          logger,
	}
}

// CountResponse is the online user count body.
type CountResponse struct {
	Count int `json:"count"`
}

// MessagesQuery bounds the history limit query parameter.
type MessagesQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserCount reports how many users are currently online.
// GET /api/users/count
func (h *APIHandlers) UserCount(c *gin.Context) {
	c.JSON(http.StatusOK, CountResponse{Count: h.coord.Registry().Count()})
}

// Messages returns the most recent chat messages, oldest first.
// GET /api/messages?limit=N
func (h *APIHandlers) Messages(c *gin.Context) {
	var q MessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = h.historyLimit
	}

	msgs, err := h.messages.RecentMessages(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to fetch messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, wireMessages(msgs))
}
