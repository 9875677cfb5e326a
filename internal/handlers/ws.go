package handlers

import (
	"net/http"
	"time"

	"github.com/contexthub-dev/contexthub/internal/models"
	"github.com/contexthub-dev/contexthub/internal/rag"
	"github.com/contexthub-dev/contexthub/internal/types"
	"github.com/contexthub-dev/contexthub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	readWait       = 60 * time.Second
	maxMessageSize = 4096
)

// QueryStream upgrades to a websocket, reads one query message and streams
// the answer back chunk by chunk.
func (h *Handler) QueryStream(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)

	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	if err := conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		h.logger.Warn("failed to set read deadline", zap.Error(err))
		return
	}

	var req QueryRequest

	if err := conn.ReadJSON(&req); err != nil {
		h.writeWSError(conn, "Invalid query message")
		return
	}

	if req.Query == "" || req.ProjectID == 0 {
		h.writeWSError(conn, "query and project_id are required")
		return
	}

	var count int64

	if err := h.db.Model(&models.Project{}).Where("id = ? AND owner_id = ?", req.ProjectID, userID).Count(&count).Error; err != nil || count == 0 {
		h.writeWSError(conn, "Project not found")
		return
	}

	err = h.rag.QueryStream(ctx.Request.Context(), rag.QueryRequest{
		Query:     req.Query,
		TopK:      req.TopK,
		ProjectID: req.ProjectID,
	}, func(chunk rag.StreamChunk) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		if chunk.Done {
			return conn.WriteJSON(map[string]string{"type": "done"})
		}
		return conn.WriteJSON(map[string]string{
			"type":    "chunk",
			"content": chunk.Content,
		})
	})

	if err != nil {
		h.logger.Warn("query stream failed", zap.Uint("user_id", userID), zap.Error(err))
		h.writeWSError(conn, "Retrieval service unavailable")
	}
}

func (h *Handler) writeWSError(conn *websocket.Conn, message string) {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}

	if err := conn.WriteJSON(map[string]string{"type": "error", "message": message}); err != nil {
		h.logger.Warn("failed to write websocket error", zap.Error(err))
	}
}
