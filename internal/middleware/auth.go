package middleware

import (
	"net/http"

	"github.com/contexthub-dev/contexthub/internal/session"
	"github.com/contexthub-dev/contexthub/internal/types"
	"github.com/gin-gonic/gin"
)

// Principal identifies the caller for the duration of a request. Only the
// session is verified here; the user row is not loaded, because the account
// handlers must still see sessions whose owner row is gone in order to run
// orphan cleanup.
type Principal struct {
	ID        uint   `json:"id"`
	SessionID string `json:"session_id"`
}

func AuthMiddleware(sessions *session.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := session.TokenFromRequest(ctx.Request)

		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		sess, err := sessions.Validate(token)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, Principal{
			ID:        sess.UserID,
			SessionID: sess.ID,
		})
		ctx.Next()
	}
}
