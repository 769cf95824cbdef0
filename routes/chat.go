package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"session-rag-chatbot/internal/logger"
	"session-rag-chatbot/internal/session"
	"session-rag-chatbot/models"
	"session-rag-chatbot/services"
	"session-rag-chatbot/utils"
)

// SetupChatRoutes registers the RAG chat endpoint and the session history
// listing.
func SetupChatRoutes(router *gin.Engine, chatter services.Chatter) {
	router.POST("/chat", func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			sessionID = c.PostForm("session_id")
		}
		query := c.Query("query")
		if query == "" {
			query = c.PostForm("query")
		}
		if sessionID == "" || query == "" {
			utils.RespondInvalidInput(c, "session_id and query are required.")
			return
		}

		answer, err := chatter.Chat(c.Request.Context(), sessionID, query)
		if err != nil {
			logger.Error("chat failed",
				"session_id", sessionID,
				"error", err.Error(),
			)
			utils.RespondProcessingError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ChatResponse{Answer: answer})
	})

	router.GET("/chat/history", func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			utils.RespondInvalidInput(c, "session_id is required.")
			return
		}

		messages, err := chatter.History(c.Request.Context(), sessionID)
		if err != nil {
			utils.RespondProcessingError(c, err)
			return
		}
		if messages == nil {
			messages = []models.ChatMessage{}
		}

		c.JSON(http.StatusOK, models.HistoryResponse{
			SessionID: session.Canonical(sessionID).String(),
			Messages:  messages,
		})
	})
}
