// controllers/chat.go
package controllers

import (
	"log"
	"net/http"
	"time"

	"tandempro-backend/config"
	"tandempro-backend/models"
	"tandempro-backend/services"
	"tandempro-backend/utils"

	"github.com/gin-gonic/gin"
)

// ChatInput defines the expected JSON structure for a chat message
type ChatInput struct {
	ChatInput string `json:"chatInput" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
}

// Chat relays a visitor message to the chat webhook and returns the bot
// reply. The reply is the deliverable here, so webhook failures surface
// as 500. The conversation log write is best-effort.
func Chat(c *gin.Context) {
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reply, err := services.NewChatClient().Send(input.ChatInput, input.SessionID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Chat service unavailable")
		return
	}

	conversation := models.Conversation{
		SessionID: input.SessionID,
		UserInput: input.ChatInput,
		BotReply:  reply,
		AskedAt:   time.Now(),
	}
	if err := config.DB.Create(&conversation).Error; err != nil {
		log.Printf("Failed to log conversation for session %s: %v", input.SessionID, err)
	}

	c.JSON(http.StatusOK, gin.H{"output": reply})
}
