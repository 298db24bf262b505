package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation logs one exchange with the chat webhook, keyed by the
// widget's session id.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID string    `gorm:"index;not null" json:"session_id"`
	UserInput string    `gorm:"type:text;not null" json:"user_input"`
	BotReply  string    `gorm:"type:text" json:"bot_reply"`
	Metadata  JSONB     `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	AskedAt   time.Time `json:"asked_at"`

	gorm.Model
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
