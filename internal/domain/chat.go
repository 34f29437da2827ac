package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxHistoryMessages caps a single history read.
const MaxHistoryMessages = 100

// ChatMessage is one persisted turn of a conversation. Records are append-only.
type ChatMessage struct {
	ID        uuid.UUID
	SessionID string
	UserID    uuid.UUID
	Message   string
	Response  string
	Fallback  bool
	Timestamp time.Time
}

// Topic is static catalogue data shown on the chat page.
type Topic struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SavageIntro string `json:"savage_intro"`
	Difficulty  string `json:"difficulty"`
	Icon        string `json:"icon"`
}
