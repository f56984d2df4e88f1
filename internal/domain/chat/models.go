package chat

import (
	"encoding/json"
	"time"
)

type Message struct {
	ID         int64           `json:"id"`
	UserID     string          `json:"userId"`
	Message    string          `json:"message"`
	IsFromUser bool            `json:"isFromUser"`
	Context    json.RawMessage `json:"context"`
	CreatedAt  time.Time       `json:"createdAt"`
}
