package chat

import "time"

// Message is one row of the flat message ledger. Conversations are never
// materialized; they are derived from this ledger on read.
//
// UpdatedAt doubles as the read marker: it is advanced on the most recent
// message received by a user when that user opens the thread. It does not
// mean the content was edited.
type Message struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Content    string    `gorm:"not null"`
	SenderID   string    `gorm:"index;not null"`
	ReceiverID string    `gorm:"index;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Message) TableName() string { return "messages" }

// Conversation is the derived view of one counterpart pairing: the latest
// message between the two participants plus their resolved display names.
type Conversation struct {
	CounterpartID   string
	CounterpartName string
	SelfName        string
	LatestMessage   Message
}
