package model

import (
	"sync"
	"time"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type ChatMessage struct {
	ID        int64
	Sender    Sender
	Text      string
	CreatedAt time.Time
}

// Conversation is the append-only transcript of one chat screen plus its in-flight flag.
// Messages are never reordered or removed.
type Conversation struct {
	mu               sync.RWMutex
	messages         []ChatMessage
	lastID           int64
	awaitingResponse bool
}

func NewConversation(greeting string) *Conversation {
	c := &Conversation{}
	if greeting != "" {
		c.Append(SenderAssistant, greeting)
	}
	return c
}

func (c *Conversation) Append(sender Sender, text string) ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastID++
	msg := ChatMessage{
		ID:        c.lastID,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

func (c *Conversation) Messages() []ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ChatMessage(nil), c.messages...)
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

func (c *Conversation) AwaitingResponse() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.awaitingResponse
}

func (c *Conversation) SetAwaitingResponse(awaiting bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaitingResponse = awaiting
}
