package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

const (
	ChatTypeInquiry = "inquiry"
	ChatTypeRental  = "rental"
	ChatTypeSupport = "support"
)

const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeDocument = "document"
	MessageTypeLocation = "location"
)

type Attachment struct {
	Type     string `json:"type" firestore:"type" bson:"type"`
	URL      string `json:"url" firestore:"url" bson:"url"`
	Filename string `json:"filename,omitempty" firestore:"filename" bson:"filename"`
	Size     int64  `json:"size,omitempty" firestore:"size" bson:"size"`
}

type Message struct {
	ID          string       `json:"id" firestore:"id" bson:"id"`
	SenderID    string       `json:"sender" firestore:"sender" bson:"sender"`
	Content     string       `json:"content" firestore:"content" bson:"content"`
	MessageType string       `json:"messageType" firestore:"messageType" bson:"messageType"`
	Attachments []Attachment `json:"attachments,omitempty" firestore:"attachments" bson:"attachments"`
	IsRead      bool         `json:"isRead" firestore:"isRead" bson:"isRead"`
	ReadAt      *time.Time   `json:"readAt,omitempty" firestore:"readAt,omitempty" bson:"readAt,omitempty"`
	Timestamp   time.Time    `json:"timestamp" firestore:"timestamp" bson:"timestamp"`
}

type LastMessage struct {
	Content   string    `json:"content" firestore:"content" bson:"content"`
	SenderID  string    `json:"sender" firestore:"sender" bson:"sender"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp" bson:"timestamp"`
}

type Chat struct {
	ID           string       `json:"id" firestore:"id" bson:"_id"`
	Participants []string     `json:"participants" firestore:"participants" bson:"participants"`
	LandID       string       `json:"land,omitempty" firestore:"land" bson:"land"`
	RentalID     string       `json:"rental,omitempty" firestore:"rental" bson:"rental"`
	ChatType     string       `json:"chatType" firestore:"chatType" bson:"chatType"`
	Title        string       `json:"title,omitempty" firestore:"title" bson:"title"`
	Messages     []Message    `json:"messages" firestore:"messages" bson:"messages"`
	LastMessage  *LastMessage `json:"lastMessage,omitempty" firestore:"lastMessage,omitempty" bson:"lastMessage,omitempty"`
	IsActive     bool         `json:"isActive" firestore:"isActive" bson:"isActive"`
	CreatedAt    time.Time    `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

// ChatKey derives the thread id for a participant pair scoped to an optional land and rental.
// The pair is order independent.
func ChatKey(a, b, landID, rentalID string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	sum := sha256.Sum256([]byte(strings.Join([]string{pair[0], pair[1], landID, rentalID}, "|")))
	return hex.EncodeToString(sum[:20])
}

func SortedPair(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}

func (c *Chat) IsParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

func (c *Chat) OtherParticipants(userID string) []string {
	var out []string
	for _, p := range c.Participants {
		if p != userID {
			out = append(out, p)
		}
	}
	return out
}

// AddMessage appends msg and points lastMessage at it.
func (c *Chat) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.LastMessage = &LastMessage{
		Content:   msg.Content,
		SenderID:  msg.SenderID,
		Timestamp: msg.Timestamp,
	}
	c.UpdatedAt = msg.Timestamp
}

// MarkReadBy flags every unread message not authored by reader. Returns how many changed.
func (c *Chat) MarkReadBy(reader string, now time.Time) int {
	changed := 0
	for i := range c.Messages {
		m := &c.Messages[i]
		if m.SenderID != reader && !m.IsRead {
			m.IsRead = true
			readAt := now
			m.ReadAt = &readAt
			changed++
		}
	}
	return changed
}

func (c *Chat) UnreadFor(userID string) int {
	n := 0
	for _, m := range c.Messages {
		if m.SenderID != userID && !m.IsRead {
			n++
		}
	}
	return n
}

// MessagePage returns page counted from the most recent message, oldest first within the page.
func (c *Chat) MessagePage(page, limit int) []Message {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return []Message{}
	}
	n := len(c.Messages)
	end := n - (page-1)*limit
	if end <= 0 {
		return []Message{}
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	out := make([]Message, end-start)
	copy(out, c.Messages[start:end])
	return out
}

// LastActivity is the sort key for chat listings.
func (c *Chat) LastActivity() time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.Timestamp
	}
	return c.UpdatedAt
}
