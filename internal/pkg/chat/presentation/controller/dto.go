package controller

import (
	"time"

	chat "tabangi/internal/pkg/chat/application/domain"
	profile "tabangi/internal/pkg/profile/domain"
)

type conversationResponse struct {
	ID           string          `json:"id"`
	Participants []string        `json:"participants"`
	LastMessage  string          `json:"lastMessage"`
	LastUpdated  *time.Time      `json:"lastUpdated,omitempty"`
	Unread       map[string]bool `json:"unread"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type inboxEntryResponse struct {
	Conversation conversationResponse `json:"conversation"`
	OtherUser    profile.Summary      `json:"otherUser"`
	Unread       bool                 `json:"unread"`
}

func toConversationResponse(c chat.Conversation) conversationResponse {
	resp := conversationResponse{
		ID:           c.ID,
		Participants: c.Participants,
		LastMessage:  c.LastMessage,
		Unread:       c.Unread,
	}
	if !c.LastUpdated.IsZero() {
		t := c.LastUpdated
		resp.LastUpdated = &t
	}
	return resp
}

func toMessageResponses(msgs []chat.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return out
}

func toInboxResponses(viewerID string, entries []chat.InboxEntry) []inboxEntryResponse {
	out := make([]inboxEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, inboxEntryResponse{
			Conversation: toConversationResponse(e.Conversation),
			OtherUser:    e.Counterpart,
			Unread:       e.Conversation.IsUnread(viewerID),
		})
	}
	return out
}
