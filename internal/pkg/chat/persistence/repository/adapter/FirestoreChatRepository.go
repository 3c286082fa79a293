package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
)

const (
	chatsCollection    = "chats"
	messagesCollection = "messages"
)

// conversationDoc is the wire shape of chats/{conversationId}.
type conversationDoc struct {
	Participants []string        `firestore:"participants"`
	LastMessage  string          `firestore:"lastMessage"`
	LastUpdated  time.Time       `firestore:"lastUpdated"`
	Unread       map[string]bool `firestore:"unread"`
}

// messageDoc is the wire shape of chats/{conversationId}/messages/{messageId}.
type messageDoc struct {
	Text      string    `firestore:"text"`
	SenderID  string    `firestore:"senderId"`
	Timestamp time.Time `firestore:"timestamp"`
}

// FirestoreChatRepository persists conversations and messages in Firestore,
// using the store's own snapshot listeners for the watch methods.
type FirestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) *FirestoreChatRepository {
	return &FirestoreChatRepository{client: client}
}

var _ repository.ChatRepository = (*FirestoreChatRepository)(nil)

func (r *FirestoreChatRepository) conversation(conversationID string) *firestore.DocumentRef {
	return r.client.Collection(chatsCollection).Doc(conversationID)
}

func (r *FirestoreChatRepository) messages(conversationID string) *firestore.CollectionRef {
	return r.conversation(conversationID).Collection(messagesCollection)
}

func (r *FirestoreChatRepository) GetConversation(ctx context.Context, conversationID string) (*chat.Conversation, error) {
	snap, err := r.conversation(conversationID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get conversation: %w", err)
	}
	conv, err := decodeConversation(snap)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *FirestoreChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) error {
	_, err := r.conversation(c.ID).Create(ctx, map[string]interface{}{
		"participants": c.Participants,
		"lastMessage":  c.LastMessage,
		"lastUpdated":  firestore.ServerTimestamp,
		"unread":       c.Unread,
	})
	// Two clients opening the same fresh thread race on the create; the
	// first document wins and carries the same initial shape.
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("firestore: create conversation: %w", err)
	}
	return nil
}

func (r *FirestoreChatRepository) SetUnread(ctx context.Context, conversationID, userID string, unread bool) error {
	_, err := r.conversation(conversationID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unread", userID}, Value: unread},
	})
	if status.Code(err) == codes.NotFound {
		return chat.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore: set unread: %w", err)
	}
	return nil
}

func (r *FirestoreChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	ref, wr, err := r.messages(m.ConversationID).Add(ctx, map[string]interface{}{
		"text":      m.Text,
		"senderId":  m.SenderID,
		"timestamp": firestore.ServerTimestamp,
	})
	if err != nil {
		return chat.Message{}, fmt.Errorf("firestore: save message: %w", err)
	}
	m.ID = ref.ID
	m.Timestamp = wr.UpdateTime
	return m, nil
}

func (r *FirestoreChatRepository) UpdateSummary(ctx context.Context, conversationID, lastMessage, recipientID string) error {
	_, err := r.conversation(conversationID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: lastMessage},
		{Path: "lastUpdated", Value: firestore.ServerTimestamp},
		{FieldPath: firestore.FieldPath{"unread", recipientID}, Value: true},
	})
	if status.Code(err) == codes.NotFound {
		return chat.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore: update summary: %w", err)
	}
	return nil
}

func (r *FirestoreChatRepository) MessagesByConversation(ctx context.Context, conversationID string) ([]chat.Message, error) {
	it := r.messages(conversationID).OrderBy("timestamp", firestore.Asc).Documents(ctx)
	defer it.Stop()
	return collectMessages(conversationID, it)
}

func (r *FirestoreChatRepository) ConversationsByParticipant(ctx context.Context, userID string) ([]chat.Conversation, error) {
	it := r.participantQuery(userID).Documents(ctx)
	defer it.Stop()
	return collectConversations(it)
}

func (r *FirestoreChatRepository) participantQuery(userID string) firestore.Query {
	return r.client.Collection(chatsCollection).
		Where("participants", "array-contains", userID).
		OrderBy("lastUpdated", firestore.Desc)
}

func (r *FirestoreChatRepository) WatchMessages(ctx context.Context, conversationID string) (*repository.MessageSubscription, error) {
	wctx, cancel := context.WithCancel(ctx)
	it := r.messages(conversationID).OrderBy("timestamp", firestore.Asc).Snapshots(wctx)
	out := make(chan []chat.Message, 1)

	go func() {
		defer close(out)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				// Cancellation or a store failure ends the stream; the
				// consumer re-subscribes to restart from full state.
				return
			}
			msgs, err := collectMessages(conversationID, snap.Documents)
			if err != nil {
				continue
			}
			emitMessages(wctx, out, msgs)
		}
	}()

	return repository.NewMessageSubscription(out, cancel), nil
}

func (r *FirestoreChatRepository) WatchConversations(ctx context.Context, userID string) (*repository.ConversationSubscription, error) {
	wctx, cancel := context.WithCancel(ctx)
	it := r.participantQuery(userID).Snapshots(wctx)
	out := make(chan []chat.Conversation, 1)

	go func() {
		defer close(out)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				return
			}
			convs, err := collectConversations(snap.Documents)
			if err != nil {
				continue
			}
			emitConversations(wctx, out, convs)
		}
	}()

	return repository.NewConversationSubscription(out, cancel), nil
}

// emitMessages delivers the freshest snapshot without stalling the watch on a
// slow consumer: a stale buffered snapshot is replaced, not queued behind.
func emitMessages(ctx context.Context, out chan []chat.Message, msgs []chat.Message) {
	select {
	case <-out:
	default:
	}
	select {
	case out <- msgs:
	case <-ctx.Done():
	}
}

func emitConversations(ctx context.Context, out chan []chat.Conversation, convs []chat.Conversation) {
	select {
	case <-out:
	default:
	}
	select {
	case out <- convs:
	case <-ctx.Done():
	}
}

func collectMessages(conversationID string, it *firestore.DocumentIterator) ([]chat.Message, error) {
	var msgs []chat.Message
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return msgs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: iterate messages: %w", err)
		}
		var d messageDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("firestore: decode message %s: %w", doc.Ref.ID, err)
		}
		msgs = append(msgs, chat.Message{
			ID:             doc.Ref.ID,
			ConversationID: conversationID,
			SenderID:       d.SenderID,
			Text:           d.Text,
			Timestamp:      d.Timestamp,
		})
	}
}

func collectConversations(it *firestore.DocumentIterator) ([]chat.Conversation, error) {
	var convs []chat.Conversation
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return convs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: iterate conversations: %w", err)
		}
		conv, err := decodeConversation(doc)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
}

func decodeConversation(doc *firestore.DocumentSnapshot) (chat.Conversation, error) {
	var d conversationDoc
	if err := doc.DataTo(&d); err != nil {
		return chat.Conversation{}, fmt.Errorf("firestore: decode conversation %s: %w", doc.Ref.ID, err)
	}
	unread := d.Unread
	if unread == nil {
		unread = map[string]bool{}
	}
	return chat.Conversation{
		ID:           doc.Ref.ID,
		Participants: d.Participants,
		LastMessage:  d.LastMessage,
		LastUpdated:  d.LastUpdated,
		Unread:       unread,
	}, nil
}
