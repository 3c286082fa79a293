package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
)

// PgChatRepository is the self-hosted alternative to Firestore: documents in
// Postgres, change notification over Redis pub/sub. Writers publish the
// conversation id after each write; watchers re-query and emit a fresh
// snapshot per notification.
type PgChatRepository struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

func NewPgChatRepository(pool *pgxpool.Pool, rdb *redis.Client) *PgChatRepository {
	return &PgChatRepository{pool: pool, rdb: rdb}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

const chatSchema = `
CREATE SCHEMA IF NOT EXISTS chat;

CREATE TABLE IF NOT EXISTS chat.conversation (
	id            text PRIMARY KEY,
	participants  text[] NOT NULL,
	last_message  text NOT NULL DEFAULT '',
	last_updated  timestamptz NOT NULL DEFAULT now(),
	unread        jsonb NOT NULL DEFAULT '{}'::jsonb
);

CREATE TABLE IF NOT EXISTS chat.message (
	id              uuid PRIMARY KEY,
	conversation_id text NOT NULL REFERENCES chat.conversation(id),
	sender_id       text NOT NULL,
	body            text NOT NULL,
	created_at      timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS message_conversation_created_idx
	ON chat.message (conversation_id, created_at);
`

// EnsureSchema creates the chat schema and tables if they do not exist yet.
func (r *PgChatRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, chatSchema); err != nil {
		return fmt.Errorf("postgres: ensure chat schema: %w", err)
	}
	return nil
}

func messagesChannel(conversationID string) string { return "chat.messages." + conversationID }
func inboxChannel(userID string) string            { return "chat.inbox." + userID }

func (r *PgChatRepository) GetConversation(ctx context.Context, conversationID string) (*chat.Conversation, error) {
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id, participants, last_message, last_updated, unread
		FROM chat.conversation
		WHERE id = $1
	`, conversationID).Scan(&c.ID, &c.Participants, &c.LastMessage, &c.LastUpdated, &c.Unread)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get conversation: %w", err)
	}
	if c.Unread == nil {
		c.Unread = map[string]bool{}
	}
	return &c, nil
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.conversation (id, participants, last_message, unread)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, c.ID, c.Participants, c.LastMessage, c.Unread)
	if err != nil {
		return fmt.Errorf("postgres: create conversation: %w", err)
	}
	r.notifyParticipants(ctx, c.Participants)
	return nil
}

func (r *PgChatRepository) SetUnread(ctx context.Context, conversationID, userID string, unread bool) error {
	var participants []string
	err := r.pool.QueryRow(ctx, `
		UPDATE chat.conversation
		SET unread = jsonb_set(unread, ARRAY[$2], to_jsonb($3::bool))
		WHERE id = $1
		RETURNING participants
	`, conversationID, userID, unread).Scan(&participants)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: set unread: %w", err)
	}
	r.notifyParticipants(ctx, participants)
	return nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	m.ID = uuid.NewString()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (id, conversation_id, sender_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, m.ID, m.ConversationID, m.SenderID, m.Text).Scan(&m.Timestamp)
	if err != nil {
		return chat.Message{}, fmt.Errorf("postgres: save message: %w", err)
	}
	r.publish(ctx, messagesChannel(m.ConversationID))
	return m, nil
}

func (r *PgChatRepository) UpdateSummary(ctx context.Context, conversationID, lastMessage, recipientID string) error {
	var participants []string
	err := r.pool.QueryRow(ctx, `
		UPDATE chat.conversation
		SET last_message = $2,
		    last_updated = now(),
		    unread = jsonb_set(unread, ARRAY[$3], 'true'::jsonb)
		WHERE id = $1
		RETURNING participants
	`, conversationID, lastMessage, recipientID).Scan(&participants)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: update summary: %w", err)
	}
	r.notifyParticipants(ctx, participants)
	return nil
}

func (r *PgChatRepository) MessagesByConversation(ctx context.Context, conversationID string) ([]chat.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id, sender_id, body, created_at
		FROM chat.message
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query messages: %w", err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("postgres: iterate messages: %w", rows.Err())
	}
	return msgs, nil
}

func (r *PgChatRepository) ConversationsByParticipant(ctx context.Context, userID string) ([]chat.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, participants, last_message, last_updated, unread
		FROM chat.conversation
		WHERE $1 = ANY(participants)
		ORDER BY last_updated DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query conversations: %w", err)
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.Participants, &c.LastMessage, &c.LastUpdated, &c.Unread); err != nil {
			return nil, fmt.Errorf("postgres: scan conversation: %w", err)
		}
		if c.Unread == nil {
			c.Unread = map[string]bool{}
		}
		convs = append(convs, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("postgres: iterate conversations: %w", rows.Err())
	}
	return convs, nil
}

func (r *PgChatRepository) WatchMessages(ctx context.Context, conversationID string) (*repository.MessageSubscription, error) {
	wctx, cancel := context.WithCancel(ctx)
	sub := r.rdb.Subscribe(wctx, messagesChannel(conversationID))
	out := make(chan []chat.Message, 1)

	go func() {
		defer close(out)
		defer sub.Close()

		emit := func() {
			msgs, err := r.MessagesByConversation(wctx, conversationID)
			if err != nil {
				return
			}
			emitMessages(wctx, out, msgs)
		}

		emit()
		ch := sub.Channel()
		for {
			select {
			case <-wctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return repository.NewMessageSubscription(out, cancel), nil
}

func (r *PgChatRepository) WatchConversations(ctx context.Context, userID string) (*repository.ConversationSubscription, error) {
	wctx, cancel := context.WithCancel(ctx)
	sub := r.rdb.Subscribe(wctx, inboxChannel(userID))
	out := make(chan []chat.Conversation, 1)

	go func() {
		defer close(out)
		defer sub.Close()

		emit := func() {
			convs, err := r.ConversationsByParticipant(wctx, userID)
			if err != nil {
				return
			}
			emitConversations(wctx, out, convs)
		}

		emit()
		ch := sub.Channel()
		for {
			select {
			case <-wctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return repository.NewConversationSubscription(out, cancel), nil
}

// notifyParticipants pokes every participant's inbox watch. Delivery is
// best-effort: a missed publish only delays the next snapshot until the
// following write.
func (r *PgChatRepository) notifyParticipants(ctx context.Context, participants []string) {
	for _, p := range participants {
		r.publish(ctx, inboxChannel(p))
	}
}

func (r *PgChatRepository) publish(ctx context.Context, channel string) {
	_ = r.rdb.Publish(ctx, channel, "changed").Err()
}
