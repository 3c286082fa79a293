package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"tabangi/internal/infrastructure/auth"
	"tabangi/internal/infrastructure/realtime"
	chat "tabangi/internal/pkg/chat/application/domain"
	"tabangi/internal/pkg/chat/application/usecase"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
)

// ChatSocketController is the realtime endpoint. A joined thread gets a live
// message watch whose snapshots are pushed to the client; the inbox frame
// does the same for the conversation list. Watches are cancelled on leave
// and when the socket goes away.
type ChatSocketController struct {
	router   *realtime.Router
	openUC   *usecase.OpenConversationUseCase
	sendUC   *usecase.SendMessageUseCase
	streamUC *usecase.StreamMessagesUseCase
	inboxUC  *usecase.StreamInboxUseCase
	log      zerolog.Logger
}

func NewChatSocketController(
	router *realtime.Router,
	openUC *usecase.OpenConversationUseCase,
	sendUC *usecase.SendMessageUseCase,
	streamUC *usecase.StreamMessagesUseCase,
	inboxUC *usecase.StreamInboxUseCase,
	log zerolog.Logger,
) *ChatSocketController {
	return &ChatSocketController{
		router:   router,
		openUC:   openUC,
		sendUC:   sendUC,
		streamUC: streamUC,
		inboxUC:  inboxUC,
		log:      log,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Mobile clients connect from app schemes, not browser origins.
		return true
	},
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	OtherID        string `json:"other_id,omitempty"`
	Text           string `json:"text,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type messagesFrame struct {
	Type           string            `json:"type"`
	ConversationID string            `json:"conversation_id"`
	Messages       []messageResponse `json:"messages"`
}

type inboxFrame struct {
	Type  string               `json:"type"`
	Chats []inboxEntryResponse `json:"chats"`
}

const (
	defaultReadTimeout = 60 * time.Second
	inflightTimeout    = 5 * time.Second
)

// session tracks the live watches owned by one socket.
type session struct {
	mu      sync.Mutex
	threads map[string]*repository.MessageSubscription
	inbox   *usecase.InboxSubscription
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.threads {
		sub.Cancel()
	}
	s.threads = map[string]*repository.MessageSubscription{}
	if s.inbox != nil {
		s.inbox.Cancel()
		s.inbox = nil
	}
}

// Handle upgrades the request and processes frames until the client
// disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.router.Attach(conn)
		sess := &session{threads: map[string]*repository.MessageSubscription{}}
		defer func() {
			sess.close()
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, ackFrame{Type: "connected"})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
					ctl.log.Debug().Err(err).Str("user", userID).Msg("socket: read ended")
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(c, conn, sess, frame)
			case "leave":
				ctl.handleLeave(conn, sess, frame)
			case "message":
				ctl.handleMessage(c, conn, frame)
			case "inbox":
				ctl.handleInbox(c, conn, sess)
			case "inbox_stop":
				ctl.handleInboxStop(conn, sess)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

// handleJoin opens the thread with the counterpart (creating the
// conversation if needed and clearing the viewer's unread flag), then starts
// a live message watch for it.
func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, sess *session, frame inboundFrame) {
	if frame.OtherID == "" {
		ctl.replyError(conn, "bad_request", "other_id is required")
		return
	}

	openCtx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
	conv, err := ctl.openUC.Execute(openCtx, usecase.OpenConversationInput{
		SelfID:  conn.UserID,
		OtherID: frame.OtherID,
	})
	cancel()
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	sess.mu.Lock()
	if _, ok := sess.threads[conv.ID]; ok {
		sess.mu.Unlock()
		ctl.reply(conn, ackFrame{Type: "joined", ConversationID: conv.ID})
		return
	}
	sess.mu.Unlock()

	// The watch outlives this frame; it is bounded by the socket lifetime.
	sub, err := ctl.streamUC.Execute(context.Background(), conv.ID)
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	sess.mu.Lock()
	sess.threads[conv.ID] = sub
	sess.mu.Unlock()

	go ctl.forwardMessages(conn, conv.ID, sub)

	ctl.reply(conn, ackFrame{Type: "joined", ConversationID: conv.ID})
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, sess *session, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}

	sess.mu.Lock()
	sub, ok := sess.threads[frame.ConversationID]
	delete(sess.threads, frame.ConversationID)
	sess.mu.Unlock()
	if ok {
		sub.Cancel()
	}

	ctl.reply(conn, ackFrame{Type: "left", ConversationID: frame.ConversationID})
}

func (ctl *ChatSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversation_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), inflightTimeout)
	defer cancel()

	_, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: frame.ConversationID,
		SenderID:       conn.UserID,
		Text:           frame.Text,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}
	// Delivery to both sides happens through their message watches.
	ctl.reply(conn, ackFrame{Type: "sent", ConversationID: frame.ConversationID})
}

func (ctl *ChatSocketController) handleInbox(c *gin.Context, conn *realtime.Connection, sess *session) {
	sess.mu.Lock()
	already := sess.inbox != nil
	sess.mu.Unlock()
	if already {
		ctl.reply(conn, ackFrame{Type: "inbox_started"})
		return
	}

	sub, err := ctl.inboxUC.Execute(context.Background(), conn.UserID)
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	sess.mu.Lock()
	sess.inbox = sub
	sess.mu.Unlock()

	go func() {
		for entries := range sub.C {
			payload, err := json.Marshal(inboxFrame{
				Type:  "inbox",
				Chats: toInboxResponses(conn.UserID, entries),
			})
			if err != nil {
				continue
			}
			if conn.Send(payload) != nil {
				sub.Cancel()
				return
			}
		}
	}()

	ctl.reply(conn, ackFrame{Type: "inbox_started"})
}

func (ctl *ChatSocketController) handleInboxStop(conn *realtime.Connection, sess *session) {
	sess.mu.Lock()
	sub := sess.inbox
	sess.inbox = nil
	sess.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
	ctl.reply(conn, ackFrame{Type: "inbox_stopped"})
}

func (ctl *ChatSocketController) forwardMessages(conn *realtime.Connection, conversationID string, sub *repository.MessageSubscription) {
	for msgs := range sub.C {
		payload, err := json.Marshal(messagesFrame{
			Type:           "messages",
			ConversationID: conversationID,
			Messages:       toMessageResponses(msgs),
		})
		if err != nil {
			continue
		}
		if conn.Send(payload) != nil {
			sub.Cancel()
			return
		}
	}
}

func (ctl *ChatSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidParticipants), errors.Is(err, chat.ErrEmptyMessage):
		ctl.replyError(conn, "bad_request", err.Error())
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", err.Error())
	case errors.Is(err, chat.ErrNotFound):
		ctl.replyError(conn, "not_found", err.Error())
	case errors.Is(err, usecase.ErrStoreUnavailable):
		ctl.replyError(conn, "store_unavailable", err.Error())
	default:
		ctl.replyError(conn, "internal_error", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code, msg string) {
	ctl.reply(conn, errorFrame{Type: "error", Code: code, Error: msg})
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, frame interface{}) {
	payload, err := json.Marshal(frame)
	if err != nil {
		ctl.log.Error().Err(err).Msg("socket: encode frame")
		return
	}
	_ = conn.Send(payload)
}
