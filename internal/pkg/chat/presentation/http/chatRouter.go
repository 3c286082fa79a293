package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	qport "tabangi/internal/infrastructure/queue/port"
	"tabangi/internal/infrastructure/realtime"
	"tabangi/internal/pkg/chat/application/usecase"
	"tabangi/internal/pkg/chat/presentation/controller"
)

// Deps carries everything the chat endpoints need. The use cases are shared
// with the queue worker, so they are built once in main and passed down.
type Deps struct {
	Open   *usecase.OpenConversationUseCase
	Send   *usecase.SendMessageUseCase
	Get    *usecase.GetMessageUseCase
	Stream *usecase.StreamMessagesUseCase
	Inbox  *usecase.StreamInboxUseCase
	Queue  qport.Client
	Router *realtime.Router
	Log    zerolog.Logger
}

// RegisterRoutes registers the chat endpoints that require an authenticated user.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	openCtl := controller.NewOpenConversationController(deps.Open)
	sendMsgCtl := controller.NewSendMessageController(deps.Queue)
	getMsgCtl := controller.NewGetMessageController(deps.Get)
	socketCtl := controller.NewChatSocketController(deps.Router, deps.Open, deps.Send, deps.Stream, deps.Inbox, deps.Log)

	// POST /api/v1/chat/with/:userId -> open (or create) the thread with a user
	g.POST("/chat/with/:userId", openCtl.Handle())

	// POST /api/v1/chat/:conversationId -> send a message into a conversation
	g.POST("/chat/:conversationId", sendMsgCtl.Handle())

	// GET /api/v1/chat/:conversationId/messages -> fetch messages by conversation id
	g.GET("/chat/:conversationId/messages", getMsgCtl.Handle())

	// GET /api/v1/chat/ws -> websocket endpoint for realtime chat
	g.GET("/chat/ws", socketCtl.Handle())
}

// RegisterOptionalRoutes registers chat endpoints that tolerate an absent user.
// The inbox renders empty for anonymous callers instead of rejecting them.
func RegisterOptionalRoutes(g *gin.RouterGroup, deps Deps) {
	inboxCtl := controller.NewGetInboxController(deps.Inbox)

	// GET /api/v1/chat/inbox -> the caller's conversation list with profiles
	g.GET("/chat/inbox", inboxCtl.Handle())
}
