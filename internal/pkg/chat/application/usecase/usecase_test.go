package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
	profile "tabangi/internal/pkg/profile/domain"
)

// fakeChatRepo is an in-memory ChatRepository that records the order of
// mutating calls and pushes fresh snapshots to watchers on every write.
type fakeChatRepo struct {
	mu            sync.Mutex
	conversations map[string]*chat.Conversation
	messages      map[string][]chat.Message
	ops           []string
	seq           int
	clock         time.Time

	failGet     error
	failSave    error
	failUpdate  error
	failList    error
	msgWatchers map[string][]chan []chat.Message
	convWatch   map[string][]chan []chat.Conversation
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		conversations: map[string]*chat.Conversation{},
		messages:      map[string][]chat.Message{},
		clock:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		msgWatchers:   map[string][]chan []chat.Message{},
		convWatch:     map[string][]chan []chat.Conversation{},
	}
}

func (f *fakeChatRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeChatRepo) GetConversation(_ context.Context, id string) (*chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "GetConversation")
	if f.failGet != nil {
		return nil, f.failGet
	}
	conv, ok := f.conversations[id]
	if !ok {
		return nil, chat.ErrNotFound
	}
	cp := *conv
	cp.Unread = map[string]bool{}
	for k, v := range conv.Unread {
		cp.Unread[k] = v
	}
	return &cp, nil
}

func (f *fakeChatRepo) CreateConversation(_ context.Context, c chat.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "CreateConversation")
	if _, ok := f.conversations[c.ID]; ok {
		return nil
	}
	f.conversations[c.ID] = &c
	return nil
}

func (f *fakeChatRepo) SetUnread(_ context.Context, id, userID string, unread bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "SetUnread")
	conv, ok := f.conversations[id]
	if !ok {
		return chat.ErrNotFound
	}
	conv.Unread[userID] = unread
	return nil
}

func (f *fakeChatRepo) SaveMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "SaveMessage")
	if f.failSave != nil {
		return chat.Message{}, f.failSave
	}
	f.seq++
	m.ID = fmt.Sprintf("m%d", f.seq)
	m.Timestamp = f.tick()
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], m)
	f.emitMessagesLocked(m.ConversationID)
	return m, nil
}

func (f *fakeChatRepo) UpdateSummary(_ context.Context, id, lastMessage, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "UpdateSummary")
	if f.failUpdate != nil {
		return f.failUpdate
	}
	conv, ok := f.conversations[id]
	if !ok {
		return chat.ErrNotFound
	}
	conv.LastMessage = lastMessage
	conv.LastUpdated = f.tick()
	conv.Unread[recipientID] = true
	f.emitConversationsLocked()
	return nil
}

func (f *fakeChatRepo) MessagesByConversation(_ context.Context, id string) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	return f.orderedMessagesLocked(id), nil
}

// orderedMessagesLocked mirrors the store's ORDER BY timestamp ASC read.
func (f *fakeChatRepo) orderedMessagesLocked(id string) []chat.Message {
	msgs := append([]chat.Message(nil), f.messages[id]...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	return msgs
}

func (f *fakeChatRepo) ConversationsByParticipant(_ context.Context, userID string) ([]chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	return f.conversationsForLocked(userID), nil
}

func (f *fakeChatRepo) WatchMessages(_ context.Context, id string) (*repository.MessageSubscription, error) {
	f.mu.Lock()
	ch := make(chan []chat.Message, 1)
	f.msgWatchers[id] = append(f.msgWatchers[id], ch)
	ch <- f.orderedMessagesLocked(id)
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		watchers := f.msgWatchers[id]
		for i, w := range watchers {
			if w == ch {
				f.msgWatchers[id] = append(watchers[:i], watchers[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return repository.NewMessageSubscription(ch, cancel), nil
}

func (f *fakeChatRepo) WatchConversations(_ context.Context, userID string) (*repository.ConversationSubscription, error) {
	f.mu.Lock()
	ch := make(chan []chat.Conversation, 1)
	f.convWatch[userID] = append(f.convWatch[userID], ch)
	ch <- f.conversationsForLocked(userID)
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		watchers := f.convWatch[userID]
		for i, w := range watchers {
			if w == ch {
				f.convWatch[userID] = append(watchers[:i], watchers[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return repository.NewConversationSubscription(ch, cancel), nil
}

func (f *fakeChatRepo) conversationsForLocked(userID string) []chat.Conversation {
	out := []chat.Conversation{}
	for _, conv := range f.conversations {
		if conv.HasParticipant(userID) {
			out = append(out, *conv)
		}
	}
	return out
}

func (f *fakeChatRepo) emitMessagesLocked(id string) {
	snapshot := f.orderedMessagesLocked(id)
	for _, ch := range f.msgWatchers[id] {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func (f *fakeChatRepo) emitConversationsLocked() {
	for userID, watchers := range f.convWatch {
		snapshot := f.conversationsForLocked(userID)
		for _, ch := range watchers {
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

func (f *fakeChatRepo) seed(t *testing.T, selfID, otherID string) *chat.Conversation {
	t.Helper()
	conv, err := chat.NewConversation(selfID, otherID)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	f.conversations[conv.ID] = &conv
	return &conv
}

// fakeProfiles serves canned summaries and can fail per user id.
type fakeProfiles struct {
	summaries map[string]profile.Summary
	fail      map[string]error
}

func (f *fakeProfiles) Summary(_ context.Context, userID string) (profile.Summary, error) {
	if err := f.fail[userID]; err != nil {
		return profile.Summary{}, err
	}
	s, ok := f.summaries[userID]
	if !ok {
		return profile.Summary{}, profile.ErrNotFound
	}
	return s, nil
}

func TestOpenConversationCreatesOnFirstVisit(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewOpenConversationUseCase(repo)

	conv, err := uc.Execute(context.Background(), OpenConversationInput{SelfID: "alice", OtherID: "bob"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if conv.ID != "alice_bob" {
		t.Fatalf("ID = %q, want alice_bob", conv.ID)
	}
	if conv.Unread["alice"] || !conv.Unread["bob"] {
		t.Fatalf("Unread = %v, want alice read and bob unread", conv.Unread)
	}
	if _, ok := repo.conversations["alice_bob"]; !ok {
		t.Fatal("conversation was not persisted")
	}
}

func TestOpenConversationSecondVisitClearsOnlyOwnFlag(t *testing.T) {
	repo := newFakeChatRepo()
	conv := repo.seed(t, "bob", "alice")
	conv.Unread["alice"] = true
	conv.Unread["bob"] = true
	uc := NewOpenConversationUseCase(repo)

	got, err := uc.Execute(context.Background(), OpenConversationInput{SelfID: "alice", OtherID: "bob"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Unread["alice"] {
		t.Error("viewer flag not cleared")
	}
	if !got.Unread["bob"] {
		t.Error("counterpart flag was touched")
	}
	stored := repo.conversations["alice_bob"]
	if stored.Unread["alice"] || !stored.Unread["bob"] {
		t.Fatalf("persisted Unread = %v, want only alice cleared", stored.Unread)
	}
	for _, op := range repo.ops {
		if op == "CreateConversation" {
			t.Fatal("second visit recreated the conversation")
		}
	}
}

func TestOpenConversationRejectsSelfThread(t *testing.T) {
	uc := NewOpenConversationUseCase(newFakeChatRepo())
	_, err := uc.Execute(context.Background(), OpenConversationInput{SelfID: "alice", OtherID: "alice"})
	if !errors.Is(err, chat.ErrInvalidParticipants) {
		t.Fatalf("err = %v, want ErrInvalidParticipants", err)
	}
}

func TestSendMessageAppendsThenUpdatesSummary(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	uc := NewSendMessageUseCase(repo)

	saved, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob",
		SenderID:       "alice",
		Text:           "kumusta",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if saved.ID == "" || saved.Timestamp.IsZero() {
		t.Fatalf("store-assigned fields missing: %+v", saved)
	}

	wantOps := []string{"GetConversation", "SaveMessage", "UpdateSummary"}
	if len(repo.ops) != len(wantOps) {
		t.Fatalf("ops = %v, want %v", repo.ops, wantOps)
	}
	for i := range wantOps {
		if repo.ops[i] != wantOps[i] {
			t.Fatalf("ops = %v, want %v", repo.ops, wantOps)
		}
	}

	conv := repo.conversations["alice_bob"]
	if conv.LastMessage != "kumusta" {
		t.Errorf("LastMessage = %q, want kumusta", conv.LastMessage)
	}
	if conv.LastUpdated.IsZero() {
		t.Error("LastUpdated not advanced")
	}
	if !conv.Unread["bob"] {
		t.Error("recipient not flagged unread")
	}
	if conv.Unread["alice"] {
		t.Error("sender flagged unread")
	}
}

type fakeNotifier struct {
	users    []string
	payloads []string
}

func (n *fakeNotifier) NotifyUser(userID string, payload []byte) bool {
	n.users = append(n.users, userID)
	n.payloads = append(n.payloads, string(payload))
	return true
}

func TestSendMessageNotifiesRecipientAfterSummary(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	notifier := &fakeNotifier{}
	uc := NewSendMessageUseCase(repo)
	uc.Notifier = notifier

	if _, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob",
		SenderID:       "alice",
		Text:           "kumusta",
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(notifier.users) != 1 || notifier.users[0] != "bob" {
		t.Fatalf("notified users = %v, want [bob]", notifier.users)
	}
	if !strings.Contains(notifier.payloads[0], `"conversationId":"alice_bob"`) {
		t.Fatalf("payload = %s, want conversation id", notifier.payloads[0])
	}
}

func TestSendMessageSummaryFailureSkipsNotify(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	repo.failUpdate = errors.New("summary write refused")
	notifier := &fakeNotifier{}
	uc := NewSendMessageUseCase(repo)
	uc.Notifier = notifier

	if _, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob",
		SenderID:       "alice",
		Text:           "kumusta",
	}); err == nil {
		t.Fatal("expected summary failure")
	}
	if len(notifier.users) != 0 {
		t.Fatalf("notified users = %v, want none", notifier.users)
	}
}

func TestSendMessageEmptyTextWritesNothing(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	uc := NewSendMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob",
		SenderID:       "alice",
		Text:           "   ",
	})
	if !errors.Is(err, chat.ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if len(repo.ops) != 0 {
		t.Fatalf("store was touched: ops = %v", repo.ops)
	}
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	uc := NewSendMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob",
		SenderID:       "mallory",
		Text:           "hi",
	})
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("err = %v, want ErrNotParticipant", err)
	}
	if len(repo.messages["alice_bob"]) != 0 {
		t.Fatal("message from non-participant was stored")
	}
}

func TestSendMessageUnknownConversation(t *testing.T) {
	uc := NewSendMessageUseCase(newFakeChatRepo())
	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob",
		SenderID:       "alice",
		Text:           "hi",
	})
	if !errors.Is(err, chat.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSendMessageSummaryFailureKeepsAppendedMessage(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	repo.failUpdate = errors.New("boom")
	uc := NewSendMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob",
		SenderID:       "alice",
		Text:           "hi",
	})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	// The append happened first and is not rolled back.
	if len(repo.messages["alice_bob"]) != 1 {
		t.Fatalf("messages = %d, want the appended message to survive", len(repo.messages["alice_bob"]))
	}
	if repo.conversations["alice_bob"].LastMessage != "" {
		t.Fatal("summary advanced despite failure")
	}
}

func TestGetMessagesReturnsAscendingOrder(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	send := NewSendMessageUseCase(repo)
	for _, text := range []string{"one", "two", "three"} {
		if _, err := send.Execute(context.Background(), SendMessageInput{
			ConversationID: "alice_bob", SenderID: "alice", Text: text,
		}); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}

	uc := NewGetMessageUseCase(repo)
	msgs, err := uc.Execute(context.Background(), "alice_bob")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatalf("messages out of order at %d: %v", i, msgs)
		}
	}
	if msgs[0].Text != "one" || msgs[2].Text != "three" {
		t.Fatalf("texts = %q..%q, want one..three", msgs[0].Text, msgs[2].Text)
	}
}

func TestGetMessagesWrapsStoreFailure(t *testing.T) {
	repo := newFakeChatRepo()
	repo.failList = errors.New("boom")
	uc := NewGetMessageUseCase(repo)
	if _, err := uc.Execute(context.Background(), "alice_bob"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestStreamMessagesDeliversGrowingSnapshots(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	stream := NewStreamMessagesUseCase(repo)

	sub, err := stream.Execute(context.Background(), "alice_bob")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	defer sub.Cancel()

	if first := recvMessages(t, sub.C); len(first) != 0 {
		t.Fatalf("initial snapshot = %d messages, want 0", len(first))
	}

	send := NewSendMessageUseCase(repo)
	if _, err := send.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob", SenderID: "bob", Text: "hello",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	next := recvMessages(t, sub.C)
	if len(next) != 1 || next[0].Text != "hello" {
		t.Fatalf("snapshot = %+v, want one hello message", next)
	}
}

func TestStreamMessagesCancelClosesAndIsIdempotent(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	stream := NewStreamMessagesUseCase(repo)

	sub, err := stream.Execute(context.Background(), "alice_bob")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	recvMessages(t, sub.C)

	sub.Cancel()
	sub.Cancel()

	select {
	case _, ok := <-sub.C:
		if ok {
			t.Fatal("snapshot after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func recvMessages(t *testing.T, c <-chan []chat.Message) []chat.Message {
	t.Helper()
	select {
	case msgs, ok := <-c:
		if !ok {
			t.Fatal("subscription channel closed early")
		}
		return msgs
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func inboxProfiles() *fakeProfiles {
	return &fakeProfiles{
		summaries: map[string]profile.Summary{
			"bob":   {ID: "bob", FirstName: "Bob", LastName: "Reyes"},
			"carol": {ID: "carol", DisplayName: "Carol"},
		},
		fail: map[string]error{"dave": errors.New("lookup down")},
	}
}

func TestInboxSnapshotJoinsSortsAndDropsFailedRows(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "carol").LastUpdated = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.seed(t, "alice", "bob").LastUpdated = time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	repo.seed(t, "alice", "dave").LastUpdated = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	uc := NewStreamInboxUseCase(repo, inboxProfiles(), zerolog.Nop())
	entries, err := uc.Snapshot(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	// dave's profile lookup fails, so his row is dropped; the rest are
	// newest first.
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Counterpart.ID != "bob" {
		t.Errorf("entries[0] counterpart = %q, want bob", entries[0].Counterpart.ID)
	}
	if entries[1].Counterpart.Name() != "Carol" {
		t.Errorf("entries[1] name = %q, want Carol", entries[1].Counterpart.Name())
	}
}

func TestInboxSnapshotRejectsEmptyUser(t *testing.T) {
	uc := NewStreamInboxUseCase(newFakeChatRepo(), inboxProfiles(), zerolog.Nop())
	if _, err := uc.Snapshot(context.Background(), ""); !errors.Is(err, chat.ErrInvalidParticipants) {
		t.Fatalf("err = %v, want ErrInvalidParticipants", err)
	}
}

func TestInboxStreamEmitsProjectedSnapshots(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	uc := NewStreamInboxUseCase(repo, inboxProfiles(), zerolog.Nop())

	sub, err := uc.Execute(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	defer sub.Cancel()

	select {
	case entries, ok := <-sub.C:
		if !ok {
			t.Fatal("inbox channel closed early")
		}
		if len(entries) != 1 || entries[0].Counterpart.ID != "bob" {
			t.Fatalf("entries = %+v, want one bob row", entries)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for inbox snapshot")
	}

	send := NewSendMessageUseCase(repo)
	if _, err := send.Execute(context.Background(), SendMessageInput{
		ConversationID: "alice_bob", SenderID: "bob", Text: "ping",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case entries, ok := <-sub.C:
		if !ok {
			t.Fatal("inbox channel closed early")
		}
		if len(entries) != 1 || entries[0].Conversation.LastMessage != "ping" {
			t.Fatalf("entries = %+v, want updated last message", entries)
		}
		if !entries[0].Conversation.IsUnread("alice") {
			t.Fatal("recipient row not flagged unread")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for updated snapshot")
	}
}

func TestGetMessagesOrdersByTimestampNotInsertion(t *testing.T) {
	repo := newFakeChatRepo()
	repo.seed(t, "alice", "bob")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// Stored out of submission order; reads sort by store timestamp.
	repo.messages["alice_bob"] = []chat.Message{
		{ID: "m2", ConversationID: "alice_bob", SenderID: "alice", Text: "second", Timestamp: base.Add(2 * time.Second)},
		{ID: "m1", ConversationID: "alice_bob", SenderID: "bob", Text: "first", Timestamp: base.Add(time.Second)},
		{ID: "m3", ConversationID: "alice_bob", SenderID: "alice", Text: "third", Timestamp: base.Add(3 * time.Second)},
	}

	uc := NewGetMessageUseCase(repo)
	msgs, err := uc.Execute(context.Background(), "alice_bob")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := []string{msgs[0].Text, msgs[1].Text, msgs[2].Text}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAliceAndBobConversationLifecycle(t *testing.T) {
	repo := newFakeChatRepo()
	open := NewOpenConversationUseCase(repo)
	send := NewSendMessageUseCase(repo)
	inbox := NewStreamInboxUseCase(repo, &fakeProfiles{
		summaries: map[string]profile.Summary{
			"alice": {ID: "alice", FirstName: "Alice"},
			"bob":   {ID: "bob", FirstName: "Bob"},
		},
	}, zerolog.Nop())
	ctx := context.Background()

	// Both directions land on the same thread.
	fromAlice, err := open.Execute(ctx, OpenConversationInput{SelfID: "alice", OtherID: "bob"})
	if err != nil {
		t.Fatalf("alice opens: %v", err)
	}
	fromBob, err := open.Execute(ctx, OpenConversationInput{SelfID: "bob", OtherID: "alice"})
	if err != nil {
		t.Fatalf("bob opens: %v", err)
	}
	if fromAlice.ID != "alice_bob" || fromBob.ID != "alice_bob" {
		t.Fatalf("ids = %q, %q, want alice_bob both ways", fromAlice.ID, fromBob.ID)
	}

	if _, err := send.Execute(ctx, SendMessageInput{
		ConversationID: "alice_bob", SenderID: "alice", Text: "Hello",
	}); err != nil {
		t.Fatalf("alice sends: %v", err)
	}
	conv := repo.conversations["alice_bob"]
	if !conv.Unread["bob"] || conv.Unread["alice"] {
		t.Fatalf("after send Unread = %v, want bob unseen only", conv.Unread)
	}

	if _, err := open.Execute(ctx, OpenConversationInput{SelfID: "bob", OtherID: "alice"}); err != nil {
		t.Fatalf("bob reopens: %v", err)
	}
	if conv.Unread["bob"] {
		t.Fatal("bob's flag not cleared on open")
	}

	entries, err := inbox.Snapshot(ctx, "alice")
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if got := chat.FilterByName(entries, "bo"); len(got) != 1 || got[0].Counterpart.ID != "bob" {
		t.Fatalf("filter %q = %+v, want bob's row", "bo", got)
	}
	if got := chat.FilterByName(entries, "zzz"); len(got) != 0 {
		t.Fatalf("filter %q = %+v, want empty", "zzz", got)
	}
}
