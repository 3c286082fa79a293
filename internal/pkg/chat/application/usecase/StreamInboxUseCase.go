package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	chat "tabangi/internal/pkg/chat/application/domain"
	repository "tabangi/internal/pkg/chat/persistence/repository/port"
	profile "tabangi/internal/pkg/profile/domain"
)

// ProfileReader is the slice of the profile subsystem the inbox projection
// needs: summary lookups by id. The messaging core never mutates profiles.
type ProfileReader interface {
	Summary(ctx context.Context, userID string) (profile.Summary, error)
}

// InboxSubscription is a cancellable stream of projected inbox snapshots.
type InboxSubscription struct {
	C <-chan []chat.InboxEntry

	once   sync.Once
	cancel func()
}

// Cancel stops the projection and the underlying conversation watch. Safe to
// call multiple times.
func (s *InboxSubscription) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// StreamInboxUseCase projects the conversation list for one user: every
// conversation they participate in, joined with the counterpart's profile
// summary, most recent first. A failed join drops only that row, logged at
// warn level; the rest of the batch still emits.
type StreamInboxUseCase struct {
	Repo     repository.ChatRepository
	Profiles ProfileReader
	Log      zerolog.Logger
}

func NewStreamInboxUseCase(repo repository.ChatRepository, profiles ProfileReader, log zerolog.Logger) *StreamInboxUseCase {
	return &StreamInboxUseCase{Repo: repo, Profiles: profiles, Log: log}
}

// Execute starts the live projection. Each underlying change yields a new
// fully joined, re-sorted snapshot.
func (uc *StreamInboxUseCase) Execute(ctx context.Context, selfID string) (*InboxSubscription, error) {
	if selfID == "" {
		return nil, chat.ErrInvalidParticipants
	}

	wctx, cancel := context.WithCancel(ctx)
	upstream, err := uc.Repo.WatchConversations(wctx, selfID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	out := make(chan []chat.InboxEntry, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-wctx.Done():
				return
			case convs, ok := <-upstream.C:
				if !ok {
					return
				}
				entries := uc.project(wctx, selfID, convs)
				select {
				case <-out:
				default:
				}
				select {
				case out <- entries:
				case <-wctx.Done():
					return
				}
			}
		}
	}()

	return &InboxSubscription{C: out, cancel: func() {
		cancel()
		upstream.Cancel()
	}}, nil
}

// Snapshot runs the projection once over the current conversation set, for
// the non-streaming inbox endpoint.
func (uc *StreamInboxUseCase) Snapshot(ctx context.Context, selfID string) ([]chat.InboxEntry, error) {
	if selfID == "" {
		return nil, chat.ErrInvalidParticipants
	}
	convs, err := uc.Repo.ConversationsByParticipant(ctx, selfID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return uc.project(ctx, selfID, convs), nil
}

// project joins each conversation with its counterpart's summary. Joins run
// concurrently and the result is re-sorted once all of them settle, since
// completion order does not match store order.
func (uc *StreamInboxUseCase) project(ctx context.Context, selfID string, convs []chat.Conversation) []chat.InboxEntry {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		entries = make([]chat.InboxEntry, 0, len(convs))
	)

	for _, conv := range convs {
		counterpart, ok := conv.Counterpart(selfID)
		if !ok {
			uc.Log.Warn().Str("conversation", conv.ID).Msg("inbox: conversation without counterpart, dropping row")
			continue
		}

		wg.Add(1)
		go func(conv chat.Conversation, counterpart string) {
			defer wg.Done()
			summary, err := uc.Profiles.Summary(ctx, counterpart)
			if err != nil {
				uc.Log.Warn().
					Err(err).
					Str("conversation", conv.ID).
					Str("counterpart", counterpart).
					Msg("inbox: counterpart lookup failed, dropping row")
				return
			}
			mu.Lock()
			entries = append(entries, chat.InboxEntry{Conversation: conv, Counterpart: summary})
			mu.Unlock()
		}(conv, counterpart)
	}
	wg.Wait()

	chat.SortByRecency(entries)
	return entries
}
