package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mindwell/moodboard/internal/api"
)

// Sender delivers queued writes. *api.Client satisfies it.
type Sender interface {
	CreateCheckIn(ctx context.Context, req api.CheckInRequest) (api.CheckIn, error)
	CreateJournalEntry(ctx context.Context, req api.JournalRequest) (api.JournalEntry, error)
}

type FlushResult struct {
	Processed int
	Delivered int
	Rejected  int
	// Stopped is set when the API went unavailable mid-flush; the rest of the
	// queue is left untouched.
	Stopped bool
}

// Flush replays pending items oldest first. It stops at the first
// unavailable error so later writes never overtake earlier ones. Items the API
// rejects outright are parked as rejected.
func (s *Store) Flush(ctx context.Context, sender Sender, limit int) (FlushResult, error) {
	if s == nil || sender == nil {
		return FlushResult{}, fmt.Errorf("outbox: store/sender is not configured")
	}
	pending, err := s.Pending(ctx, limit)
	if err != nil {
		return FlushResult{}, err
	}

	var result FlushResult
	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		sendErr := deliver(ctx, sender, item)
		switch {
		case sendErr == nil:
			if err := s.MarkDone(ctx, item.ID); err != nil {
				return result, err
			}
			result.Delivered++
		case api.IsUnavailable(sendErr) || ctx.Err() != nil:
			_ = s.MarkFailed(ctx, item.ID, sendErr, false)
			result.Stopped = true
			log.Printf("[outbox] API unavailable, %d item(s) left queued: %v", len(pending)-result.Processed+1, sendErr)
			return result, nil
		default:
			if err := s.MarkFailed(ctx, item.ID, sendErr, true); err != nil {
				return result, err
			}
			result.Rejected++
			log.Printf("[outbox] %s %s rejected: %v", item.Kind, item.ID, sendErr)
		}
	}
	return result, nil
}

func deliver(ctx context.Context, sender Sender, item Item) error {
	switch item.Kind {
	case KindCheckIn:
		var req api.CheckInRequest
		if err := json.Unmarshal(item.Payload, &req); err != nil {
			return fmt.Errorf("decode check-in: %w", err)
		}
		_, err := sender.CreateCheckIn(ctx, req)
		return err
	case KindJournal:
		var req api.JournalRequest
		if err := json.Unmarshal(item.Payload, &req); err != nil {
			return fmt.Errorf("decode journal entry: %w", err)
		}
		_, err := sender.CreateJournalEntry(ctx, req)
		return err
	default:
		return fmt.Errorf("unknown outbox kind %q", item.Kind)
	}
}
