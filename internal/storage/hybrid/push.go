package hybrid

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/comptaflow/comptaflow/internal/model"
	"github.com/comptaflow/comptaflow/internal/storage"
)

// Push delivers queued changes to the cloud in FIFO order over a snapshot of
// the queue. Delivered items leave the queue; failed items stay for the next
// cycle until the retry ceiling demotes them to dropped conflicts. Offline or
// already-pushing attempts return immediately with zero work done and an
// explanatory error in the result; they never throw, so a network failure
// cannot interrupt the surrounding workflow.
func (s *Store) Push(ctx context.Context) model.SyncResult {
	res := model.SyncResult{Errors: []string{}}

	if !s.syncing.CompareAndSwap(false, true) {
		res.Errors = append(res.Errors, "push already in progress")
		return res
	}
	defer s.syncing.Store(false)

	if !s.remote.Online(ctx) {
		res.Errors = append(res.Errors, fmt.Sprintf("offline: %v", storage.ErrOffline))
		return res
	}

	now := s.now()
	for _, item := range s.queue.Snapshot() {
		if item.NextAttempt.After(now) {
			continue
		}

		err := s.remote.Apply(ctx, item)
		if err == nil {
			if err := s.queue.Remove(ctx, item.ID); err != nil {
				res.Errors = append(res.Errors, err.Error())
				continue
			}
			res.Pushed++
			continue
		}

		item.Retries++
		item.LastError = err.Error()
		if item.Retries >= s.retryCeiling {
			// The change is permanently lost from the sync perspective.
			res.Conflicts++
			conflict := &storage.SyncConflictError{
				Table:   storage.Table(item.Table),
				ID:      item.EntityID,
				Retries: item.Retries,
				Cause:   err,
			}
			res.Errors = append(res.Errors, conflict.Error())
			s.log.Warn("dropping queued change",
				zap.String("table", item.Table),
				zap.String("entity_id", item.EntityID),
				zap.Int("retries", item.Retries),
				zap.Error(err))
			if err := s.queue.Remove(ctx, item.ID); err != nil {
				res.Errors = append(res.Errors, err.Error())
			}
			continue
		}

		item.NextAttempt = now.Add(s.backoff.Delay(item.Retries))
		if err := s.queue.Update(ctx, item); err != nil {
			res.Errors = append(res.Errors, err.Error())
		}
		s.log.Debug("delivery failed, will retry",
			zap.String("table", item.Table),
			zap.String("entity_id", item.EntityID),
			zap.Int("retries", item.Retries),
			zap.Time("next_attempt", item.NextAttempt))
	}

	if err := s.setWatermark(ctx, now); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("persisting watermark: %v", err))
	}

	s.log.Info("push complete",
		zap.Int("pushed", res.Pushed),
		zap.Int("conflicts", res.Conflicts),
		zap.Int("remaining", s.queue.Len()))
	return res
}
