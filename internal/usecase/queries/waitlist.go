package queries

import (
	"context"

	"github.com/google/uuid"
)

type WaitlistQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*WaitlistEntryView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*WaitlistEntryView, error)
}

type WaitlistViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WaitlistEntryView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*WaitlistEntryView, error)
	// QueuePosition counts how many Active entries for the same facility and
	// slot type rank ahead (higher priority, earlier created on ties), 1-based.
	QueuePosition(ctx context.Context, id uuid.UUID) (int, error)
}

type waitlistQueriesImpl struct {
	repo WaitlistViewRepo
}

func NewWaitlistQueries(repo WaitlistViewRepo) WaitlistQueries {
	return &waitlistQueriesImpl{repo: repo}
}

func (q *waitlistQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*WaitlistEntryView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, markRepoErr(err)
	}
	if view.UserID != actorID {
		return nil, ErrForbidden
	}
	if err := q.attachPosition(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *waitlistQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*WaitlistEntryView, error) {
	views, err := q.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, markRepoErr(err)
	}
	for _, v := range views {
		if err := q.attachPosition(ctx, v); err != nil {
			return nil, err
		}
	}
	return views, nil
}

// attachPosition fills QueuePosition for entries still waiting in line.
func (q *waitlistQueriesImpl) attachPosition(ctx context.Context, view *WaitlistEntryView) error {
	if view.Status != "Active" {
		return nil
	}
	pos, err := q.repo.QueuePosition(ctx, view.ID)
	if err != nil {
		return markRepoErr(err)
	}
	view.QueuePosition = &pos
	return nil
}
