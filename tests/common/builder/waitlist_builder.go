//go:build unit || e2e

package builder

import (
	"time"

	domres "parkhub/internal/domain/reservation"
	"parkhub/internal/domain/slot"
	"parkhub/internal/domain/waitlist"
	reqdto "parkhub/internal/handler/dto/request"
	"parkhub/internal/usecase/commands"
	"parkhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type WaitlistBuilder struct {
	UserID     uuid.UUID
	FacilityID uuid.UUID
	SlotType   slot.Type
	StartTime  time.Time
	EndTime    time.Time
	Priority   int
	CreatedAt  time.Time
}

func NewWaitlistBuilder() *WaitlistBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &WaitlistBuilder{
		UserID:     uuid.New(),
		FacilityID: uuid.New(),
		SlotType:   slot.TypeStandard,
		StartTime:  now.Add(time.Hour),
		EndTime:    now.Add(3 * time.Hour),
		Priority:   0,
		CreatedAt:  now,
	}
}

func (w *WaitlistBuilder) With(mutate func(*WaitlistBuilder)) *WaitlistBuilder {
	mutate(w)
	return w
}

// Build methods
func (w *WaitlistBuilder) BuildDomain() (*waitlist.Entry, error) {
	window, err := domres.NewTimeWindow(w.StartTime, w.EndTime)
	if err != nil {
		return nil, err
	}
	return waitlist.NewEntry(w.UserID, w.FacilityID, w.SlotType, window, w.Priority, w.CreatedAt)
}

func (w *WaitlistBuilder) BuildJoinRequestDTO() reqdto.JoinWaitlistRequest {
	return reqdto.JoinWaitlistRequest{
		FacilityID: w.FacilityID,
		SlotType:   w.SlotType.String(),
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		Priority:   w.Priority,
	}
}

func (w *WaitlistBuilder) BuildJoinParams() commands.JoinWaitlistParams {
	return commands.JoinWaitlistParams{
		FacilityID: w.FacilityID,
		SlotType:   w.SlotType,
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		Priority:   w.Priority,
	}
}

func (w *WaitlistBuilder) BuildViewQuery() *queries.WaitlistEntryView {
	return &queries.WaitlistEntryView{
		ID:         uuid.New(),
		UserID:     w.UserID,
		FacilityID: w.FacilityID,
		SlotType:   w.SlotType.String(),
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		Status:     waitlist.StatusActive.String(),
		Priority:   w.Priority,
		CreatedAt:  w.CreatedAt,
	}
}

// Fluent builder methods
func (w *WaitlistBuilder) WithUserID(userID uuid.UUID) *WaitlistBuilder {
	w.UserID = userID
	return w
}

func (w *WaitlistBuilder) WithFacilityID(facilityID uuid.UUID) *WaitlistBuilder {
	w.FacilityID = facilityID
	return w
}

func (w *WaitlistBuilder) WithSlotType(slotType slot.Type) *WaitlistBuilder {
	w.SlotType = slotType
	return w
}

func (w *WaitlistBuilder) WithWindow(start, end time.Time) *WaitlistBuilder {
	w.StartTime = start
	w.EndTime = end
	return w
}

func (w *WaitlistBuilder) WithPriority(priority int) *WaitlistBuilder {
	w.Priority = priority
	return w
}

func (w *WaitlistBuilder) WithCreatedAt(createdAt time.Time) *WaitlistBuilder {
	w.CreatedAt = createdAt
	return w
}
