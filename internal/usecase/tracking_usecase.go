package usecase

import (
	"context"
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase/interfaces"
)

// TimelineStatus is the public rendering state of a stage on the customer
// tracking page.

type TimelineStatus string

const (
	TimelineCompleted TimelineStatus = "completed" // check
	TimelineCurrent   TimelineStatus = "current"   // clock
	TimelineSkipped   TimelineStatus = "skipped"   // dash: a later stage is done, this one isn't
	TimelineCanceled  TimelineStatus = "canceled"  // x
	TimelinePending   TimelineStatus = "pending"   // empty circle
)

// TimelineEntry is one rendered stage of the public tracking timeline.
type TimelineEntry struct {
	Stage  entities.StageID `json:"stage"`
	Status TimelineStatus   `json:"status"`
	Date   *time.Time       `json:"date,omitempty"`
}

// Tracking is the read-only public view of a project's progress.
type Tracking struct {
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`
	ClientName  string          `json:"client_name"`
	Canceled    bool            `json:"canceled"`
	Timeline    []TimelineEntry `json:"timeline"`
}

// ITrackingUseCase serves the public /tracking/{projectId} surface.

type ITrackingUseCase interface {
	GetByProjectID(ctx context.Context, projectID string) (Tracking, error)
}

type TrackingUseCase struct {
	repo interfaces.IProjectRepository
}

var _ ITrackingUseCase = (*TrackingUseCase)(nil)

func NewTrackingUseCase(repo interfaces.IProjectRepository) *TrackingUseCase {
	return &TrackingUseCase{repo: repo}
}

// GetByProjectID derives the timeline. The nine linear stages are always
// present; the cancellation stage is appended only when it was triggered.
func (u *TrackingUseCase) GetByProjectID(ctx context.Context, projectID string) (Tracking, error) {
	if projectID == "" {
		return Tracking{}, ErrInvalidProjectID
	}

	p, err := u.repo.GetByID(ctx, projectID)
	if err != nil {
		return Tracking{}, err
	}
	if p.ID == "" {
		return Tracking{}, ErrProjectNotFound
	}

	t := Tracking{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		ClientName:  p.ClientName,
		Canceled:    p.Stages.ProjetoCancelado.Completed,
	}

	lastCompleted := -1
	for i, id := range entities.StageSequence {
		if p.Stages.ByID(id).Completed {
			lastCompleted = i
		}
	}

	for i, id := range entities.StageSequence {
		st := p.Stages.ByID(id)
		entry := TimelineEntry{Stage: id, Date: st.Date}
		switch {
		case st.Completed:
			entry.Status = TimelineCompleted
		case i < lastCompleted:
			entry.Status = TimelineSkipped
		case i == lastCompleted+1 && !t.Canceled:
			entry.Status = TimelineCurrent
		default:
			entry.Status = TimelinePending
		}
		t.Timeline = append(t.Timeline, entry)
	}

	if t.Canceled {
		t.Timeline = append(t.Timeline, TimelineEntry{
			Stage:  entities.StageProjetoCancelado,
			Status: TimelineCanceled,
			Date:   p.Stages.ProjetoCancelado.Date,
		})
	}
	return t, nil
}
