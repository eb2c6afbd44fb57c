package interfaces

import (
	"context"

	"marcenaria_pro/internal/domain/entities"
)

// IChatNotifier posts stage-progress notifications to an external chat webhook.
// Failures are logged by implementations and must never veto a mutation.

type IChatNotifier interface {
	NotifyStageCompleted(ctx context.Context, p entities.Project, stage entities.StageID) error
}
