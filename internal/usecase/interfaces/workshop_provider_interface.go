package interfaces

import "context"

// IWorkshopSettingsProvider supplies the live workshop figures read at the
// moment project costs are frozen or priced. Both methods report 0 when the
// owner has no settings record yet.

type IWorkshopSettingsProvider interface {
	DailyCost(ctx context.Context, ownerID string) (float64, error)
	TaxPercentage(ctx context.Context, ownerID string) (float64, error)
}
