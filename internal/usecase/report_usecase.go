package usecase

import (
	"context"

	"marcenaria_pro/internal/domain/workflow"
	"marcenaria_pro/internal/usecase/interfaces"
)

// ProjectReport is the financial view of one project.
type ProjectReport struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ClientName  string  `json:"client_name"`
	Completed   bool    `json:"completed"`
	Canceled    bool    `json:"canceled"`
	TotalCost   float64 `json:"total_cost"`
	FinalPrice  float64 `json:"final_price"`
	Frozen      bool    `json:"frozen"`

	// RealCost and CostVariance are only present once the installation stage
	// recorded the amount actually spent.
	RealCost     *float64 `json:"real_cost,omitempty"`
	CostVariance *float64 `json:"cost_variance,omitempty"`
}

// FinancialReport aggregates an owner's portfolio.
type FinancialReport struct {
	OwnerID           string          `json:"owner_id"`
	ActiveProjects    int             `json:"active_projects"`
	CompletedProjects int             `json:"completed_projects"`
	CanceledProjects  int             `json:"canceled_projects"`
	TotalQuoted       float64         `json:"total_quoted"`
	TotalCost         float64         `json:"total_cost"`
	Projects          []ProjectReport `json:"projects"`
}

// IReportUseCase derives financial reporting over an owner's projects.

type IReportUseCase interface {
	ByOwner(ctx context.Context, ownerID string) (FinancialReport, error)
}

type ReportUseCase struct {
	projectRepo  interfaces.IProjectRepository
	workshopRepo interfaces.IWorkshopSettingsRepository
}

var _ IReportUseCase = (*ReportUseCase)(nil)

func NewReportUseCase(projectRepo interfaces.IProjectRepository, workshopRepo interfaces.IWorkshopSettingsRepository) *ReportUseCase {
	return &ReportUseCase{projectRepo: projectRepo, workshopRepo: workshopRepo}
}

func (u *ReportUseCase) ByOwner(ctx context.Context, ownerID string) (FinancialReport, error) {
	if ownerID == "" {
		return FinancialReport{}, ErrInvalidOwnerID
	}

	projects, err := u.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return FinancialReport{}, err
	}

	// Canceled projects keep their frozen figures; live ones price against the
	// current workshop settings.
	settings, err := u.workshopRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return FinancialReport{}, err
	}
	inputs := workflow.PricingInputs{
		DailyCost:     settings.DailyCost(),
		TaxPercentage: settings.TaxPercentage,
	}

	report := FinancialReport{OwnerID: ownerID}
	for i := range projects {
		p := &projects[i]
		bd := workflow.Price(p, inputs)

		pr := ProjectReport{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			ClientName:  p.ClientName,
			Completed:   p.Stages.Instalacao.Completed,
			Canceled:    p.Stages.ProjetoCancelado.Completed,
			TotalCost:   bd.TotalCost,
			FinalPrice:  bd.FinalPrice,
			Frozen:      bd.Frozen,
		}
		if rc := p.Stages.Instalacao.RealCost; rc != nil {
			v := *rc - bd.TotalCost
			pr.RealCost = rc
			pr.CostVariance = &v
		}

		switch {
		case pr.Canceled:
			report.CanceledProjects++
		case pr.Completed:
			report.CompletedProjects++
		default:
			report.ActiveProjects++
		}
		if !pr.Canceled {
			report.TotalQuoted += pr.FinalPrice
			report.TotalCost += pr.TotalCost
		}
		report.Projects = append(report.Projects, pr)
	}
	return report, nil
}
