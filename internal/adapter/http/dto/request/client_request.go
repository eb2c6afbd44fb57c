package request

import (
	"strings"

	"marcenaria_pro/internal/domain/entities"
)

type ClientRequest struct {
	OwnerID string `json:"owner_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (r ClientRequest) ToEntity() entities.Client {
	return entities.Client{
		OwnerID: strings.TrimSpace(r.OwnerID),
		Name:    strings.TrimSpace(r.Name),
		Phone:   strings.TrimSpace(r.Phone),
		Email:   strings.TrimSpace(r.Email),
		Address: strings.TrimSpace(r.Address),
		Notes:   r.Notes,
	}
}
