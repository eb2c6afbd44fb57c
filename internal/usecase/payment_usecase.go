package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase/interfaces"
)

var (
	ErrPaymentNotFound            = errors.New("payment not found")
	ErrInvalidPaymentProjectID    = errors.New("invalid project_id")
	ErrInvalidProviderPayload     = errors.New("invalid payment provider payload")
	ErrProjectNotFrozen           = errors.New("project has no frozen final price")
	ErrPaymentGatewayBadRequest   = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized = errors.New("payment gateway unauthorized")
)

// IPaymentUseCase encapsulates the "charge the quoted price" behavior.
//
// A payment can only be created once the technical design is complete: the
// frozen final price is the source of truth for the transaction amount, so the
// quote the customer accepted is exactly what gets charged.

type IPaymentUseCase interface {
	CreateForProject(ctx context.Context, projectID string, providerPayload json.RawMessage) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByProjectID(ctx context.Context, projectID string) ([]entities.Payment, error)
}

type PaymentUseCase struct {
	repo        interfaces.IPaymentRepository
	projectRepo interfaces.IProjectRepository
	gateway     interfaces.IPaymentGateway
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, projectRepo interfaces.IProjectRepository, gateway interfaces.IPaymentGateway) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, projectRepo: projectRepo, gateway: gateway}
}

func (u *PaymentUseCase) CreateForProject(ctx context.Context, projectID string, providerPayload json.RawMessage) (entities.Payment, error) {
	log.Printf("[payment][usecase] create start raw_project_id=%q payload_len=%d", projectID, len(providerPayload))
	mockMode := isPaymentGatewayMockEnabled()

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return entities.Payment{}, ErrInvalidPaymentProjectID
	}
	if len(providerPayload) == 0 || !json.Valid(providerPayload) {
		if !mockMode {
			log.Printf("[payment][usecase] invalid payload project_id=%s", projectID)
			return entities.Payment{}, ErrInvalidProviderPayload
		}
		providerPayload = json.RawMessage("{}")
	}
	if u.gateway == nil {
		return entities.Payment{}, errors.New("payment gateway not configured")
	}

	p, err := u.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrProjectNotFound
	}
	if !p.Frozen() {
		log.Printf("[payment][usecase] project not frozen project_id=%s", projectID)
		return entities.Payment{}, ErrProjectNotFrozen
	}
	amount := *p.FrozenFinalPrice

	// The provider uses external_reference to reconcile events; the frozen
	// price in the store is the source of truth for the amount.
	var reqMap map[string]any
	if err := json.Unmarshal(providerPayload, &reqMap); err == nil {
		if _, ok := reqMap["external_reference"]; !ok {
			reqMap["external_reference"] = p.ID
		}
		if _, ok := reqMap["description"]; !ok {
			reqMap["description"] = fmt.Sprintf("Projeto %s", p.Name)
		}
		reqMap["transaction_amount"] = amount
		if b, err := json.Marshal(reqMap); err == nil {
			providerPayload = b
		}
	}

	providerPaymentID, providerStatus, providerResp, err := u.createProviderPayment(ctx, p, amount, providerPayload, mockMode)
	if err != nil {
		return entities.Payment{}, err
	}
	log.Printf("[payment][usecase] gateway success project_id=%s provider_payment_id=%s provider_status=%s", p.ID, providerPaymentID, providerStatus)

	status := entities.PaymentStatusAprovado
	if providerStatus != "approved" {
		status = entities.PaymentStatusPendente
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Printf("[payment][usecase] provider response unmarshal failed project_id=%s err=%v", p.ID, err)
	}

	payment := entities.Payment{
		ID:                 providerPaymentID,
		ProjectID:          p.ID,
		Amount:             amount,
		Date:               time.Now().UTC(),
		Status:             status,
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, payment)
	if err != nil {
		log.Printf("[payment][usecase] payment repository create failed project_id=%s payment_id=%s err=%v", p.ID, payment.ID, err)
		return entities.Payment{}, err
	}
	return created, nil
}

func (u *PaymentUseCase) createProviderPayment(ctx context.Context, p entities.Project, amount float64, payload json.RawMessage, mockMode bool) (string, string, json.RawMessage, error) {
	if mockMode {
		log.Printf("[payment][usecase] mock mode enabled; skipping external payment gateway project_id=%s", p.ID)
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		now := time.Now().UTC().Format(time.RFC3339Nano)
		resp := map[string]any{}
		_ = json.Unmarshal(payload, &resp)
		resp["id"] = id
		resp["status"] = "approved"
		resp["status_detail"] = "accredited"
		resp["date_created"] = now
		resp["date_approved"] = now
		resp["external_reference"] = p.ID
		resp["transaction_amount"] = amount
		b, err := json.Marshal(resp)
		if err != nil {
			return "", "", nil, err
		}
		return id, "approved", b, nil
	}

	id, status, resp, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		log.Printf("[payment][usecase] payment gateway failed project_id=%s err=%v", p.ID, err)
		if isGatewayUnauthorized(err) {
			return "", "", nil, ErrPaymentGatewayUnauthorized
		}
		if isGatewayBadRequest(err) {
			return "", "", nil, ErrPaymentGatewayBadRequest
		}
		return "", "", nil, err
	}
	return id, status, resp, nil
}

func (u *PaymentUseCase) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, errors.New("invalid payment id")
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *PaymentUseCase) ListByProjectID(ctx context.Context, projectID string) ([]entities.Payment, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrInvalidPaymentProjectID
	}
	return u.repo.ListByProjectID(ctx, projectID)
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}
