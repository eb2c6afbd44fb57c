package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidClientID   = errors.New("invalid client id")
	ErrInvalidClientName = errors.New("invalid client name")
)

// IClientUseCase exposes client management operations.

type IClientUseCase interface {
	Create(ctx context.Context, c entities.Client) (entities.Client, error)
	GetByID(ctx context.Context, id string) (entities.Client, error)
	Update(ctx context.Context, c entities.Client) (entities.Client, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, session SessionContext, ownerID string) ([]entities.Client, error)
}

type ClientUseCase struct {
	repo  interfaces.IClientRepository
	cache interfaces.ILocalCache
}

var _ IClientUseCase = (*ClientUseCase)(nil)

func NewClientUseCase(repo interfaces.IClientRepository, cache interfaces.ILocalCache) *ClientUseCase {
	return &ClientUseCase{repo: repo, cache: cache}
}

func (u *ClientUseCase) Create(ctx context.Context, c entities.Client) (entities.Client, error) {
	c.OwnerID = strings.TrimSpace(c.OwnerID)
	c.Name = strings.TrimSpace(c.Name)
	if c.OwnerID == "" {
		return entities.Client{}, ErrInvalidOwnerID
	}
	if c.Name == "" {
		return entities.Client{}, ErrInvalidClientName
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	created, err := u.repo.Create(ctx, c)
	if err != nil {
		return entities.Client{}, err
	}
	u.invalidateList(created.OwnerID)
	return created, nil
}

func (u *ClientUseCase) GetByID(ctx context.Context, id string) (entities.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Client{}, ErrInvalidClientID
	}

	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Client{}, err
	}
	if c.ID == "" {
		return entities.Client{}, ErrClientNotFound
	}
	return c, nil
}

func (u *ClientUseCase) Update(ctx context.Context, c entities.Client) (entities.Client, error) {
	existing, err := u.GetByID(ctx, c.ID)
	if err != nil {
		return entities.Client{}, err
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return entities.Client{}, ErrInvalidClientName
	}

	c.OwnerID = existing.OwnerID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	updated, err := u.repo.Update(ctx, c)
	if err != nil {
		return entities.Client{}, err
	}
	u.invalidateList(updated.OwnerID)
	return updated, nil
}

func (u *ClientUseCase) Delete(ctx context.Context, id string) error {
	// The stored record is read first so the owner's cached list can be
	// invalidated.
	c, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, c.ID); err != nil {
		return err
	}
	u.invalidateList(c.OwnerID)
	return nil
}

func (u *ClientUseCase) ListByOwner(ctx context.Context, session SessionContext, ownerID string) ([]entities.Client, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidOwnerID
	}

	key := interfaces.KeyCachedClients(ownerID)
	useCache := !session.IsFirstLoginThisSession && !session.ForceReloadRequested
	if useCache && u.cache != nil {
		if raw, ok := u.cache.Get(key); ok {
			var cached []entities.Client
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	clients, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if u.cache != nil {
		if raw, err := json.Marshal(clients); err == nil {
			u.cache.Set(key, raw)
		}
	}
	return clients, nil
}

func (u *ClientUseCase) invalidateList(ownerID string) {
	if u.cache != nil {
		u.cache.Remove(interfaces.KeyCachedClients(ownerID))
	}
}
