package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"marcenaria_pro/internal/adapter/cache"
	"marcenaria_pro/internal/domain/entities"
	"marcenaria_pro/internal/usecase/interfaces"
	mock_interfaces "marcenaria_pro/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestClientUseCase_Create(t *testing.T) {
	t.Run("valid client invalidates the cached list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIClientRepository(ctrl)
		mem := cache.NewMemory()
		mem.Set(interfaces.KeyCachedClients("owner-1"), json.RawMessage(`[]`))
		uc := NewClientUseCase(repo, mem)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c entities.Client) (entities.Client, error) {
				if c.ID == "" || c.CreatedAt.IsZero() {
					t.Fatalf("expected id and timestamps set: %+v", c)
				}
				return c, nil
			},
		)

		res, err := uc.Create(context.Background(), entities.Client{OwnerID: "owner-1", Name: " Maria "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Name != "Maria" {
			t.Fatalf("expected trimmed name, got %q", res.Name)
		}
		if _, ok := mem.Get(interfaces.KeyCachedClients("owner-1")); ok {
			t.Fatalf("expected cached list invalidated")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		uc := NewClientUseCase(nil, nil)
		_, err := uc.Create(context.Background(), entities.Client{OwnerID: "owner-1", Name: "  "})
		if !errors.Is(err, ErrInvalidClientName) {
			t.Fatalf("expected ErrInvalidClientName, got %v", err)
		}
	})
}

func TestClientUseCase_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIClientRepository(ctrl)
	uc := NewClientUseCase(repo, cache.NewMemory())

	existing := entities.Client{ID: "c-1", OwnerID: "owner-1", Name: "Maria"}
	repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(existing, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c entities.Client) (entities.Client, error) {
			if c.OwnerID != "owner-1" {
				t.Fatalf("owner must be carried over, got %q", c.OwnerID)
			}
			return c, nil
		},
	)

	in := entities.Client{ID: "c-1", OwnerID: "someone-else", Name: "Maria Silva"}
	res, err := uc.Update(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Name != "Maria Silva" {
		t.Fatalf("expected updated name, got %q", res.Name)
	}
}

func TestClientUseCase_ListByOwner(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIClientRepository(ctrl)
		mem := cache.NewMemory()
		raw, _ := json.Marshal([]entities.Client{{ID: "c-1", Name: "Maria"}})
		mem.Set(interfaces.KeyCachedClients("owner-1"), raw)
		uc := NewClientUseCase(repo, mem)

		got, err := uc.ListByOwner(context.Background(), SessionContext{}, "owner-1")
		if err != nil || len(got) != 1 || got[0].ID != "c-1" {
			t.Fatalf("expected cached list, got %v err=%v", got, err)
		}
	})

	t.Run("first login refreshes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIClientRepository(ctrl)
		mem := cache.NewMemory()
		mem.Set(interfaces.KeyCachedClients("owner-1"), json.RawMessage(`[{"id":"stale"}]`))
		uc := NewClientUseCase(repo, mem)

		repo.EXPECT().ListByOwner(gomock.Any(), "owner-1").Return([]entities.Client{{ID: "c-2"}}, nil)

		got, err := uc.ListByOwner(context.Background(), SessionContext{IsFirstLoginThisSession: true}, "owner-1")
		if err != nil || len(got) != 1 || got[0].ID != "c-2" {
			t.Fatalf("expected fresh list, got %v err=%v", got, err)
		}
	})

	t.Run("owners sharing one cache never see each other's clients", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIClientRepository(ctrl)
		mem := cache.NewMemory()
		uc := NewClientUseCase(repo, mem)

		repo.EXPECT().ListByOwner(gomock.Any(), "owner-a").Return([]entities.Client{{ID: "c-a", OwnerID: "owner-a", Name: "Maria"}}, nil)
		repo.EXPECT().ListByOwner(gomock.Any(), "owner-b").Return([]entities.Client{{ID: "c-b", OwnerID: "owner-b", Name: "João"}}, nil)

		if _, err := uc.ListByOwner(context.Background(), SessionContext{IsFirstLoginThisSession: true}, "owner-a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Owner B's mid-session read must miss owner A's warm entry entirely.
		got, err := uc.ListByOwner(context.Background(), SessionContext{}, "owner-b")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, c := range got {
			if c.OwnerID != "owner-b" {
				t.Fatalf("owner-b was served owner %q's client %q", c.OwnerID, c.ID)
			}
		}
	})
}

func TestClientUseCase_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIClientRepository(ctrl)
	mem := cache.NewMemory()
	mem.Set(interfaces.KeyCachedClients("owner-1"), json.RawMessage(`[{"id":"c-1"}]`))
	uc := NewClientUseCase(repo, mem)

	repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{ID: "c-1", OwnerID: "owner-1", Name: "Maria"}, nil)
	repo.EXPECT().Delete(gomock.Any(), "c-1").Return(nil)

	if err := uc.Delete(context.Background(), "c-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mem.Get(interfaces.KeyCachedClients("owner-1")); ok {
		t.Fatalf("expected the owner's cached list to be invalidated")
	}
}
