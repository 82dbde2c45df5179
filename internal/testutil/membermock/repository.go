package membermock

import (
	"context"
	"sort"
	"sync/atomic"

	domain "coop-loan-service/internal/domain/member"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// GetByIDCalls counts GetByID invocations so callers can assert memoisation.
type Repo struct {
	CreateFn           func(ctx context.Context, m *domain.Member) error
	UpdateFn           func(ctx context.Context, m *domain.Member) error
	ListFn             func(ctx context.Context) ([]domain.Member, error)
	GetByIDFn          func(ctx context.Context, id string) (*domain.Member, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Member, error)
	GetByPINFn         func(ctx context.Context, pin string) (*domain.Member, error)

	GetByIDCalls atomic.Int64
}

func (m *Repo) Create(ctx context.Context, mem *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, mem)
	}
	return nil
}

func (m *Repo) Update(ctx context.Context, mem *domain.Member) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, mem)
	}
	return domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context) ([]domain.Member, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	m.GetByIDCalls.Add(1)
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Member, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByPIN(ctx context.Context, pin string) (*domain.Member, error) {
	if m.GetByPINFn != nil {
		return m.GetByPINFn(ctx, pin)
	}
	return nil, domain.ErrNotFound
}

// InMemory builds a Repo backed by a member set keyed by id. Update
// replaces a stored member; List returns them by name.
func InMemory(members ...domain.Member) *Repo {
	byID := make(map[string]domain.Member, len(members))
	for _, mem := range members {
		byID[mem.ID] = mem
	}
	get := func(_ context.Context, id string) (*domain.Member, error) {
		mem, ok := byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return &mem, nil
	}
	return &Repo{
		UpdateFn: func(_ context.Context, mem *domain.Member) error {
			if _, ok := byID[mem.ID]; !ok {
				return domain.ErrNotFound
			}
			byID[mem.ID] = *mem
			return nil
		},
		ListFn: func(context.Context) ([]domain.Member, error) {
			out := make([]domain.Member, 0, len(byID))
			for _, mem := range byID {
				out = append(out, mem)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
			return out, nil
		},
		GetByIDFn:          get,
		GetByIDForUpdateFn: get,
		GetByPINFn: func(_ context.Context, pin string) (*domain.Member, error) {
			for _, mem := range byID {
				if mem.PIN == pin {
					mem := mem
					return &mem, nil
				}
			}
			return nil, domain.ErrNotFound
		},
	}
}
