package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/models"
	"github.com/Cheertaboi/Ecommerce-voucher-microservice/internal/repository"
)

// passthroughTx runs the transactional body directly; the fakes below do
// their own locking.
func passthroughTx(_ context.Context, fn func(q repository.Querier) error) error {
	return fn(nil)
}

type stubCastRegistry struct {
	createFn    func(cast *models.Cast) error
	getByCodeFn func(code string) (*models.Cast, error)
	getByIDFn   func(id int64) (*models.Cast, error)
	decrementFn func(code string) error
	deleteFn    func(id int64) error
	listFn      func(filter repository.CastFilter, page repository.PageRequest) ([]models.Cast, error)
}

func (s *stubCastRegistry) Create(_ context.Context, _ repository.Querier, cast *models.Cast) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(cast)
}

func (s *stubCastRegistry) GetByCode(_ context.Context, _ repository.Querier, code string) (*models.Cast, error) {
	if s.getByCodeFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.getByCodeFn(code)
}

func (s *stubCastRegistry) GetByID(_ context.Context, _ repository.Querier, id int64) (*models.Cast, error) {
	if s.getByIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.getByIDFn(id)
}

func (s *stubCastRegistry) DecrementQuantity(_ context.Context, _ repository.Querier, code string) error {
	if s.decrementFn == nil {
		return errors.New("not implemented")
	}
	return s.decrementFn(code)
}

func (s *stubCastRegistry) Delete(_ context.Context, _ repository.Querier, id int64) error {
	if s.deleteFn == nil {
		return errors.New("not implemented")
	}
	return s.deleteFn(id)
}

func (s *stubCastRegistry) List(_ context.Context, _ repository.Querier, filter repository.CastFilter, page repository.PageRequest) ([]models.Cast, error) {
	if s.listFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.listFn(filter, page)
}

type stubLedger struct {
	createFn   func(entry *models.DiscountCode) error
	getByIDFn  func(id string) (*models.DiscountCode, error)
	listFn     func(customerID string, isUsed *bool) ([]models.DiscountCode, error)
	markUsedFn func(id string, at time.Time) error
}

func (s *stubLedger) Create(_ context.Context, _ repository.Querier, entry *models.DiscountCode) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(entry)
}

func (s *stubLedger) GetByID(_ context.Context, _ repository.Querier, id string) (*models.DiscountCode, error) {
	if s.getByIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.getByIDFn(id)
}

func (s *stubLedger) ListForCustomer(_ context.Context, _ repository.Querier, customerID string, isUsed *bool) ([]models.DiscountCode, error) {
	if s.listFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.listFn(customerID, isUsed)
}

func (s *stubLedger) MarkUsed(_ context.Context, _ repository.Querier, id string, at time.Time) error {
	if s.markUsedFn == nil {
		return errors.New("not implemented")
	}
	return s.markUsedFn(id, at)
}

// memStore mimics the persisted state with the same conditional-update
// semantics the SQL statements have, for concurrency tests.
type memStore struct {
	mu      sync.Mutex
	casts   map[string]*models.Cast
	entries map[string]*models.DiscountCode
}

func newMemStore() *memStore {
	return &memStore{
		casts:   map[string]*models.Cast{},
		entries: map[string]*models.DiscountCode{},
	}
}

func (m *memStore) addCast(cast *models.Cast) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.casts[cast.Code] = cast
}

func (m *memStore) registry() *stubCastRegistry {
	return &stubCastRegistry{
		getByCodeFn: func(code string) (*models.Cast, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			cast, ok := m.casts[code]
			if !ok {
				return nil, repository.ErrNotFound
			}
			copied := *cast
			return &copied, nil
		},
		getByIDFn: func(id int64) (*models.Cast, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, cast := range m.casts {
				if cast.ID == id {
					copied := *cast
					return &copied, nil
				}
			}
			return nil, repository.ErrNotFound
		},
		decrementFn: func(code string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			cast, ok := m.casts[code]
			if !ok || cast.RemainingQuantity <= 0 {
				return repository.ErrNoQuantity
			}
			cast.RemainingQuantity--
			return nil
		},
	}
}

func (m *memStore) ledger() *stubLedger {
	return &stubLedger{
		createFn: func(entry *models.DiscountCode) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			copied := *entry
			m.entries[entry.ID] = &copied
			return nil
		},
		getByIDFn: func(id string) (*models.DiscountCode, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			entry, ok := m.entries[id]
			if !ok {
				return nil, repository.ErrNotFound
			}
			copied := *entry
			return &copied, nil
		},
		listFn: func(customerID string, isUsed *bool) ([]models.DiscountCode, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			var out []models.DiscountCode
			for _, entry := range m.entries {
				if entry.CustomerID != customerID {
					continue
				}
				if isUsed != nil && entry.IsUsed != *isUsed {
					continue
				}
				out = append(out, *entry)
			}
			return out, nil
		},
		markUsedFn: func(id string, at time.Time) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			entry, ok := m.entries[id]
			if !ok {
				return repository.ErrNotFound
			}
			if entry.IsUsed {
				return repository.ErrAlreadyUsed
			}
			entry.IsUsed = true
			entry.UsedAt = &at
			return nil
		},
	}
}

func (m *memStore) remaining(code string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.casts[code].RemainingQuantity
}
