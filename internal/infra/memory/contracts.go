// Package memory is the deterministic in-memory backend used when no
// database is configured (demo mode and tests).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tvdoutor/contratos/internal/entity"
)

const staleProcessingMessage = "Tempo limite da geração do documento excedido"

type ContractRepository struct {
	mu        sync.RWMutex
	contracts map[string]*entity.Contract
	Now       func() time.Time
}

func NewContractRepository() *ContractRepository {
	return &ContractRepository{contracts: make(map[string]*entity.Contract), Now: time.Now}
}

func (r *ContractRepository) Create(_ context.Context, p entity.ContractPayload) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now()
	c := &entity.Contract{
		ID:               uuid.NewString(),
		ContractPayload:  p,
		Status:           entity.StatusPending,
		ProcessingStatus: entity.ProcessingRunning,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	c.Contractors = append([]entity.ContractorRecord(nil), p.Contractors...)
	r.contracts[c.ID] = c
	return c.ID, nil
}

func (r *ContractRepository) put(c *entity.Contract) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[c.ID] = c
}

func (r *ContractRepository) FindByID(_ context.Context, id string) (*entity.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contracts[id]
	if !ok {
		return nil, entity.ErrContractNotFound
	}
	cp := *c
	cp.Contractors = append([]entity.ContractorRecord(nil), c.Contractors...)
	return &cp, nil
}

func (r *ContractRepository) Search(_ context.Context, params entity.SearchContractsParams) ([]entity.ContractRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(params.Q))
	matched := make([]*entity.Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		if params.Status != "" && c.Status != params.Status {
			continue
		}
		if q != "" && !containsAny(q, c.Title, c.City, c.State) {
			continue
		}
		matched = append(matched, c)
	}
	sortNewestFirst(matched)

	out := []entity.ContractRow{}
	for i := params.Offset; i < len(matched) && (params.Limit <= 0 || len(out) < params.Limit); i++ {
		out = append(out, toRow(matched[i]))
	}
	return out, nil
}

func containsAny(q string, values ...string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func sortNewestFirst(cs []*entity.Contract) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].ID < cs[j].ID
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
}

func toRow(c *entity.Contract) entity.ContractRow {
	row := entity.ContractRow{
		ID:                 c.ID,
		Status:             c.Status,
		MonthlyPlanValue:   ptr(c.MonthlyPlanValue),
		TotalContractValue: ptr(c.TotalContractValue),
	}
	row.Title = optional(c.Title)
	row.City = optional(c.City)
	row.State = optional(c.State)
	row.PlanContracted = optional(string(c.PlanContracted))
	if !c.SignatureDate.IsZero() {
		row.SignatureDate = ptr(c.SignatureDate.Format("2006-01-02"))
	}
	return row
}

func ptr[T any](v T) *T { return &v }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *ContractRepository) update(id string, fn func(c *entity.Contract)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contracts[id]
	if !ok {
		return entity.ErrContractNotFound
	}
	fn(c)
	c.UpdatedAt = r.Now()
	return nil
}

func (r *ContractRepository) UpdateStatus(_ context.Context, id string, status entity.ContractStatus) error {
	return r.update(id, func(c *entity.Contract) { c.Status = status })
}

func (r *ContractRepository) UpdateProcessing(_ context.Context, id string, u entity.ProcessingUpdate) error {
	return r.update(id, func(c *entity.Contract) {
		c.ProcessingStatus = u.Status
		c.ProcessingMessage = u.Message
		if u.DownloadURL != "" {
			c.DownloadURL = u.DownloadURL
		}
	})
}

func (r *ContractRepository) SetArchiveKey(_ context.Context, id, key string) error {
	return r.update(id, func(c *entity.Contract) { c.ArchiveKey = key })
}

func (r *ContractRepository) ExpireStaleProcessing(_ context.Context, olderThan time.Duration) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now()
	var ids []string
	for id, c := range r.contracts {
		if c.ProcessingStatus == entity.ProcessingRunning && now.Sub(c.UpdatedAt) > olderThan {
			c.ProcessingStatus = entity.ProcessingError
			c.ProcessingMessage = staleProcessingMessage
			c.UpdatedAt = now
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// signedIn returns copies of the contracts signed in year.
func (r *ContractRepository) signedIn(year int) []entity.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.Contract
	for _, c := range r.contracts {
		if c.SignatureDate.Year() == year {
			out = append(out, *c)
		}
	}
	return out
}

func (r *ContractRepository) countCreatedBy(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.contracts {
		if c.CreatedBy == userID {
			n++
		}
	}
	return n
}
