package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tvdoutor/contratos/internal/entity"
)

const activeWindow = 30 * 24 * time.Hour

type credential struct {
	email string
	hash  string
}

type UserRepository struct {
	mu          sync.RWMutex
	credentials map[string]credential
	profiles    map[string]*entity.User
	contracts   *ContractRepository
	Now         func() time.Time
}

// NewUserRepository counts contracts per user through contracts (may be nil).
func NewUserRepository(contracts *ContractRepository) *UserRepository {
	return &UserRepository{
		credentials: make(map[string]credential),
		profiles:    make(map[string]*entity.User),
		contracts:   contracts,
		Now:         time.Now,
	}
}

func (r *UserRepository) CreateCredentials(_ context.Context, id, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(email)
	for _, c := range r.credentials {
		if c.email == email {
			return entity.ErrEmailAlreadyExists
		}
	}
	r.credentials[id] = credential{email: email, hash: passwordHash}
	return nil
}

func (r *UserRepository) DeleteCredentials(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.credentials[id]; !ok {
		return entity.ErrUserNotFound
	}
	delete(r.credentials, id)
	delete(r.profiles, id)
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.credentials[id]
	if !ok {
		return entity.ErrUserNotFound
	}
	c.hash = passwordHash
	r.credentials[id] = c
	return nil
}

func (r *UserRepository) CreateProfile(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.credentials[u.ID]; !ok {
		return entity.ErrUserNotFound
	}
	if _, ok := r.profiles[u.ID]; ok {
		return entity.ErrEmailAlreadyExists
	}
	cp := *u
	cp.PasswordHash = ""
	r.profiles[u.ID] = &cp
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id)
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for id, c := range r.credentials {
		if c.email == email {
			return r.lookup(id)
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *UserRepository) lookup(id string) (*entity.User, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	u := *p
	u.Email = r.credentials[id].email
	u.PasswordHash = r.credentials[id].hash
	return &u, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update entity.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return entity.ErrUserNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Role != nil {
		p.Role = *update.Role
	}
	if update.IsSuperAdmin != nil {
		p.IsSuperAdmin = *update.IsSuperAdmin
	}
	if update.CompanyID != nil {
		if *update.CompanyID == "" {
			p.CompanyID = nil
		} else {
			p.CompanyID = ptr(*update.CompanyID)
		}
	}
	p.UpdatedAt = r.Now()
	return nil
}

func (r *UserRepository) TouchActivity(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.profiles[id]; ok {
		p.LastActivity = ptr(at)
	}
	return nil
}

func (r *UserRepository) Search(_ context.Context, params entity.SearchUsersParams) ([]entity.UserRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(params.Q))
	since := r.Now().Add(-activeWindow)

	var matched []*entity.User
	for id, p := range r.profiles {
		if params.Role != "" && p.Role != params.Role {
			continue
		}
		if q != "" && !containsAny(q, p.Name, r.credentials[id].email) {
			continue
		}
		if params.Active != nil {
			active := p.LastActivity != nil && !p.LastActivity.Before(since)
			if active != *params.Active {
				continue
			}
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	out := []entity.UserRow{}
	for i := params.Offset; i < len(matched) && (params.Limit <= 0 || len(out) < params.Limit); i++ {
		p := matched[i]
		row := entity.UserRow{
			UserID:       p.ID,
			Name:         p.Name,
			Email:        r.credentials[p.ID].email,
			Role:         p.Role,
			IsSuperAdmin: p.IsSuperAdmin,
			LastActivity: p.LastActivity,
			CreatedAt:    p.CreatedAt,
			CompanyID:    p.CompanyID,
		}
		if r.contracts != nil {
			row.Contracts = r.contracts.countCreatedBy(p.ID)
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *UserRepository) CountActiveSince(_ context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.profiles {
		if p.LastActivity != nil && !p.LastActivity.Before(since) {
			n++
		}
	}
	return n, nil
}

// ActivityLogRepository keeps the log in insertion order.
type ActivityLogRepository struct {
	mu      sync.Mutex
	entries []entity.ActivityLog
}

func NewActivityLogRepository() *ActivityLogRepository {
	return &ActivityLogRepository{}
}

func (r *ActivityLogRepository) Record(_ context.Context, e *entity.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *ActivityLogRepository) Entries() []entity.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ActivityLog(nil), r.entries...)
}
