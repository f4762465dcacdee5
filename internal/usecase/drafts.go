package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tvdoutor/contratos/internal/entity"
)

// DraftStore guarda as sessões de formulário abertas.
type DraftStore interface {
	Save(s *FormSession)
	Get(id string) (*FormSession, bool)
	Delete(id string)
	List() []*FormSession
}

type MemoryDraftStore struct {
	mu       sync.RWMutex
	sessions map[string]*FormSession
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{sessions: make(map[string]*FormSession)}
}

func (m *MemoryDraftStore) Save(s *FormSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *MemoryDraftStore) Get(id string) (*FormSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MemoryDraftStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *MemoryDraftStore) List() []*FormSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*FormSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

type DraftService struct {
	Store DraftStore
	TTL   time.Duration
}

func NewDraftService(store DraftStore, ttl time.Duration) *DraftService {
	return &DraftService{Store: store, TTL: ttl}
}

func (s *DraftService) Create(ownerID string) *FormSession {
	session := NewFormSession(uuid.New().String(), ownerID)
	s.Store.Save(session)
	return session
}

// Get only returns sessions that belong to ownerID.
func (s *DraftService) Get(id, ownerID string) (*FormSession, error) {
	session, ok := s.Store.Get(id)
	if !ok || session.OwnerID != ownerID {
		return nil, entity.ErrDraftNotFound
	}
	return session, nil
}

func (s *DraftService) Discard(id, ownerID string) error {
	if _, err := s.Get(id, ownerID); err != nil {
		return err
	}
	s.Store.Delete(id)
	return nil
}

// PurgeIdle drops sessions untouched for longer than the TTL and returns how many.
func (s *DraftService) PurgeIdle(now time.Time) int {
	if s.TTL <= 0 {
		return 0
	}
	purged := 0
	for _, session := range s.Store.List() {
		if now.Sub(session.LastUpdate()) > s.TTL {
			s.Store.Delete(session.ID)
			purged++
		}
	}
	return purged
}
