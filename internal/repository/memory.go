package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/internal/users"
)

// MemoryFiles keeps file records in process, in insertion order. Contents
// are lost on restart.
type MemoryFiles struct {
	mu   sync.RWMutex
	recs []files.Record
	byID map[string]int
}

func NewMemoryFiles() *MemoryFiles {
	return &MemoryFiles{byID: make(map[string]int)}
}

func (m *MemoryFiles) Insert(_ context.Context, rec files.Record) (files.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = uuid.NewString()
	m.byID[rec.ID] = len(m.recs)
	m.recs = append(m.recs, rec)
	return rec, nil
}

func (m *MemoryFiles) FindByIDForUser(ctx context.Context, id, userID string) (files.Record, error) {
	rec, err := m.FindByID(ctx, id)
	if err != nil {
		return files.Record{}, err
	}
	if rec.OwnerID != userID {
		return files.Record{}, files.ErrNotFound
	}
	return rec, nil
}

func (m *MemoryFiles) FindByID(_ context.Context, id string) (files.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return files.Record{}, files.ErrNotFound
	}
	return m.recs[i], nil
}

func (m *MemoryFiles) ListPage(_ context.Context, userID, parentID string, page, pageSize int) ([]files.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []files.Record{}
	skip, ok := files.PageOffset(page, pageSize)
	if !ok {
		return result, nil
	}
	for _, rec := range m.recs {
		if rec.OwnerID != userID || rec.ParentID != parentID {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		if len(result) == pageSize {
			break
		}
		result = append(result, rec)
	}
	return result, nil
}

func (m *MemoryFiles) SetPublic(_ context.Context, id, userID string, public bool) (files.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.byID[id]
	if !ok || m.recs[i].OwnerID != userID {
		return files.Record{}, files.ErrNotFound
	}
	m.recs[i].IsPublic = public
	return m.recs[i], nil
}

func (m *MemoryFiles) CountFiles(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recs), nil
}

// MemoryUsers keeps accounts in process.
type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[string]users.User
	byEmail map[string]string
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[string]users.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUsers) Create(_ context.Context, email string, passwordHash []byte) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; ok {
		return users.User{}, users.ErrAlreadyExists
	}
	u := users.User{ID: uuid.NewString(), Email: email, PasswordHash: passwordHash}
	m.byID[u.ID] = u
	m.byEmail[email] = u.ID
	return u, nil
}

func (m *MemoryUsers) FindByEmail(_ context.Context, email string) (users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return m.byID[id], nil
}

func (m *MemoryUsers) FindByID(_ context.Context, id string) (users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (m *MemoryUsers) CountUsers(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

var (
	_ files.Repository = (*MemoryFiles)(nil)
	_ users.Repository = (*MemoryUsers)(nil)
)
