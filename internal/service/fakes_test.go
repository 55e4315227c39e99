package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"alumni-api/internal/attachment"
	"alumni-api/internal/models"
	"alumni-api/internal/storage"
)

// memoryAdmins and memoryMembers mimic the MySQL stores, including the
// unique indexes, behind a mutex.
type memoryAdmins struct {
	mu     sync.Mutex
	byID   map[string]*models.Admin
	tokens map[string]string
}

func newMemoryAdmins() *memoryAdmins {
	return &memoryAdmins{byID: map[string]*models.Admin{}, tokens: map[string]string{}}
}

func (m *memoryAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memoryAdmins) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == admin.Email {
			return nil, storage.ErrDuplicate
		}
	}
	cp := *admin
	cp.CreatedAt = time.Now()
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memoryAdmins) RecordToken(ctx context.Context, adminID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[adminID]
	if !ok {
		return storage.ErrNotFound
	}
	a.CurrentToken = &token
	m.tokens[adminID] = token
	return nil
}

type memoryMembers struct {
	mu      sync.Mutex
	rows    []*models.Member // insertion order
	clock   time.Time
	failErr error
	lookups int
}

func newMemoryMembers() *memoryMembers {
	return &memoryMembers{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memoryMembers) find(pred func(*models.Member) bool) *models.Member {
	for _, r := range m.rows {
		if pred(r) {
			return r
		}
	}
	return nil
}

func (m *memoryMembers) FindByID(ctx context.Context, id string) (*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if r := m.find(func(r *models.Member) bool { return r.ID == id }); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memoryMembers) FindByLinkedInID(ctx context.Context, linkedinID string) (*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r := m.find(func(r *models.Member) bool { return r.LinkedInID == linkedinID }); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memoryMembers) Insert(ctx context.Context, member *models.Member) (*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	if m.find(func(r *models.Member) bool { return r.LinkedInID == member.LinkedInID }) != nil {
		return nil, fmt.Errorf("insert: %w", storage.ErrDuplicate)
	}
	m.clock = m.clock.Add(time.Second)
	cp := *member
	cp.CreatedAt, cp.UpdatedAt = m.clock, m.clock
	m.rows = append(m.rows, &cp)
	out := cp
	return &out, nil
}

func (m *memoryMembers) UpdateByID(ctx context.Context, id string, patch models.MemberPatch) (*models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	r := m.find(func(r *models.Member) bool { return r.ID == id })
	if r == nil {
		return nil, storage.ErrNotFound
	}
	if patch.LinkedInID != nil {
		if dup := m.find(func(o *models.Member) bool { return o.LinkedInID == *patch.LinkedInID && o.ID != id }); dup != nil {
			return nil, storage.ErrDuplicate
		}
	}
	patch.Apply(r)
	cp := *r
	return &cp, nil
}

func (m *memoryMembers) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memoryMembers) list(pred func(*models.Member) bool) ([]models.Member, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	out := make([]models.Member, 0)
	for i := len(m.rows) - 1; i >= 0; i-- {
		if pred(m.rows[i]) {
			out = append(out, *m.rows[i])
		}
	}
	return out, nil
}

func (m *memoryMembers) ListAll(ctx context.Context) ([]models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(*models.Member) bool { return true })
}

func (m *memoryMembers) ListByBatch(ctx context.Context, batch string) ([]models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(r *models.Member) bool { return r.Batch == batch })
}

func (m *memoryMembers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type fakePhotos struct {
	mu      sync.Mutex
	putErr  error
	seq     int
	stored  []string
	removed []string
}

func (f *fakePhotos) Put(ctx context.Context, upload *attachment.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.seq++
	ref := fmt.Sprintf("https://cdn.example.com/photos/%d%s", f.seq, upload.Extension)
	f.stored = append(f.stored, ref)
	return ref, nil
}

func (f *fakePhotos) Remove(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	return nil
}

func pngUpload() *attachment.Upload {
	return &attachment.Upload{
		ContentType: "image/png",
		Extension:   ".png",
		Size:        4,
		Body:        io.NopCloser(strings.NewReader("\x89PNG")),
	}
}

type fakeCache struct {
	data          map[string][]models.Member
	getErr        error
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]models.Member{}}
}

func (c *fakeCache) Get(ctx context.Context, batch string) ([]models.Member, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	m, ok := c.data[batch]
	return m, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, batch string, members []models.Member) error {
	c.data[batch] = members
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.invalidations++
	c.data = map[string][]models.Member{}
	return nil
}

var errStoreDown = errors.New("store down")
