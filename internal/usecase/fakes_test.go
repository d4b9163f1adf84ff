package usecase

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"helperhub/internal/domain/business"
	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/matching"
	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/request"
	"helperhub/internal/domain/review"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

type fakeRoles struct {
	roles map[uuid.UUID][]user.Role
	err   error
}

func (f fakeRoles) FindRegistration(_ context.Context, role user.Role, id uuid.UUID) (user.Registration, error) {
	if f.err != nil {
		return user.Registration{}, f.err
	}
	if slices.Contains(f.roles[id], role) {
		return user.Registration{UserID: id, Role: role}, nil
	}
	return user.Registration{}, user.ErrNotFound
}

type memProfiles struct {
	mu    sync.Mutex
	order []uuid.UUID
	items map[uuid.UUID]profile.Profile
	err   error
	// afterList runs once the job seeker list has been read.
	afterList func()
}

func newMemProfiles(ps ...profile.Profile) *memProfiles {
	m := &memProfiles{items: map[uuid.UUID]profile.Profile{}}
	for _, p := range ps {
		m.order = append(m.order, p.UserID)
		m.items[p.UserID] = p
	}
	return m
}

func (m *memProfiles) GetByUserID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return profile.Profile{}, m.err
	}
	p, ok := m.items[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) Merge(_ context.Context, id uuid.UUID, pt profile.Patch, at time.Time) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return profile.Profile{}, m.err
	}
	p, ok := m.items[id]
	if !ok {
		p = profile.Profile{UserID: id, CreatedAt: at}
		m.order = append(m.order, id)
	}
	p = p.Apply(pt)
	p.UpdatedAt = at
	m.items[id] = p
	return p, nil
}

func (m *memProfiles) ListJobSeekers(_ context.Context, category string) ([]profile.Profile, error) {
	out, err := m.listJobSeekers(category)
	if err == nil && m.afterList != nil {
		m.afterList()
	}
	return out, err
}

func (m *memProfiles) listJobSeekers(category string) ([]profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []profile.Profile{}
	for _, id := range m.order {
		p := m.items[id]
		if !p.IsJobSeeker() || len(p.SelectedCategories) == 0 {
			continue
		}
		if category != catalog.All && !slices.Contains(p.SelectedCategories, category) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type memBusiness struct {
	items map[uuid.UUID]business.Info
}

func (m *memBusiness) Get(_ context.Context, id uuid.UUID) (business.Info, error) {
	info, ok := m.items[id]
	if !ok {
		return business.Info{}, business.ErrNotFound
	}
	return info, nil
}

func (m *memBusiness) Replace(_ context.Context, info business.Info) (business.Info, error) {
	m.items[info.UserID] = info
	return info, nil
}

type memRequests struct {
	mu         sync.Mutex
	items      []request.ServiceRequest
	forceStale bool
}

func (m *memRequests) Create(_ context.Context, r request.ServiceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, r)
	return nil
}

func (m *memRequests) GetByID(_ context.Context, id uuid.UUID) (request.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return request.ServiceRequest{}, request.ErrNotFound
}

func (m *memRequests) list(match func(request.ServiceRequest) bool) []request.ServiceRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []request.ServiceRequest{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if match(m.items[i]) {
			out = append(out, m.items[i])
		}
	}
	return out
}

func (m *memRequests) ListByEmployer(_ context.Context, id uuid.UUID) ([]request.ServiceRequest, error) {
	return m.list(func(r request.ServiceRequest) bool { return r.EmployerID == id }), nil
}

func (m *memRequests) ListByJobSeeker(_ context.Context, id uuid.UUID) ([]request.ServiceRequest, error) {
	return m.list(func(r request.ServiceRequest) bool { return r.JobSeekerID == id }), nil
}

func (m *memRequests) UpdateStatusIfPending(_ context.Context, id uuid.UUID, to request.Status, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forceStale {
		return false, nil
	}
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].Status == request.StatusPending {
			t := at
			m.items[i].Status = to
			m.items[i].RespondedAt = &t
			return true, nil
		}
	}
	return false, nil
}

type memReviews struct {
	items []review.Review
	err   error
}

func (m *memReviews) Append(_ context.Context, r review.Review) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, r)
	return nil
}

func (m *memReviews) ListByJobSeeker(ctx context.Context, id uuid.UUID) ([]review.Review, error) {
	byID, err := m.ListByJobSeekers(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if byID[id] == nil {
		return []review.Review{}, nil
	}
	return byID[id], nil
}

func (m *memReviews) ListByJobSeekers(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]review.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[uuid.UUID][]review.Review{}
	for _, r := range m.items {
		if slices.Contains(ids, r.JobSeekerID) {
			out[r.JobSeekerID] = append(out[r.JobSeekerID], r)
		}
	}
	return out, nil
}

type memCache struct {
	mu      sync.Mutex
	data    map[string]any
	locks    map[string]bool
	counters map[string]int64
	sets     int
	deletes  []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string]any{}, locks: map[string]bool{}, counters: map[string]int64{}}
}

// GetJSON hands back the stored value when out has the same type.
func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	switch dst := out.(type) {
	case *[]matching.Provider:
		vs, ok := v.([]matching.Provider)
		if !ok {
			return false, nil
		}
		*dst = vs
	case *matching.Provider:
		v, ok := v.(matching.Provider)
		if !ok {
			return false, nil
		}
		*dst = v
	default:
		return false, nil
	}
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) Counter(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key], nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

func (c *memCache) TryLock(_ context.Context, key string, _ time.Duration) (func(context.Context), bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return func(context.Context) {}, false, nil
	}
	c.locks[key] = true
	return func(context.Context) {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.locks, key)
	}, true, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []request.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev request.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

type fakeBlobs struct {
	keys  []string
	bytes int
}

func (f *fakeBlobs) Upload(_ context.Context, key string, _ string, data io.Reader) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	f.bytes = len(b)
	return "https://cdn.test/" + key, nil
}

func seekerProfile(first string, cats ...string) profile.Profile {
	return profile.Profile{
		UserID:             uuid.New(),
		FirstName:          first,
		LastName:           "Doe",
		Phone:              "555",
		Role:               user.RoleJobSeeker,
		SelectedCategories: cats,
	}
}
