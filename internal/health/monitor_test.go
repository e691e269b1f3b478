package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLinkStore struct {
	mu          sync.Mutex
	links       []model.AffiliateLink
	deactivated []uint
}

func (s *fakeLinkStore) ListActive(afterID uint, limit int) ([]model.AffiliateLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := make([]model.AffiliateLink, 0)
	for _, l := range s.links {
		if l.IsActive && l.ID > afterID {
			page = append(page, l)
			if len(page) == limit {
				break
			}
		}
	}
	return page, nil
}

func (s *fakeLinkStore) GetByIDs(ids []uint) ([]model.AffiliateLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AffiliateLink, 0)
	for _, id := range ids {
		for _, l := range s.links {
			if l.ID == id {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (s *fakeLinkStore) Deactivate(id uint, version int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.links {
		if s.links[i].ID == id && s.links[i].Version == version {
			s.links[i].IsActive = false
			s.links[i].Version++
			s.deactivated = append(s.deactivated, id)
			return true, nil
		}
	}
	return false, nil
}

func TestSweepDeactivatesFailingLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/dead") {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := &fakeLinkStore{links: []model.AffiliateLink{
		{ID: 1, OriginalURL: srv.URL + "/ok/1", IsActive: true},
		{ID: 2, OriginalURL: srv.URL + "/dead/2", IsActive: true},
		{ID: 3, OriginalURL: srv.URL + "/ok/3", IsActive: true},
		{ID: 4, OriginalURL: srv.URL + "/dead/4", IsActive: true},
	}}

	m := NewMonitor(store, NewValidator(5*time.Second), nil, MonitorConfig{
		PageSize:    2,
		Concurrency: 2,
	})

	stats, err := m.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Checked)
	assert.Equal(t, 2, stats.Healthy)
	assert.Equal(t, 2, stats.Deactivated)
	assert.ElementsMatch(t, []uint{2, 4}, store.deactivated)
}

func TestSweepIsolatesUnreachableHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := &fakeLinkStore{links: []model.AffiliateLink{
		{ID: 1, OriginalURL: srv.URL + "/ok", IsActive: true},
		{ID: 2, OriginalURL: "http://127.0.0.1:1/unreachable", IsActive: true},
		{ID: 3, OriginalURL: srv.URL + "/ok", IsActive: true},
	}}

	m := NewMonitor(store, NewValidator(2*time.Second), nil, MonitorConfig{
		PageSize:    50,
		Concurrency: 3,
	})

	stats, err := m.Sweep(context.Background())
	require.NoError(t, err)

	// the unreachable host degrades its own result only
	assert.Equal(t, 3, stats.Checked)
	assert.Equal(t, 2, stats.Healthy)
	assert.Equal(t, 1, stats.Deactivated)
}

func TestSweepSparesRateLimitedLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/throttled") {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := &fakeLinkStore{links: []model.AffiliateLink{
		{ID: 1, OriginalURL: srv.URL + "/ok", IsActive: true},
		{ID: 2, OriginalURL: srv.URL + "/throttled", IsActive: true},
	}}

	m := NewMonitor(store, NewValidator(5*time.Second), nil, DefaultMonitorConfig())

	stats, err := m.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Checked)
	assert.Equal(t, 1, stats.Healthy)
	assert.Equal(t, 1, stats.RateLimited)
	assert.Equal(t, 0, stats.Deactivated)
	assert.Empty(t, store.deactivated)
}

func TestCheckLinksReportsPerLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := &fakeLinkStore{links: []model.AffiliateLink{
		{ID: 10, OriginalURL: srv.URL + "/ok", IsActive: true},
		{ID: 11, OriginalURL: srv.URL + "/dead", IsActive: true},
	}}

	m := NewMonitor(store, NewValidator(5*time.Second), nil, DefaultMonitorConfig())

	checks, err := m.CheckLinks(context.Background(), []uint{10, 11, 999})
	require.NoError(t, err)
	require.Len(t, checks, 2)

	assert.True(t, checks[0].IsValid)
	assert.False(t, checks[0].Deactivated)
	assert.False(t, checks[1].IsValid)
	assert.True(t, checks[1].Deactivated)
}
