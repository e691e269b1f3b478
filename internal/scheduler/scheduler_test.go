package scheduler

import (
	"sync"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
)

func TestEntryTrackingConcurrentAccess(t *testing.T) {
	s := NewScheduler(nil, nil, "")

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		taskID := uint(i % 10)
		wg.Add(2)
		go func(id uint, entry cron.EntryID) {
			defer wg.Done()
			s.trackEntry(id, entry)
		}(taskID, cron.EntryID(i))
		go func(id uint) {
			defer wg.Done()
			s.removeTask(id)
		}(taskID)
	}
	wg.Wait()

	// whatever survived the races is still individually removable
	for id := uint(0); id < 10; id++ {
		s.removeTask(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.entries)
}

func TestTrackEntryReplacesPrevious(t *testing.T) {
	s := NewScheduler(nil, nil, "")

	s.trackEntry(7, cron.EntryID(1))
	s.trackEntry(7, cron.EntryID(2))

	s.mu.Lock()
	assert.Equal(t, cron.EntryID(2), s.entries[7])
	assert.Len(t, s.entries, 1)
	s.mu.Unlock()

	entryID, ok := s.dropEntry(7)
	assert.True(t, ok)
	assert.Equal(t, cron.EntryID(2), entryID)

	_, ok = s.dropEntry(7)
	assert.False(t, ok)
}
