package repository

import (
	"time"

	"github.com/melvsalonga/affiliate-hub-sub000/internal/model"
	"github.com/melvsalonga/affiliate-hub-sub000/pkg/database"
)

// EventRepository stores and reads click and conversion facts
type EventRepository struct{}

// NewEventRepository creates an event repository
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// CreateClick appends a click event
func (r *EventRepository) CreateClick(event *model.ClickEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return database.DB.Create(event).Error
}

// CreateConversion appends a conversion event
func (r *EventRepository) CreateConversion(event *model.ConversionEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return database.DB.Create(event).Error
}

// ClicksInRange returns click events for the given links inside the window
func (r *EventRepository) ClicksInRange(linkIDs []uint, start, end time.Time) ([]model.ClickEvent, error) {
	var events []model.ClickEvent
	err := database.DB.
		Where("link_id IN ? AND created_at BETWEEN ? AND ?", linkIDs, start, end).
		Find(&events).Error
	return events, err
}

// ConversionsInRange returns conversion events for the given links inside
// the window
func (r *EventRepository) ConversionsInRange(linkIDs []uint, start, end time.Time) ([]model.ConversionEvent, error) {
	var events []model.ConversionEvent
	err := database.DB.
		Where("link_id IN ? AND created_at BETWEEN ? AND ?", linkIDs, start, end).
		Find(&events).Error
	return events, err
}

// ConversionCountsSince returns per-link conversion counts from a point in
// time, used by performance-based rotation
func (r *EventRepository) ConversionCountsSince(linkIDs []uint, since time.Time) (map[uint]int64, error) {
	type row struct {
		LinkID uint
		Count  int64
	}
	var rows []row
	err := database.DB.Model(&model.ConversionEvent{}).
		Select("link_id, COUNT(*) AS count").
		Where("link_id IN ? AND created_at >= ?", linkIDs, since).
		Group("link_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.LinkID] = r.Count
	}
	return counts, nil
}

// ClickCount returns the total number of clicks for a link
func (r *EventRepository) ClickCount(linkID uint) (int64, error) {
	var count int64
	err := database.DB.Model(&model.ClickEvent{}).
		Where("link_id = ?", linkID).
		Count(&count).Error
	return count, err
}
