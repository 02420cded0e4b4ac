package models

import "time"

// Report is a post-event write-up. Reports are append-only; there is no
// edit or delete surface.
type Report struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
	EventID   uint      `gorm:"index;not null" json:"event_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `gorm:"type:text" json:"body"`

	Event  Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
	Author User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
