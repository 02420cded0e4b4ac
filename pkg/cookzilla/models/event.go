package models

import (
	"time"

	"gorm.io/gorm"
)

// Event belongs to exactly one group. StartsAt is when the event
// happens; CreatedAt is when it was posted.
type Event struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	GroupID   uint      `gorm:"index;not null" json:"group_id"`
	CreatorID uint      `gorm:"index;not null" json:"creator_id"`
	Title     string    `gorm:"not null" json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	Location  string    `json:"location"`
	About     string    `gorm:"type:text" json:"about"`

	Group   Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	Creator User     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	RSVPs   []RSVP   `gorm:"foreignKey:EventID" json:"rsvps,omitempty"`
	Reports []Report `gorm:"foreignKey:EventID" json:"reports,omitempty"`
}

// RSVP marks a user as going to an event.
type RSVP struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	EventID   uint      `gorm:"primaryKey;autoIncrement:false" json:"event_id"`
	CreatedAt time.Time `json:"timestamp"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Event Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event,omitempty"`
}

// Rsvp marks the user as going. Going twice is a no-op.
func Rsvp(db *gorm.DB, userID, eventID uint) error {
	going, err := IsRsvp(db, userID, eventID)
	if err != nil || going {
		return err
	}
	return db.Create(&RSVP{UserID: userID, EventID: eventID}).Error
}

// Unrsvp withdraws the user. Withdrawing when not going is a no-op.
func Unrsvp(db *gorm.DB, userID, eventID uint) error {
	return db.Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&RSVP{}).Error
}

// IsRsvp is an existence check on the composite key.
func IsRsvp(db *gorm.DB, userID, eventID uint) (bool, error) {
	var count int64
	err := db.Model(&RSVP{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}
