package models

import "time"

// Group is a user-created community that owns events. Creating a group
// does not make the creator a member; the caller adds that membership
// explicitly.
type Group struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"grouped_since"`
	UpdatedAt time.Time `json:"-"`
	CreatorID uint      `gorm:"index;not null" json:"creator_id"`
	Title     string    `gorm:"not null" json:"title"`
	About     string    `gorm:"type:text" json:"about"`

	Creator User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Events  []Event       `gorm:"foreignKey:GroupID" json:"events,omitempty"`
}
