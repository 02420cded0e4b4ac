package models

import (
	"time"

	"gorm.io/gorm"
)

// GroupMember represents the many-to-many relationship between users
// and groups.
type GroupMember struct {
	MemberID    uint      `gorm:"primaryKey;autoIncrement:false" json:"member_id"`
	GroupID     uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	MemberSince time.Time `gorm:"autoCreateTime" json:"member_since"`
	Admin       bool      `gorm:"default:false" json:"admin"`

	Member User  `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"member,omitempty"`
	Group  Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
}

// JoinGroup adds a user to a group. Adding an existing member is a
// no-op.
func JoinGroup(db *gorm.DB, userID, groupID uint) error {
	member, err := IsMember(db, userID, groupID)
	if err != nil || member {
		return err
	}
	return db.Create(&GroupMember{MemberID: userID, GroupID: groupID}).Error
}

// LeaveGroup removes a user from a group. Leaving a group the user is
// not in is a no-op.
func LeaveGroup(db *gorm.DB, userID, groupID uint) error {
	return db.Where("member_id = ? AND group_id = ?", userID, groupID).
		Delete(&GroupMember{}).Error
}

// IsMember is an existence check on the composite key.
func IsMember(db *gorm.DB, userID, groupID uint) (bool, error) {
	var count int64
	err := db.Model(&GroupMember{}).
		Where("member_id = ? AND group_id = ?", userID, groupID).
		Count(&count).Error
	return count > 0, err
}
