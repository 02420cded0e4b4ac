package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is a directed edge in the social graph. Every user has a
// self-edge from creation so that their own recipes show up in the
// followed feed.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"followed_id"`
	CreatedAt  time.Time `json:"timestamp"`

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"followed,omitempty"`
}

// FollowUser inserts a follow edge. Following an already-followed user
// is a no-op.
func FollowUser(db *gorm.DB, followerID, followedID uint) error {
	following, err := IsFollowing(db, followerID, followedID)
	if err != nil || following {
		return err
	}
	return db.Create(&Follow{FollowerID: followerID, FollowedID: followedID}).Error
}

// UnfollowUser removes a follow edge. Unfollowing a non-followed user
// is a no-op, and the self-edge is never removable this way.
func UnfollowUser(db *gorm.DB, followerID, followedID uint) error {
	if followerID == followedID {
		return nil
	}
	return db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&Follow{}).Error
}

// IsFollowing reports whether the follow edge exists.
func IsFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}
