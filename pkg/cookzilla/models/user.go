package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents an account. CreatedAt doubles as the joined-since
// timestamp.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"joined_since"`
	UpdatedAt    time.Time `json:"-"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Name         string    `json:"name"`
	RoleID       uint      `gorm:"index" json:"role_id"`
	PasswordHash string    `json:"-"`
	Confirmed    bool      `gorm:"default:false" json:"confirmed"`
	AboutMe      string    `gorm:"type:text" json:"about_me"`
	LastSeen     time.Time `json:"last_seen"`
	AvatarHash   string    `gorm:"size:32" json:"-"`

	Role        Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Recipes     []Recipe      `gorm:"foreignKey:AuthorID" json:"recipes,omitempty"`
	Reviews     []Review      `gorm:"foreignKey:AuthorID" json:"reviews,omitempty"`
	Memberships []GroupMember `gorm:"foreignKey:MemberID" json:"memberships,omitempty"`
}

// CreateUser inserts a user together with the bootstrap state every
// account carries: a role (Administrator when the email is on the admin
// allowlist, otherwise the default role), the avatar fingerprint, and
// the mandatory self-follow edge. The whole thing is one transaction.
func CreateUser(db *gorm.DB, u *User, adminEmails []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if u.RoleID == 0 {
			var (
				role *Role
				err  error
			)
			if isAdminEmail(u.Email, adminEmails) {
				role, err = AdministratorRole(tx)
			} else {
				role, err = DefaultRole(tx)
			}
			if err != nil {
				return err
			}
			u.RoleID = role.ID
			u.Role = *role
		}
		if u.AvatarHash == "" {
			u.AvatarHash = AvatarHash(u.Email)
		}
		if u.LastSeen.IsZero() {
			u.LastSeen = time.Now()
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		// every user follows themself from creation
		return tx.Create(&Follow{FollowerID: u.ID, FollowedID: u.ID}).Error
	})
}

// Can reports whether the user's role carries all of the given
// permission bits. The Role association must be loaded.
func (u *User) Can(p Permission) bool {
	return u.RoleID != 0 && u.Role.Permissions&p == p
}

// IsAdministrator reports whether the user holds the administer bit.
func (u *User) IsAdministrator() bool {
	return u.Can(PermissionAdminister)
}

// Gravatar returns the avatar URL for the user's email fingerprint.
func (u *User) Gravatar(size int) string {
	hash := u.AvatarHash
	if hash == "" {
		hash = AvatarHash(u.Email)
	}
	return fmt.Sprintf("https://secure.gravatar.com/avatar/%s?s=%d&d=identicon&r=g", hash, size)
}

// Ping bumps the last-seen timestamp without touching UpdatedAt.
func (u *User) Ping(db *gorm.DB) error {
	now := time.Now()
	u.LastSeen = now
	return db.Model(&User{}).Where("id = ?", u.ID).UpdateColumn("last_seen", now).Error
}

// AvatarHash computes the gravatar fingerprint for an email address.
func AvatarHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func isAdminEmail(email string, adminEmails []string) bool {
	for _, a := range adminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}
