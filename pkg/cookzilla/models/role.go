package models

import "gorm.io/gorm"

// Permission is a single capability bit in a role's bitmask.
type Permission int

const (
	PermissionFollow          Permission = 0x01
	PermissionReview          Permission = 0x02
	PermissionWriteRecipes    Permission = 0x04
	PermissionModerateReviews Permission = 0x08
	PermissionAdminister      Permission = 0x80

	// PermissionAll marks the administrator role.
	PermissionAll Permission = 0xff
)

// Role groups a set of permissions. Exactly one role carries the
// default flag; new users without an explicit role get that one.
type Role struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Default     bool       `gorm:"column:is_default;index" json:"default"`
	Permissions Permission `json:"permissions"`

	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

// SeedRoles upserts the fixed role set. Permissions are updated in
// place so tightening a role takes effect on restart.
func SeedRoles(db *gorm.DB) error {
	roles := []struct {
		Name        string
		Permissions Permission
		Default     bool
	}{
		{"User", PermissionFollow | PermissionReview | PermissionWriteRecipes, true},
		{"Moderator", PermissionFollow | PermissionReview | PermissionWriteRecipes | PermissionModerateReviews, false},
		{"Administrator", PermissionAll, false},
	}

	for _, r := range roles {
		var role Role
		err := db.Where("name = ?", r.Name).First(&role).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		role.Name = r.Name
		role.Permissions = r.Permissions
		role.Default = r.Default
		if err := db.Save(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// DefaultRole returns the role assigned to ordinary signups.
func DefaultRole(db *gorm.DB) (*Role, error) {
	var role Role
	if err := db.Where("is_default = ?", true).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// AdministratorRole returns the role holding every permission bit.
func AdministratorRole(db *gorm.DB) (*Role, error) {
	var role Role
	if err := db.Where("permissions = ?", PermissionAll).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
