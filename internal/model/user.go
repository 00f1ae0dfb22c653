package model

import "time"

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

type User struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	Email            string    `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash     string    `gorm:"column:password_hash" json:"-"`
	FirstName        string    `gorm:"column:first_name" json:"firstName"`
	LastName         string    `gorm:"column:last_name" json:"lastName"`
	ProfileImageUrl  string    `gorm:"column:profile_image_url" json:"profileImageUrl"`
	KycStatus        KYCStatus `gorm:"column:kyc_status;default:pending" json:"kycStatus"`
	TwoFactorEnabled bool      `gorm:"column:two_factor_enabled" json:"twoFactorEnabled"`
	ReferralCode     string    `gorm:"column:referral_code;uniqueIndex" json:"referralCode"`
	Role             UserRole  `gorm:"column:role;default:user" json:"role"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user may moderate escrow trades.
func (u *User) IsStaff() bool {
	return u.Role == UserRoleModerator || u.Role == UserRoleAdmin
}

func IsStaffRole(role UserRole) bool {
	return role == UserRoleModerator || role == UserRoleAdmin
}
