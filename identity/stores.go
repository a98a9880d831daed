package identity

import (
	"context"
	"time"

	"github.com/tidepool-org/identity/common"
)

// Page bounds a listing. A zero Limit means no limit.
type Page struct {
	Skip  int64
	Limit int64
}

type UserStore[K common.Key] interface {
	GetUserID(ctx context.Context, user *User[K]) (string, error)
	GetUserName(ctx context.Context, user *User[K]) (string, error)
	SetUserName(ctx context.Context, user *User[K], userName string) error
	GetNormalizedUserName(ctx context.Context, user *User[K]) (string, error)
	SetNormalizedUserName(ctx context.Context, user *User[K], normalizedName string) error
	Create(ctx context.Context, user *User[K]) (Result, error)
	Update(ctx context.Context, user *User[K]) (Result, error)
	Delete(ctx context.Context, user *User[K]) (Result, error)
	FindByID(ctx context.Context, userID string) (*User[K], error)
	FindByName(ctx context.Context, normalizedUserName string) (*User[K], error)
	Close(ctx context.Context) error
}

type QueryableUserStore[K common.Key] interface {
	UserStore[K]
	Users(ctx context.Context, page Page) ([]*User[K], error)
}

type UserLoginStore[K common.Key] interface {
	UserStore[K]
	AddLogin(ctx context.Context, user *User[K], login LoginInfo) error
	RemoveLogin(ctx context.Context, user *User[K], loginProvider, providerKey string) error
	GetLogins(ctx context.Context, user *User[K]) ([]LoginInfo, error)
	FindByLogin(ctx context.Context, loginProvider, providerKey string) (*User[K], error)
}

type UserRoleStore[K common.Key] interface {
	UserStore[K]
	AddToRole(ctx context.Context, user *User[K], roleName string) error
	RemoveFromRole(ctx context.Context, user *User[K], roleName string) error
	GetRoles(ctx context.Context, user *User[K]) ([]string, error)
	IsInRole(ctx context.Context, user *User[K], roleName string) (bool, error)
	GetUsersInRole(ctx context.Context, roleName string) ([]*User[K], error)
}

type UserClaimStore[K common.Key] interface {
	UserStore[K]
	GetClaims(ctx context.Context, user *User[K]) ([]Claim, error)
	AddClaims(ctx context.Context, user *User[K], claims []Claim) error
	ReplaceClaim(ctx context.Context, user *User[K], claim, newClaim Claim) error
	RemoveClaims(ctx context.Context, user *User[K], claims []Claim) error
	GetUsersForClaim(ctx context.Context, claim Claim) ([]*User[K], error)
}

type UserPasswordStore[K common.Key] interface {
	UserStore[K]
	SetPasswordHash(ctx context.Context, user *User[K], passwordHash string) error
	GetPasswordHash(ctx context.Context, user *User[K]) (string, error)
	HasPassword(ctx context.Context, user *User[K]) (bool, error)
}

type UserSecurityStampStore[K common.Key] interface {
	UserStore[K]
	SetSecurityStamp(ctx context.Context, user *User[K], stamp string) error
	GetSecurityStamp(ctx context.Context, user *User[K]) (string, error)
}

type UserEmailStore[K common.Key] interface {
	UserStore[K]
	SetEmail(ctx context.Context, user *User[K], email string) error
	GetEmail(ctx context.Context, user *User[K]) (string, error)
	GetEmailConfirmed(ctx context.Context, user *User[K]) (bool, error)
	SetEmailConfirmed(ctx context.Context, user *User[K], confirmed bool) error
	FindByEmail(ctx context.Context, normalizedEmail string) (*User[K], error)
	GetNormalizedEmail(ctx context.Context, user *User[K]) (string, error)
	SetNormalizedEmail(ctx context.Context, user *User[K], normalizedEmail string) error
}

type UserLockoutStore[K common.Key] interface {
	UserStore[K]
	GetLockoutEndDate(ctx context.Context, user *User[K]) (*time.Time, error)
	SetLockoutEndDate(ctx context.Context, user *User[K], lockoutEnd *time.Time) error
	IncrementAccessFailedCount(ctx context.Context, user *User[K]) (int, error)
	ResetAccessFailedCount(ctx context.Context, user *User[K]) error
	GetAccessFailedCount(ctx context.Context, user *User[K]) (int, error)
	GetLockoutEnabled(ctx context.Context, user *User[K]) (bool, error)
	SetLockoutEnabled(ctx context.Context, user *User[K], enabled bool) error
}

type UserPhoneNumberStore[K common.Key] interface {
	UserStore[K]
	SetPhoneNumber(ctx context.Context, user *User[K], phoneNumber string) error
	GetPhoneNumber(ctx context.Context, user *User[K]) (string, error)
	GetPhoneNumberConfirmed(ctx context.Context, user *User[K]) (bool, error)
	SetPhoneNumberConfirmed(ctx context.Context, user *User[K], confirmed bool) error
}

type UserTwoFactorStore[K common.Key] interface {
	UserStore[K]
	SetTwoFactorEnabled(ctx context.Context, user *User[K], enabled bool) error
	GetTwoFactorEnabled(ctx context.Context, user *User[K]) (bool, error)
}

type RoleStore[K common.Key] interface {
	Create(ctx context.Context, role *Role[K]) (Result, error)
	Update(ctx context.Context, role *Role[K]) (Result, error)
	Delete(ctx context.Context, role *Role[K]) (Result, error)
	GetRoleID(ctx context.Context, role *Role[K]) (string, error)
	GetRoleName(ctx context.Context, role *Role[K]) (string, error)
	SetRoleName(ctx context.Context, role *Role[K], roleName string) error
	GetNormalizedRoleName(ctx context.Context, role *Role[K]) (string, error)
	SetNormalizedRoleName(ctx context.Context, role *Role[K], normalizedName string) error
	FindByID(ctx context.Context, roleID string) (*Role[K], error)
	FindByName(ctx context.Context, normalizedName string) (*Role[K], error)
	Close(ctx context.Context) error
}

type RoleClaimStore[K common.Key] interface {
	RoleStore[K]
	GetClaims(ctx context.Context, role *Role[K]) ([]Claim, error)
	AddClaim(ctx context.Context, role *Role[K], claim Claim) error
	RemoveClaim(ctx context.Context, role *Role[K], claim Claim) error
}

type QueryableRoleStore[K common.Key] interface {
	RoleStore[K]
	Roles(ctx context.Context, page Page) ([]*Role[K], error)
}
