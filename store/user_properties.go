package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/identity"
)

func (s *UserStore[K]) SetEmail(ctx context.Context, user *identity.User[K], email string) error {
	if err := s.checkArg(ctx, user, "user", "SetEmail"); err != nil {
		return err
	}
	user.Email = email
	return nil
}

func (s *UserStore[K]) GetEmail(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetEmail"); err != nil {
		return "", err
	}
	return user.Email, nil
}

func (s *UserStore[K]) GetEmailConfirmed(ctx context.Context, user *identity.User[K]) (bool, error) {
	if err := s.checkArg(ctx, user, "user", "GetEmailConfirmed"); err != nil {
		return false, err
	}
	return user.EmailConfirmed, nil
}

func (s *UserStore[K]) SetEmailConfirmed(ctx context.Context, user *identity.User[K], confirmed bool) error {
	if err := s.checkArg(ctx, user, "user", "SetEmailConfirmed"); err != nil {
		return err
	}
	user.EmailConfirmed = confirmed
	return nil
}

// FindByEmail returns nil when no user has the normalized email.
func (s *UserStore[K]) FindByEmail(ctx context.Context, normalizedEmail string) (*identity.User[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return docstore.SingleOrDefault[identity.User[K]](ctx, session, UsersCollection, bson.M{"normalizedemail": normalizedEmail})
}

func (s *UserStore[K]) GetNormalizedEmail(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetNormalizedEmail"); err != nil {
		return "", err
	}
	return user.NormalizedEmail, nil
}

func (s *UserStore[K]) SetNormalizedEmail(ctx context.Context, user *identity.User[K], normalizedEmail string) error {
	if err := s.checkArg(ctx, user, "user", "SetNormalizedEmail"); err != nil {
		return err
	}
	user.NormalizedEmail = normalizedEmail
	return nil
}

func (s *UserStore[K]) GetLockoutEndDate(ctx context.Context, user *identity.User[K]) (*time.Time, error) {
	if err := s.checkArg(ctx, user, "user", "GetLockoutEndDate"); err != nil {
		return nil, err
	}
	return user.LockoutEnd, nil
}

// SetLockoutEndDate stores the end in UTC; nil clears the lockout.
func (s *UserStore[K]) SetLockoutEndDate(ctx context.Context, user *identity.User[K], lockoutEnd *time.Time) error {
	if err := s.checkArg(ctx, user, "user", "SetLockoutEndDate"); err != nil {
		return err
	}
	if lockoutEnd == nil {
		user.LockoutEnd = nil
		return nil
	}
	end := lockoutEnd.UTC()
	user.LockoutEnd = &end
	return nil
}

func (s *UserStore[K]) IncrementAccessFailedCount(ctx context.Context, user *identity.User[K]) (int, error) {
	if err := s.checkArg(ctx, user, "user", "IncrementAccessFailedCount"); err != nil {
		return 0, err
	}
	user.AccessFailedCount++
	return user.AccessFailedCount, nil
}

func (s *UserStore[K]) ResetAccessFailedCount(ctx context.Context, user *identity.User[K]) error {
	if err := s.checkArg(ctx, user, "user", "ResetAccessFailedCount"); err != nil {
		return err
	}
	user.AccessFailedCount = 0
	return nil
}

func (s *UserStore[K]) GetAccessFailedCount(ctx context.Context, user *identity.User[K]) (int, error) {
	if err := s.checkArg(ctx, user, "user", "GetAccessFailedCount"); err != nil {
		return 0, err
	}
	return user.AccessFailedCount, nil
}

func (s *UserStore[K]) GetLockoutEnabled(ctx context.Context, user *identity.User[K]) (bool, error) {
	if err := s.checkArg(ctx, user, "user", "GetLockoutEnabled"); err != nil {
		return false, err
	}
	return user.LockoutEnabled, nil
}

func (s *UserStore[K]) SetLockoutEnabled(ctx context.Context, user *identity.User[K], enabled bool) error {
	if err := s.checkArg(ctx, user, "user", "SetLockoutEnabled"); err != nil {
		return err
	}
	user.LockoutEnabled = enabled
	return nil
}

func (s *UserStore[K]) SetPasswordHash(ctx context.Context, user *identity.User[K], passwordHash string) error {
	if err := s.checkArg(ctx, user, "user", "SetPasswordHash"); err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	return nil
}

func (s *UserStore[K]) GetPasswordHash(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetPasswordHash"); err != nil {
		return "", err
	}
	return user.PasswordHash, nil
}

func (s *UserStore[K]) HasPassword(ctx context.Context, user *identity.User[K]) (bool, error) {
	if err := s.checkArg(ctx, user, "user", "HasPassword"); err != nil {
		return false, err
	}
	return strings.TrimSpace(user.PasswordHash) != "", nil
}

func (s *UserStore[K]) SetPhoneNumber(ctx context.Context, user *identity.User[K], phoneNumber string) error {
	if err := s.checkArg(ctx, user, "user", "SetPhoneNumber"); err != nil {
		return err
	}
	user.PhoneNumber = phoneNumber
	return nil
}

func (s *UserStore[K]) GetPhoneNumber(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetPhoneNumber"); err != nil {
		return "", err
	}
	return user.PhoneNumber, nil
}

func (s *UserStore[K]) GetPhoneNumberConfirmed(ctx context.Context, user *identity.User[K]) (bool, error) {
	if err := s.checkArg(ctx, user, "user", "GetPhoneNumberConfirmed"); err != nil {
		return false, err
	}
	return user.PhoneNumberConfirmed, nil
}

func (s *UserStore[K]) SetPhoneNumberConfirmed(ctx context.Context, user *identity.User[K], confirmed bool) error {
	if err := s.checkArg(ctx, user, "user", "SetPhoneNumberConfirmed"); err != nil {
		return err
	}
	user.PhoneNumberConfirmed = confirmed
	return nil
}

func (s *UserStore[K]) SetSecurityStamp(ctx context.Context, user *identity.User[K], stamp string) error {
	if err := s.checkArg(ctx, user, "user", "SetSecurityStamp"); err != nil {
		return err
	}
	user.SecurityStamp = stamp
	return nil
}

func (s *UserStore[K]) GetSecurityStamp(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetSecurityStamp"); err != nil {
		return "", err
	}
	return user.SecurityStamp, nil
}

func (s *UserStore[K]) SetTwoFactorEnabled(ctx context.Context, user *identity.User[K], enabled bool) error {
	if err := s.checkArg(ctx, user, "user", "SetTwoFactorEnabled"); err != nil {
		return err
	}
	user.TwoFactorEnabled = enabled
	return nil
}

func (s *UserStore[K]) GetTwoFactorEnabled(ctx context.Context, user *identity.User[K]) (bool, error) {
	if err := s.checkArg(ctx, user, "user", "GetTwoFactorEnabled"); err != nil {
		return false, err
	}
	return user.TwoFactorEnabled, nil
}
