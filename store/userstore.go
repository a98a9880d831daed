package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/events"
	"github.com/tidepool-org/identity/identity"
)

var (
	_ identity.QueryableUserStore[string]     = &UserStore[string]{}
	_ identity.UserLoginStore[int32]          = &UserStore[int32]{}
	_ identity.UserRoleStore[int64]           = &UserStore[int64]{}
	_ identity.UserClaimStore[string]         = &UserStore[string]{}
	_ identity.UserPasswordStore[string]      = &UserStore[string]{}
	_ identity.UserSecurityStampStore[string] = &UserStore[string]{}
	_ identity.UserEmailStore[string]         = &UserStore[string]{}
	_ identity.UserLockoutStore[string]       = &UserStore[string]{}
	_ identity.UserPhoneNumberStore[string]   = &UserStore[string]{}
	_ identity.UserTwoFactorStore[string]     = &UserStore[string]{}
)

// UserStore persists users together with their claims, logins and role
// memberships.
type UserStore[K common.Key] struct {
	*GenericStore[K]
}

// NewUserStore works on an already open session.
func NewUserStore[K common.Key](ctx context.Context, session docstore.Session, opts ...Option) (*UserStore[K], error) {
	if err := common.CheckNotNil(session, "session", "NewUserStore"); err != nil {
		return nil, err
	}
	return newUserStore[K](ctx, session, nil, opts)
}

// NewLazyUserStore resolves its session on first use.
func NewLazyUserStore[K common.Key](ctx context.Context, getSession func() docstore.Session, opts ...Option) (*UserStore[K], error) {
	if err := common.CheckNotNil(getSession, "getSession", "NewLazyUserStore"); err != nil {
		return nil, err
	}
	return newUserStore[K](ctx, nil, getSession, opts)
}

func newUserStore[K common.Key](ctx context.Context, session docstore.Session, getSession func() docstore.Session, opts []Option) (*UserStore[K], error) {
	s := applyOptions(opts)
	if s.installer != nil {
		if err := InstallIndexes(ctx, s.installer); err != nil {
			return nil, err
		}
	}
	return &UserStore[K]{GenericStore: newGenericStore[K]("UserStore", session, getSession, s)}, nil
}

func userData[K common.Key](user *identity.User[K]) events.UserData {
	return events.UserData{
		UserID:         common.ConvertIDToString(user.ID),
		Username:       user.UserName,
		Email:          user.Email,
		EmailVerified:  user.EmailConfirmed,
		PasswordExists: user.PasswordHash != "",
	}
}

func (s *UserStore[K]) GetUserID(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetUserID"); err != nil {
		return "", err
	}
	return s.ConvertIDToString(user.ID), nil
}

func (s *UserStore[K]) GetUserName(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetUserName"); err != nil {
		return "", err
	}
	return user.UserName, nil
}

func (s *UserStore[K]) SetUserName(ctx context.Context, user *identity.User[K], userName string) error {
	if err := s.checkArg(ctx, user, "user", "SetUserName"); err != nil {
		return err
	}
	user.UserName = userName
	return nil
}

func (s *UserStore[K]) GetNormalizedUserName(ctx context.Context, user *identity.User[K]) (string, error) {
	if err := s.checkArg(ctx, user, "user", "GetNormalizedUserName"); err != nil {
		return "", err
	}
	return user.NormalizedUserName, nil
}

func (s *UserStore[K]) SetNormalizedUserName(ctx context.Context, user *identity.User[K], normalizedName string) error {
	if err := s.checkArg(ctx, user, "user", "SetNormalizedUserName"); err != nil {
		return err
	}
	user.NormalizedUserName = normalizedName
	return nil
}

// Create assigns the user an id when it has none and stores it. A user whose
// key is already taken fails with DuplicateUserName.
func (s *UserStore[K]) Create(ctx context.Context, user *identity.User[K]) (identity.Result, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return identity.Result{}, err
	}
	if err := common.CheckNotNil(user, "user", "Create"); err != nil {
		return identity.Result{}, err
	}

	if err := s.assignID(ctx, session, UsersCollection, &user.ID, user); err != nil {
		return identity.Result{}, err
	}
	duplicate := s.describer.DuplicateUserName(user.UserName)
	if err := session.Store(ctx, UsersCollection, user); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			countOperation(s.name, "Create", outcomeConflict)
			return identity.Failed(duplicate), nil
		}
		return identity.Result{}, err
	}

	result, err := s.saveResult(ctx, "Create", duplicate)
	if err != nil || !result.Succeeded {
		// drop the pending insert so the next save does not retry it
		session.Evict(UsersCollection, user)
		return result, err
	}
	s.notify(ctx, events.UserCreatedEventType, func(ctx context.Context) error {
		return s.notifier.NotifyUserCreated(ctx, userData(user))
	})
	return result, nil
}

// Update saves the changes made to users loaded through this store's session.
func (s *UserStore[K]) Update(ctx context.Context, user *identity.User[K]) (identity.Result, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return identity.Result{}, err
	}
	if err := common.CheckNotNil(user, "user", "Update"); err != nil {
		return identity.Result{}, err
	}

	result, err := s.saveResult(ctx, "Update", identity.Error{})
	if err != nil || !result.Succeeded {
		session.Evict(UsersCollection, user)
		return result, err
	}
	s.notify(ctx, events.UserUpdatedEventType, func(ctx context.Context) error {
		return s.notifier.NotifyUserUpdated(ctx, userData(user))
	})
	return result, nil
}

func (s *UserStore[K]) Delete(ctx context.Context, user *identity.User[K]) (identity.Result, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return identity.Result{}, err
	}
	if err := common.CheckNotNil(user, "user", "Delete"); err != nil {
		return identity.Result{}, err
	}

	if err := session.Delete(UsersCollection, user); err != nil {
		return identity.Result{}, err
	}
	result, err := s.saveResult(ctx, "Delete", identity.Error{})
	if err != nil || !result.Succeeded {
		session.Evict(UsersCollection, user)
		return result, err
	}
	s.notify(ctx, events.UserDeletedEventType, func(ctx context.Context) error {
		return s.notifier.NotifyUserDeleted(ctx, userData(user))
	})
	return result, nil
}

// FindByID returns nil when no user has the id.
func (s *UserStore[K]) FindByID(ctx context.Context, userID string) (*identity.User[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotBlank(userID, "userID", "FindByID"); err != nil {
		return nil, err
	}

	key, err := s.lookupKey(userID, UsersCollection)
	if err != nil {
		return nil, err
	}
	return docstore.Load[identity.User[K]](ctx, session, UsersCollection, key)
}

// FindByName matches the normalized user name first and falls back to the
// user name as given.
func (s *UserStore[K]) FindByName(ctx context.Context, normalizedUserName string) (*identity.User[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotBlank(normalizedUserName, "normalizedUserName", "FindByName"); err != nil {
		return nil, err
	}

	user, err := docstore.SingleOrDefault[identity.User[K]](ctx, session, UsersCollection, bson.M{"normalizedusername": normalizedUserName})
	if err != nil || user != nil {
		return user, err
	}
	return docstore.SingleOrDefault[identity.User[K]](ctx, session, UsersCollection, bson.M{"username": normalizedUserName})
}

// Users lists users in key order.
func (s *UserStore[K]) Users(ctx context.Context, page identity.Page) ([]*identity.User[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return docstore.Query[identity.User[K]](ctx, session, UsersCollection, bson.M{}, pageOptions(page))
}

func pageOptions(page identity.Page) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return opts
}
