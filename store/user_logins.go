package store

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/identity"
)

func (s *UserStore[K]) loginKey(session docstore.Session, loginProvider, providerKey string) string {
	return LoginID(loginProvider, providerKey, session.Conventions().Separator())
}

// AddLogin queues the login under its deterministic key. A login that already
// belongs to another user is rejected with docstore.ErrConflict.
func (s *UserStore[K]) AddLogin(ctx context.Context, user *identity.User[K], login identity.LoginInfo) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(user, "user", "AddLogin"); err != nil {
		return err
	}
	if err := common.CheckNotBlank(login.LoginProvider, "login.LoginProvider", "AddLogin"); err != nil {
		return err
	}
	if err := common.CheckNotBlank(login.ProviderKey, "login.ProviderKey", "AddLogin"); err != nil {
		return err
	}

	key := s.loginKey(session, login.LoginProvider, login.ProviderKey)
	existing, err := docstore.Load[identity.UserLogin[K]](ctx, session, UserLoginsCollection, key)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.UserID == user.ID {
			return nil
		}
		return pkgerrors.Wrap(docstore.ErrConflict, s.describer.DuplicateLogin(login.LoginProvider).Description)
	}

	userLogin := &identity.UserLogin[K]{
		DocumentKey:         key,
		UserID:              user.ID,
		LoginProvider:       login.LoginProvider,
		ProviderKey:         login.ProviderKey,
		ProviderDisplayName: login.ProviderDisplayName,
	}
	return session.Store(ctx, UserLoginsCollection, userLogin)
}

func (s *UserStore[K]) RemoveLogin(ctx context.Context, user *identity.User[K], loginProvider, providerKey string) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(user, "user", "RemoveLogin"); err != nil {
		return err
	}

	login, err := docstore.Load[identity.UserLogin[K]](ctx, session, UserLoginsCollection, s.loginKey(session, loginProvider, providerKey))
	if err != nil || login == nil || login.UserID != user.ID {
		return err
	}
	return session.Delete(UserLoginsCollection, login)
}

func (s *UserStore[K]) GetLogins(ctx context.Context, user *identity.User[K]) ([]identity.LoginInfo, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotNil(user, "user", "GetLogins"); err != nil {
		return nil, err
	}

	userLogins, err := docstore.Query[identity.UserLogin[K]](ctx, session, UserLoginsCollection, bson.M{"userid": user.ID})
	if err != nil {
		return nil, err
	}
	logins := make([]identity.LoginInfo, 0, len(userLogins))
	for _, l := range userLogins {
		logins = append(logins, l.ToLoginInfo())
	}
	return logins, nil
}

// FindByLogin returns nil when the login is unknown or its user is gone.
func (s *UserStore[K]) FindByLogin(ctx context.Context, loginProvider, providerKey string) (*identity.User[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotBlank(loginProvider, "loginProvider", "FindByLogin"); err != nil {
		return nil, err
	}
	if err := common.CheckNotBlank(providerKey, "providerKey", "FindByLogin"); err != nil {
		return nil, err
	}

	login, err := docstore.Load[identity.UserLogin[K]](ctx, session, UserLoginsCollection, s.loginKey(session, loginProvider, providerKey))
	if err != nil || login == nil || common.IsZeroKey(login.UserID) {
		return nil, err
	}
	return docstore.Load[identity.User[K]](ctx, session, UsersCollection, s.documentKeyFor(login.UserID, UsersCollection))
}
