package store

import (
	"context"
	"fmt"
	"regexp"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/identity"
)

// roleNameFilter matches a role name case insensitively.
func roleNameFilter(roleName string) bson.M {
	const match = `^%s$`
	return bson.M{"name": primitive.Regex{Pattern: fmt.Sprintf(match, regexp.QuoteMeta(roleName)), Options: "i"}}
}

func (s *UserStore[K]) findRole(ctx context.Context, session docstore.Session, roleName string) (*identity.Role[K], error) {
	return docstore.SingleOrDefault[identity.Role[K]](ctx, session, RolesCollection, roleNameFilter(roleName))
}

// AddToRole fails with ErrRoleNotFound when no role has the name.
func (s *UserStore[K]) AddToRole(ctx context.Context, user *identity.User[K], roleName string) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(user, "user", "AddToRole"); err != nil {
		return err
	}
	if err := common.CheckNotBlank(roleName, "roleName", "AddToRole"); err != nil {
		return err
	}

	role, err := s.findRole(ctx, session, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return pkgerrors.Wrap(ErrRoleNotFound, s.describer.RoleNotFound(roleName).Description)
	}

	userRole := &identity.UserRole[K]{UserID: user.ID, RoleID: role.ID}
	return session.Store(ctx, UserRolesCollection, userRole)
}

func (s *UserStore[K]) RemoveFromRole(ctx context.Context, user *identity.User[K], roleName string) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(user, "user", "RemoveFromRole"); err != nil {
		return err
	}
	if err := common.CheckNotBlank(roleName, "roleName", "RemoveFromRole"); err != nil {
		return err
	}

	role, err := s.findRole(ctx, session, roleName)
	if err != nil || role == nil {
		return err
	}
	userRole, err := docstore.FirstOrDefault[identity.UserRole[K]](ctx, session, UserRolesCollection, bson.M{"userid": user.ID, "roleid": role.ID})
	if err != nil || userRole == nil {
		return err
	}
	return session.Delete(UserRolesCollection, userRole)
}

// GetRoles returns the names of the user's roles. Memberships of deleted roles
// are skipped.
func (s *UserStore[K]) GetRoles(ctx context.Context, user *identity.User[K]) ([]string, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotNil(user, "user", "GetRoles"); err != nil {
		return nil, err
	}

	userRoles, err := docstore.Query[identity.UserRole[K]](ctx, session, UserRolesCollection, bson.M{"userid": user.ID})
	if err != nil {
		return nil, err
	}
	ids := make([]K, 0, len(userRoles))
	for _, ur := range userRoles {
		ids = append(ids, ur.RoleID)
	}
	roles, err := docstore.LoadMany[identity.Role[K]](ctx, session, RolesCollection, s.documentKeys(ids, RolesCollection))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

func (s *UserStore[K]) IsInRole(ctx context.Context, user *identity.User[K], roleName string) (bool, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return false, err
	}
	if err := common.CheckNotNil(user, "user", "IsInRole"); err != nil {
		return false, err
	}
	if err := common.CheckNotBlank(roleName, "roleName", "IsInRole"); err != nil {
		return false, err
	}

	role, err := s.findRole(ctx, session, roleName)
	if err != nil || role == nil {
		return false, err
	}
	return docstore.Any(ctx, session, UserRolesCollection, bson.M{"userid": user.ID, "roleid": role.ID})
}

// GetUsersInRole returns an empty list for an unknown role.
func (s *UserStore[K]) GetUsersInRole(ctx context.Context, roleName string) ([]*identity.User[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	role, err := s.findRole(ctx, session, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return []*identity.User[K]{}, nil
	}

	userRoles, err := docstore.Query[identity.UserRole[K]](ctx, session, UserRolesCollection, bson.M{"roleid": role.ID})
	if err != nil {
		return nil, err
	}
	ids := make([]K, 0, len(userRoles))
	for _, ur := range userRoles {
		ids = append(ids, ur.UserID)
	}
	return s.loadUsers(ctx, session, ids)
}
