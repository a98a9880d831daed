package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/events"
	"github.com/tidepool-org/identity/identity"
)

var (
	_ identity.RoleClaimStore[string]    = &RoleStore[string]{}
	_ identity.QueryableRoleStore[int32] = &RoleStore[int32]{}
	_ identity.QueryableRoleStore[int64] = &RoleStore[int64]{}
)

type RoleStore[K common.Key] struct {
	*GenericStore[K]
}

func NewRoleStore[K common.Key](session docstore.Session, opts ...Option) (*RoleStore[K], error) {
	if err := common.CheckNotNil(session, "session", "NewRoleStore"); err != nil {
		return nil, err
	}
	return &RoleStore[K]{GenericStore: newGenericStore[K]("RoleStore", session, nil, applyOptions(opts))}, nil
}

func NewLazyRoleStore[K common.Key](getSession func() docstore.Session, opts ...Option) (*RoleStore[K], error) {
	if err := common.CheckNotNil(getSession, "getSession", "NewLazyRoleStore"); err != nil {
		return nil, err
	}
	return &RoleStore[K]{GenericStore: newGenericStore[K]("RoleStore", nil, getSession, applyOptions(opts))}, nil
}

func roleData[K common.Key](role *identity.Role[K]) events.RoleData {
	return events.RoleData{RoleID: common.ConvertIDToString(role.ID), Name: role.Name}
}

func (s *RoleStore[K]) Create(ctx context.Context, role *identity.Role[K]) (identity.Result, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return identity.Result{}, err
	}
	if err := common.CheckNotNil(role, "role", "Create"); err != nil {
		return identity.Result{}, err
	}
	if err := common.CheckNotBlank(role.Name, "role.Name", "Create"); err != nil {
		return identity.Result{}, err
	}

	if err := s.assignID(ctx, session, RolesCollection, &role.ID, role); err != nil {
		return identity.Result{}, err
	}
	duplicate := s.describer.DuplicateRoleName(role.Name)
	if err := session.Store(ctx, RolesCollection, role); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			countOperation(s.name, "Create", outcomeConflict)
			return identity.Failed(duplicate), nil
		}
		return identity.Result{}, err
	}

	result, err := s.saveResult(ctx, "Create", duplicate)
	if err != nil || !result.Succeeded {
		session.Evict(RolesCollection, role)
		return result, err
	}
	s.notify(ctx, events.RoleCreatedEventType, func(ctx context.Context) error {
		return s.notifier.NotifyRoleCreated(ctx, roleData(role))
	})
	return result, nil
}

// Update gives the role a fresh concurrency stamp and saves it.
func (s *RoleStore[K]) Update(ctx context.Context, role *identity.Role[K]) (identity.Result, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return identity.Result{}, err
	}
	if err := common.CheckNotNil(role, "role", "Update"); err != nil {
		return identity.Result{}, err
	}

	role.ConcurrencyStamp = uuid.NewString()
	result, err := s.saveResult(ctx, "Update", identity.Error{})
	if err != nil || !result.Succeeded {
		session.Evict(RolesCollection, role)
		return result, err
	}
	s.notify(ctx, events.RoleUpdatedEventType, func(ctx context.Context) error {
		return s.notifier.NotifyRoleUpdated(ctx, roleData(role))
	})
	return result, nil
}

func (s *RoleStore[K]) Delete(ctx context.Context, role *identity.Role[K]) (identity.Result, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return identity.Result{}, err
	}
	if err := common.CheckNotNil(role, "role", "Delete"); err != nil {
		return identity.Result{}, err
	}

	if err := session.Delete(RolesCollection, role); err != nil {
		return identity.Result{}, err
	}
	result, err := s.saveResult(ctx, "Delete", identity.Error{})
	if err != nil || !result.Succeeded {
		session.Evict(RolesCollection, role)
		return result, err
	}
	s.notify(ctx, events.RoleDeletedEventType, func(ctx context.Context) error {
		return s.notifier.NotifyRoleDeleted(ctx, roleData(role))
	})
	return result, nil
}

func (s *RoleStore[K]) GetRoleID(ctx context.Context, role *identity.Role[K]) (string, error) {
	if err := s.checkArg(ctx, role, "role", "GetRoleID"); err != nil {
		return "", err
	}
	return s.ConvertIDToString(role.ID), nil
}

func (s *RoleStore[K]) GetRoleName(ctx context.Context, role *identity.Role[K]) (string, error) {
	if err := s.checkArg(ctx, role, "role", "GetRoleName"); err != nil {
		return "", err
	}
	return role.Name, nil
}

func (s *RoleStore[K]) SetRoleName(ctx context.Context, role *identity.Role[K], roleName string) error {
	if err := s.checkArg(ctx, role, "role", "SetRoleName"); err != nil {
		return err
	}
	role.Name = roleName
	return nil
}

func (s *RoleStore[K]) GetNormalizedRoleName(ctx context.Context, role *identity.Role[K]) (string, error) {
	if err := s.checkArg(ctx, role, "role", "GetNormalizedRoleName"); err != nil {
		return "", err
	}
	return role.NormalizedName, nil
}

func (s *RoleStore[K]) SetNormalizedRoleName(ctx context.Context, role *identity.Role[K], normalizedName string) error {
	if err := s.checkArg(ctx, role, "role", "SetNormalizedRoleName"); err != nil {
		return err
	}
	role.NormalizedName = normalizedName
	return nil
}

func (s *RoleStore[K]) FindByID(ctx context.Context, roleID string) (*identity.Role[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotBlank(roleID, "roleID", "FindByID"); err != nil {
		return nil, err
	}

	key, err := s.lookupKey(roleID, RolesCollection)
	if err != nil {
		return nil, err
	}
	return docstore.Load[identity.Role[K]](ctx, session, RolesCollection, key)
}

func (s *RoleStore[K]) FindByName(ctx context.Context, normalizedName string) (*identity.Role[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotBlank(normalizedName, "normalizedName", "FindByName"); err != nil {
		return nil, err
	}
	return docstore.FirstOrDefault[identity.Role[K]](ctx, session, RolesCollection, bson.M{"normalizedname": normalizedName})
}

func (s *RoleStore[K]) GetClaims(ctx context.Context, role *identity.Role[K]) ([]identity.Claim, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotNil(role, "role", "GetClaims"); err != nil {
		return nil, err
	}

	roleClaims, err := docstore.Query[identity.RoleClaim[K]](ctx, session, RoleClaimsCollection, bson.M{"roleid": role.ID})
	if err != nil {
		return nil, err
	}
	claims := make([]identity.Claim, 0, len(roleClaims))
	for _, rc := range roleClaims {
		claims = append(claims, rc.ToClaim())
	}
	return claims, nil
}

func (s *RoleStore[K]) AddClaim(ctx context.Context, role *identity.Role[K], claim identity.Claim) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(role, "role", "AddClaim"); err != nil {
		return err
	}

	roleClaim := &identity.RoleClaim[K]{RoleID: role.ID, ClaimType: claim.Type, ClaimValue: claim.Value}
	if err := session.Store(ctx, RoleClaimsCollection, roleClaim); err != nil {
		return err
	}
	return s.SaveChanges(ctx)
}

// RemoveClaim removes the claim from this role only.
func (s *RoleStore[K]) RemoveClaim(ctx context.Context, role *identity.Role[K], claim identity.Claim) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(role, "role", "RemoveClaim"); err != nil {
		return err
	}

	filter := claimFilter(claim)
	filter["roleid"] = role.ID
	matched, err := docstore.Query[identity.RoleClaim[K]](ctx, session, RoleClaimsCollection, filter)
	if err != nil {
		return err
	}
	for _, rc := range matched {
		if err := session.Delete(RoleClaimsCollection, rc); err != nil {
			return err
		}
	}
	return s.SaveChanges(ctx)
}

func (s *RoleStore[K]) Roles(ctx context.Context, page identity.Page) ([]*identity.Role[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return docstore.Query[identity.Role[K]](ctx, session, RolesCollection, bson.M{}, pageOptions(page))
}
