package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/identity"
)

func claimFilter(claim identity.Claim) bson.M {
	return bson.M{"claimtype": claim.Type, "claimvalue": claim.Value}
}

func (s *UserStore[K]) GetClaims(ctx context.Context, user *identity.User[K]) ([]identity.Claim, error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotNil(user, "user", "GetClaims"); err != nil {
		return nil, err
	}

	userClaims, err := docstore.Query[identity.UserClaim[K]](ctx, session, UserClaimsCollection, bson.M{"userid": user.ID})
	if err != nil {
		return nil, err
	}
	claims := make([]identity.Claim, 0, len(userClaims))
	for _, uc := range userClaims {
		claims = append(claims, uc.ToClaim())
	}
	return claims, nil
}

// AddClaims queues the claims; they are written with the next save.
func (s *UserStore[K]) AddClaims(ctx context.Context, user *identity.User[K], claims []identity.Claim) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(user, "user", "AddClaims"); err != nil {
		return err
	}
	if err := common.CheckNotNil(claims, "claims", "AddClaims"); err != nil {
		return err
	}

	for _, claim := range claims {
		userClaim := &identity.UserClaim[K]{
			UserID:     user.ID,
			ClaimType:  claim.Type,
			ClaimValue: claim.Value,
		}
		if err := session.Store(ctx, UserClaimsCollection, userClaim); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceClaim rewrites every matching claim of the user in place.
func (s *UserStore[K]) ReplaceClaim(ctx context.Context, user *identity.User[K], claim, newClaim identity.Claim) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(user, "user", "ReplaceClaim"); err != nil {
		return err
	}

	filter := claimFilter(claim)
	filter["userid"] = user.ID
	matched, err := docstore.Query[identity.UserClaim[K]](ctx, session, UserClaimsCollection, filter)
	if err != nil {
		return err
	}
	for _, uc := range matched {
		uc.ClaimType = newClaim.Type
		uc.ClaimValue = newClaim.Value
	}
	return nil
}

func (s *UserStore[K]) RemoveClaims(ctx context.Context, user *identity.User[K], claims []identity.Claim) error {
	session, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := common.CheckNotNil(user, "user", "RemoveClaims"); err != nil {
		return err
	}
	if err := common.CheckNotNil(claims, "claims", "RemoveClaims"); err != nil {
		return err
	}

	for _, claim := range claims {
		filter := claimFilter(claim)
		filter["userid"] = user.ID
		matched, err := docstore.Query[identity.UserClaim[K]](ctx, session, UserClaimsCollection, filter)
		if err != nil {
			return err
		}
		for _, uc := range matched {
			if err := session.Delete(UserClaimsCollection, uc); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetUsersForClaim returns each user holding the claim once.
func (s *UserStore[K]) GetUsersForClaim(ctx context.Context, claim identity.Claim) ([]*identity.User[K], error) {
	session, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.CheckNotBlank(claim.Type, "claim.Type", "GetUsersForClaim"); err != nil {
		return nil, err
	}

	userClaims, err := docstore.Query[identity.UserClaim[K]](ctx, session, UserClaimsCollection, claimFilter(claim))
	if err != nil {
		return nil, err
	}
	ids := make([]K, 0, len(userClaims))
	for _, uc := range userClaims {
		ids = append(ids, uc.UserID)
	}
	return s.loadUsers(ctx, session, ids)
}

// loadUsers loads users by id, skipping duplicates and missing users.
func (s *UserStore[K]) loadUsers(ctx context.Context, session docstore.Session, ids []K) ([]*identity.User[K], error) {
	return docstore.LoadMany[identity.User[K]](ctx, session, UsersCollection, s.documentKeys(ids, UsersCollection))
}

func (g *GenericStore[K]) documentKeys(ids []K, collection string) []string {
	seen := make(map[string]bool, len(ids))
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		key := g.documentKeyFor(id, collection)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
