package store

import (
	"context"
	"sync"

	"github.com/tidepool-org/identity/docstore"
)

// IndexInstaller is satisfied by *docstore.DocumentStore.
type IndexInstaller interface {
	EnsureIndexes(ctx context.Context, defs ...docstore.IndexDefinition) error
}

var (
	IdentityRoleGetByName = docstore.IndexDefinition{
		Name:       "IdentityRole_GetByName",
		Collection: RolesCollection,
		Fields:     []string{"name", "normalizedname"},
	}
	IdentityUserGetByEmail = docstore.IndexDefinition{
		Name:       "IdentityUser_GetByEmail",
		Collection: UsersCollection,
		Fields:     []string{"email", "normalizedemail"},
	}
	IdentityUserGetByUserName = docstore.IndexDefinition{
		Name:       "IdentityUser_GetByUserName",
		Collection: UsersCollection,
		Fields:     []string{"username", "normalizedusername"},
	}
)

// Indexes returns the three lookup indexes followed by the indexes on the
// link collections.
func Indexes() []docstore.IndexDefinition {
	return []docstore.IndexDefinition{
		IdentityRoleGetByName,
		IdentityUserGetByEmail,
		IdentityUserGetByUserName,
		{Name: "IdentityUserClaim_ByUser", Collection: UserClaimsCollection, Fields: []string{"userid"}},
		{Name: "IdentityUserClaim_ByClaim", Collection: UserClaimsCollection, Fields: []string{"claimtype", "claimvalue"}},
		{Name: "IdentityRoleClaim_ByRole", Collection: RoleClaimsCollection, Fields: []string{"roleid"}},
		{Name: "IdentityUserRole_ByMember", Collection: UserRolesCollection, Fields: []string{"userid", "roleid"}},
		{Name: "IdentityUserLogin_ByUser", Collection: UserLoginsCollection, Fields: []string{"userid"}},
		{Name: "IdentityUserLogin_ByProvider", Collection: UserLoginsCollection, Fields: []string{"loginprovider", "providerkey"}, Unique: true},
	}
}

var (
	installedMu sync.Mutex
	installed   = map[IndexInstaller]bool{}
)

// InstallIndexes creates the indexes once per installer. A failed attempt is
// retried on the next call.
func InstallIndexes(ctx context.Context, installer IndexInstaller) error {
	installedMu.Lock()
	defer installedMu.Unlock()
	if installed[installer] {
		return nil
	}
	if err := installer.EnsureIndexes(ctx, Indexes()...); err != nil {
		return err
	}
	installed[installer] = true
	return nil
}
