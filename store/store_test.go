package store

import (
	"context"
	"testing"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/docstore/docstoretest"
	"github.com/tidepool-org/identity/identity"
)

func newTestSession(backend *docstoretest.Backend) docstore.Session {
	return docstore.NewSession(backend, docstore.DefaultConventions())
}

func mustUserStore[K common.Key](t *testing.T, session docstore.Session, opts ...Option) *UserStore[K] {
	t.Helper()
	s, err := NewUserStore[K](context.Background(), session, opts...)
	if err != nil {
		t.Fatalf("unable to create the user store: %v", err)
	}
	return s
}

func mustRoleStore[K common.Key](t *testing.T, session docstore.Session, opts ...Option) *RoleStore[K] {
	t.Helper()
	s, err := NewRoleStore[K](session, opts...)
	if err != nil {
		t.Fatalf("unable to create the role store: %v", err)
	}
	return s
}

func createUser[K common.Key](t *testing.T, s *UserStore[K], user *identity.User[K]) *identity.User[K] {
	t.Helper()
	result, err := s.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("unable to create user %s: %v", user.UserName, err)
	}
	if !result.Succeeded {
		t.Fatalf("creating user %s returned %s", user.UserName, result)
	}
	return user
}

func saveUser[K common.Key](t *testing.T, s *UserStore[K], user *identity.User[K]) {
	t.Helper()
	result, err := s.Update(context.Background(), user)
	if err != nil {
		t.Fatalf("unable to update user %s: %v", user.UserName, err)
	}
	if !result.Succeeded {
		t.Fatalf("updating user %s returned %s", user.UserName, result)
	}
}

func failedWith(result identity.Result, code string) bool {
	return !result.Succeeded && len(result.Errors) == 1 && result.Errors[0].Code == code
}
