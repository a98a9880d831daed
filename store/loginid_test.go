package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tidepool-org/identity/common"
)

func TestLoginID(t *testing.T) {
	id := LoginID("google", "12345", "/")
	if !strings.HasPrefix(id, "IdentityUserLogins/") {
		t.Fatalf("unexpected prefix in %s", id)
	}
	hash := strings.TrimPrefix(id, "IdentityUserLogins/")
	if len(hash) != 128 {
		t.Fatalf("expected a 128 character hash, got %d", len(hash))
	}
	if hash != strings.ToLower(hash) {
		t.Fatalf("the hash should be lower case: %s", hash)
	}

	if LoginID("google", "12345", "/") != id {
		t.Fatalf("the login id should be deterministic")
	}
	if LoginID("google", "54321", "/") == id || LoginID("github", "12345", "/") == id {
		t.Fatalf("different logins should not share an id")
	}
	if LoginID("google", "12345", "") != id {
		t.Fatalf("a blank separator should fall back to the default one")
	}
	if got := LoginID("google", "12345", "-"); got != "IdentityUserLogins-"+hash {
		t.Fatalf("the separator was not used: %s", got)
	}
}

func TestHex(t *testing.T) {
	in := []byte{0x00, 0x0f, 0xa0, 0xff}
	if got := ToHex(in); got != "000fa0ff" {
		t.Fatalf("ToHex returned %s", got)
	}
	out, err := FromHex("000FA0ff")
	if err != nil || !bytes.Equal(out, in) {
		t.Fatalf("FromHex returned %v, %v", out, err)
	}
	if _, err := FromHex("abc"); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("an odd length should fail with ErrInvalidArgument, got %v", err)
	}
	if _, err := FromHex("zz"); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("invalid characters should fail with ErrInvalidArgument, got %v", err)
	}
}
