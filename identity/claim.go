package identity

import "github.com/tidepool-org/identity/common"

// Claim is a type/value statement about a user or role.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func NewClaim(claimType, value string) Claim {
	return Claim{Type: claimType, Value: value}
}

type UserClaim[K common.Key] struct {
	DocumentKey string `json:"-" bson:"_id,omitempty"`
	UserID      K      `json:"userId" bson:"userid"`
	ClaimType   string `json:"claimType" bson:"claimtype"`
	ClaimValue  string `json:"claimValue" bson:"claimvalue"`
}

func (c *UserClaim[K]) GetDocumentKey() string    { return c.DocumentKey }
func (c *UserClaim[K]) SetDocumentKey(key string) { c.DocumentKey = key }

func (c *UserClaim[K]) ToClaim() Claim {
	return Claim{Type: c.ClaimType, Value: c.ClaimValue}
}

type RoleClaim[K common.Key] struct {
	DocumentKey string `json:"-" bson:"_id,omitempty"`
	RoleID      K      `json:"roleId" bson:"roleid"`
	ClaimType   string `json:"claimType" bson:"claimtype"`
	ClaimValue  string `json:"claimValue" bson:"claimvalue"`
}

func (c *RoleClaim[K]) GetDocumentKey() string    { return c.DocumentKey }
func (c *RoleClaim[K]) SetDocumentKey(key string) { c.DocumentKey = key }

func (c *RoleClaim[K]) ToClaim() Claim {
	return Claim{Type: c.ClaimType, Value: c.ClaimValue}
}
