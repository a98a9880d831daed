package identity

import "github.com/tidepool-org/identity/common"

type Role[K common.Key] struct {
	DocumentKey      string `json:"-" bson:"_id,omitempty"`
	ID               K      `json:"id" bson:"id"`
	Name             string `json:"name" bson:"name"`
	NormalizedName   string `json:"normalizedName,omitempty" bson:"normalizedname,omitempty"`
	ConcurrencyStamp string `json:"-" bson:"concurrencystamp,omitempty"`
}

func NewRole[K common.Key](name string) *Role[K] {
	return &Role[K]{Name: name}
}

func (r *Role[K]) GetDocumentKey() string           { return r.DocumentKey }
func (r *Role[K]) SetDocumentKey(key string)        { r.DocumentKey = key }
func (r *Role[K]) GetConcurrencyStamp() string      { return r.ConcurrencyStamp }
func (r *Role[K]) SetConcurrencyStamp(stamp string) { r.ConcurrencyStamp = stamp }

func (r *Role[K]) String() string {
	return r.Name
}

// UserRole links a user to a role.
type UserRole[K common.Key] struct {
	DocumentKey string `json:"-" bson:"_id,omitempty"`
	UserID      K      `json:"userId" bson:"userid"`
	RoleID      K      `json:"roleId" bson:"roleid"`
}

func (r *UserRole[K]) GetDocumentKey() string    { return r.DocumentKey }
func (r *UserRole[K]) SetDocumentKey(key string) { r.DocumentKey = key }
