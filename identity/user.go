package identity

import (
	"time"

	"github.com/tidepool-org/identity/common"
)

// User is the persisted account. DocumentKey is the database key the record
// lives under; ID is the key the framework hands around. For string keys the
// two are the same value, for numeric keys the document key is the full
// "users/42" form.
type User[K common.Key] struct {
	DocumentKey          string     `json:"-" bson:"_id,omitempty"`
	ID                   K          `json:"id" bson:"id"`
	UserName             string     `json:"userName" bson:"username"`
	NormalizedUserName   string     `json:"normalizedUserName,omitempty" bson:"normalizedusername,omitempty"`
	Email                string     `json:"email,omitempty" bson:"email,omitempty"`
	NormalizedEmail      string     `json:"normalizedEmail,omitempty" bson:"normalizedemail,omitempty"`
	EmailConfirmed       bool       `json:"emailConfirmed" bson:"emailconfirmed"`
	PasswordHash         string     `json:"-" bson:"passwordhash,omitempty"`
	SecurityStamp        string     `json:"-" bson:"securitystamp,omitempty"`
	ConcurrencyStamp     string     `json:"-" bson:"concurrencystamp,omitempty"`
	PhoneNumber          string     `json:"phoneNumber,omitempty" bson:"phonenumber,omitempty"`
	PhoneNumberConfirmed bool       `json:"phoneNumberConfirmed" bson:"phonenumberconfirmed"`
	TwoFactorEnabled     bool       `json:"twoFactorEnabled" bson:"twofactorenabled"`
	LockoutEnd           *time.Time `json:"lockoutEnd,omitempty" bson:"lockoutend,omitempty"`
	LockoutEnabled       bool       `json:"lockoutEnabled" bson:"lockoutenabled"`
	AccessFailedCount    int        `json:"accessFailedCount" bson:"accessfailedcount"`
}

func NewUser[K common.Key](userName string) *User[K] {
	return &User[K]{UserName: userName}
}

func (u *User[K]) GetDocumentKey() string           { return u.DocumentKey }
func (u *User[K]) SetDocumentKey(key string)        { u.DocumentKey = key }
func (u *User[K]) GetConcurrencyStamp() string      { return u.ConcurrencyStamp }
func (u *User[K]) SetConcurrencyStamp(stamp string) { u.ConcurrencyStamp = stamp }

func (u *User[K]) String() string {
	return u.UserName
}
