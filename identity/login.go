package identity

import "github.com/tidepool-org/identity/common"

// LoginInfo identifies an external login such as an OAuth provider account.
type LoginInfo struct {
	LoginProvider       string `json:"loginProvider"`
	ProviderKey         string `json:"providerKey"`
	ProviderDisplayName string `json:"providerDisplayName,omitempty"`
}

func NewLoginInfo(provider, key, displayName string) LoginInfo {
	return LoginInfo{LoginProvider: provider, ProviderKey: key, ProviderDisplayName: displayName}
}

// UserLogin is stored under a key derived from the provider and provider key,
// so a given external login can only ever belong to one user.
type UserLogin[K common.Key] struct {
	DocumentKey         string `json:"-" bson:"_id,omitempty"`
	UserID              K      `json:"userId" bson:"userid"`
	LoginProvider       string `json:"loginProvider" bson:"loginprovider"`
	ProviderKey         string `json:"providerKey" bson:"providerkey"`
	ProviderDisplayName string `json:"providerDisplayName,omitempty" bson:"providerdisplayname,omitempty"`
}

func (l *UserLogin[K]) GetDocumentKey() string    { return l.DocumentKey }
func (l *UserLogin[K]) SetDocumentKey(key string) { l.DocumentKey = key }

func (l *UserLogin[K]) ToLoginInfo() LoginInfo {
	return LoginInfo{
		LoginProvider:       l.LoginProvider,
		ProviderKey:         l.ProviderKey,
		ProviderDisplayName: l.ProviderDisplayName,
	}
}
