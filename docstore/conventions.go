package docstore

import "strings"

const (
	DefaultIdentityPartsSeparator = "/"
	LoginKeyPrefix                = "IdentityUserLogins"
)

// Conventions describe how document keys are built.
type Conventions struct {
	IdentityPartsSeparator string
}

func DefaultConventions() Conventions {
	return Conventions{IdentityPartsSeparator: DefaultIdentityPartsSeparator}
}

// Separator falls back to "/" when none is configured.
func (c Conventions) Separator() string {
	if strings.TrimSpace(c.IdentityPartsSeparator) == "" {
		return DefaultIdentityPartsSeparator
	}
	return c.IdentityPartsSeparator
}

// FindFullDocumentKey builds the key of a document whose identifier is not a
// string, e.g. "users/42".
func (c Conventions) FindFullDocumentKey(collection, id string) string {
	return collection + c.Separator() + id
}
