package store

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
)

// LoginID is the document key of an external login. It only depends on the
// provider and the provider's key, so the same external account always maps
// onto the same document.
func LoginID(loginProvider, providerKey, separator string) string {
	if strings.TrimSpace(separator) == "" {
		separator = docstore.DefaultIdentityPartsSeparator
	}
	sum := sha512.Sum512([]byte(loginProvider + "|" + providerKey))
	return docstore.LoginKeyPrefix + separator + ToHex(sum[:])
}

// ToHex encodes bytes as lower case hex, two characters per byte.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

func FromHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, pkgerrors.Wrap(common.ErrInvalidArgument, "hex string must be an even number of characters to convert to bytes")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, pkgerrors.Wrapf(common.ErrInvalidArgument, "invalid hex string: %v", err)
	}
	return b, nil
}
