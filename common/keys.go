package common

import (
	"errors"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

var ErrUnsupportedKeyType = errors.New("only 'int', 'long' and 'string' are valid keys")

// Key is the set of primary key types a store can be instantiated with.
type Key interface {
	string | int32 | int64
}

type KeyKind int

const (
	StringKey KeyKind = iota
	IntKey
	LongKey
)

func (k KeyKind) String() string {
	switch k {
	case StringKey:
		return "string"
	case IntKey:
		return "int"
	case LongKey:
		return "long"
	default:
		return "unknown"
	}
}

// ParseKeyKind maps a configured key type name onto a KeyKind.
func ParseKeyKind(name string) (KeyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "string":
		return StringKey, nil
	case "int", "int32":
		return IntKey, nil
	case "long", "int64":
		return LongKey, nil
	default:
		return 0, pkgerrors.Wrapf(ErrUnsupportedKeyType, "key type %q", name)
	}
}

func KindOf[K Key]() KeyKind {
	var zero K
	switch any(zero).(type) {
	case int32:
		return IntKey
	case int64:
		return LongKey
	default:
		return StringKey
	}
}

func IsString[K Key]() bool  { return KindOf[K]() == StringKey }
func IsInt[K Key]() bool     { return KindOf[K]() == IntKey }
func IsLong[K Key]() bool    { return KindOf[K]() == LongKey }
func IsNumeric[K Key]() bool { return KindOf[K]() != StringKey }

// IsZeroKey reports whether k is the default value of its type, which the
// stores treat as "no id assigned yet".
func IsZeroKey[K Key](k K) bool {
	var zero K
	return k == zero
}

// ConvertIDFromString parses the string form of an id. An empty string yields
// the zero key.
func ConvertIDFromString[K Key](id string) (K, error) {
	var zero K
	if id == "" {
		return zero, nil
	}

	var out any
	switch any(zero).(type) {
	case int32:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 32)
		if err != nil {
			return zero, pkgerrors.Wrapf(ErrInvalidArgument, "id %q is not a valid int key", id)
		}
		out = int32(n)
	case int64:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return zero, pkgerrors.Wrapf(ErrInvalidArgument, "id %q is not a valid long key", id)
		}
		out = n
	default:
		out = id
	}
	return out.(K), nil
}

// ConvertIDToString is the inverse of ConvertIDFromString; the zero key maps
// to the empty string.
func ConvertIDToString[K Key](id K) string {
	if IsZeroKey(id) {
		return ""
	}
	switch v := any(id).(type) {
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	}
	return ""
}

// KeyFromInt64 converts a generated numeric identity into K. String keys are
// not generated from counters.
func KeyFromInt64[K Key](n int64) (K, error) {
	var zero K
	switch any(zero).(type) {
	case int32:
		if n > int64(^uint32(0)>>1) || n < -int64(^uint32(0)>>1)-1 {
			return zero, pkgerrors.Errorf("identity %d overflows an int key", n)
		}
		return any(int32(n)).(K), nil
	case int64:
		return any(n).(K), nil
	default:
		return zero, pkgerrors.Wrap(ErrUnsupportedKeyType, "numeric identity requested for a string key")
	}
}
