package common

import (
	"errors"
	"reflect"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDisposed        = errors.New("store has been closed")
)

// CheckNotNil only rejects nil values. A typed nil pointer, map, slice or
// func is treated as nil too.
func CheckNotNil(v any, name, op string) error {
	if isNil(v) {
		return pkgerrors.Wrapf(ErrInvalidArgument, "%s: %s cannot be nil", op, name)
	}
	return nil
}

// CheckNotBlank rejects empty or whitespace-only strings.
func CheckNotBlank(s, name, op string) error {
	if strings.TrimSpace(s) == "" {
		return pkgerrors.Wrapf(ErrInvalidArgument, "%s: %s cannot be null, empty or white space", op, name)
	}
	return nil
}

// CheckNotZero rejects a default key: 0 for numeric keys, blank for strings.
func CheckNotZero[K Key](k K, name, op string) error {
	if s, ok := any(k).(string); ok {
		return CheckNotBlank(s, name, op)
	}
	if IsZeroKey(k) {
		return pkgerrors.Wrapf(ErrInvalidArgument, "%s: %s cannot be 0", op, name)
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
