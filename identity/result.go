package identity

import (
	"fmt"
	"strings"
)

// Error is a framework level failure description, safe to show to callers.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result is returned by the create, update and delete operations. Expected
// failures (duplicates, concurrency conflicts) are reported here instead of
// as a Go error.
type Result struct {
	Succeeded bool    `json:"succeeded"`
	Errors    []Error `json:"errors,omitempty"`
}

var Success = Result{Succeeded: true}

func Failed(errs ...Error) Result {
	return Result{Succeeded: false, Errors: errs}
}

func (r Result) String() string {
	if r.Succeeded {
		return "Succeeded"
	}
	codes := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		codes = append(codes, e.Code)
	}
	return fmt.Sprintf("Failed : %s", strings.Join(codes, ","))
}

// ErrorDescriber builds the Error values used in failed results. Replace it
// to localise the descriptions.
type ErrorDescriber interface {
	DefaultError() Error
	ConcurrencyFailure() Error
	DuplicateUserName(userName string) Error
	DuplicateRoleName(roleName string) Error
	DuplicateLogin(provider string) Error
	RoleNotFound(roleName string) Error
}

type defaultErrorDescriber struct{}

var DefaultErrorDescriber ErrorDescriber = defaultErrorDescriber{}

func (defaultErrorDescriber) DefaultError() Error {
	return Error{Code: "DefaultError", Description: "An unknown failure has occurred."}
}

func (defaultErrorDescriber) ConcurrencyFailure() Error {
	return Error{Code: "ConcurrencyFailure", Description: "Optimistic concurrency failure, object has been modified."}
}

func (defaultErrorDescriber) DuplicateUserName(userName string) Error {
	return Error{Code: "DuplicateUserName", Description: fmt.Sprintf("User name '%s' is already taken.", userName)}
}

func (defaultErrorDescriber) DuplicateRoleName(roleName string) Error {
	return Error{Code: "DuplicateRoleName", Description: fmt.Sprintf("Role name '%s' is already taken.", roleName)}
}

func (defaultErrorDescriber) DuplicateLogin(provider string) Error {
	return Error{Code: "DuplicateLogin", Description: fmt.Sprintf("A user with this %s login already exists.", provider)}
}

func (defaultErrorDescriber) RoleNotFound(roleName string) Error {
	return Error{Code: "RoleNotFound", Description: fmt.Sprintf("Role %s does not exist.", roleName)}
}
