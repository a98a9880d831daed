package events

import (
	"context"
	"time"
)

//go:generate mockgen -source=./events.go -destination=./notifier_mock.go -package events Notifier

const (
	UserCreatedEventType = "identity:user:created"
	UserUpdatedEventType = "identity:user:updated"
	UserDeletedEventType = "identity:user:deleted"
	RoleCreatedEventType = "identity:role:created"
	RoleUpdatedEventType = "identity:role:updated"
	RoleDeletedEventType = "identity:role:deleted"
)

type UserData struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	EmailVerified  bool   `json:"emailVerified"`
	PasswordExists bool   `json:"passwordExists"`
}

type RoleData struct {
	RoleID string `json:"roleId"`
	Name   string `json:"name"`
}

type Event struct {
	Type string    `json:"type"`
	Time time.Time `json:"time"`
	User *UserData `json:"user,omitempty"`
	Role *RoleData `json:"role,omitempty"`
}

// Key is the partitioning key of the event, the id of the user or role.
func (e Event) Key() string {
	switch {
	case e.User != nil:
		return e.User.UserID
	case e.Role != nil:
		return e.Role.RoleID
	}
	return ""
}

// Notifier publishes changes the stores have persisted.
type Notifier interface {
	NotifyUserCreated(ctx context.Context, user UserData) error
	NotifyUserUpdated(ctx context.Context, user UserData) error
	NotifyUserDeleted(ctx context.Context, user UserData) error
	NotifyRoleCreated(ctx context.Context, role RoleData) error
	NotifyRoleUpdated(ctx context.Context, role RoleData) error
	NotifyRoleDeleted(ctx context.Context, role RoleData) error
}

var _ Notifier = NoopNotifier{}

type NoopNotifier struct{}

func (NoopNotifier) NotifyUserCreated(ctx context.Context, user UserData) error { return nil }
func (NoopNotifier) NotifyUserUpdated(ctx context.Context, user UserData) error { return nil }
func (NoopNotifier) NotifyUserDeleted(ctx context.Context, user UserData) error { return nil }
func (NoopNotifier) NotifyRoleCreated(ctx context.Context, role RoleData) error { return nil }
func (NoopNotifier) NotifyRoleUpdated(ctx context.Context, role RoleData) error { return nil }
func (NoopNotifier) NotifyRoleDeleted(ctx context.Context, role RoleData) error { return nil }
