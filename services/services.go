// Package services wires the document store into user and role stores of
// the configured key type.
package services

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/events"
	"github.com/tidepool-org/identity/store"
)

// SessionFactory is satisfied by *docstore.DocumentStore.
type SessionFactory interface {
	OpenSession() docstore.Session
}

type Services[K common.Key] struct {
	sessions SessionFactory
	options  []store.Option
	logger   *log.Entry
}

func New[K common.Key](sessions SessionFactory, logger *log.Entry, opts ...store.Option) *Services[K] {
	opts = append([]store.Option{store.WithLogger(logger)}, opts...)
	return &Services[K]{sessions: sessions, options: opts, logger: logger}
}

// Scope is one unit of work: a user store and a role store over the same
// session.
type Scope[K common.Key] struct {
	Session docstore.Session
	Users   *store.UserStore[K]
	Roles   *store.RoleStore[K]
}

func (s *Services[K]) NewScope(ctx context.Context) (*Scope[K], error) {
	session := s.sessions.OpenSession()
	users, err := store.NewUserStore[K](ctx, session, s.options...)
	if err != nil {
		session.Close(ctx)
		return nil, pkgerrors.Wrap(err, "unable to create the user store")
	}
	roles, err := store.NewRoleStore[K](session, s.options...)
	if err != nil {
		session.Close(ctx)
		return nil, pkgerrors.Wrap(err, "unable to create the role store")
	}
	return &Scope[K]{Session: session, Users: users, Roles: roles}, nil
}

// SaveChanges writes everything tracked by the scope's session, whatever the
// stores' AutoSaveChanges setting.
func (sc *Scope[K]) SaveChanges(ctx context.Context) error {
	return sc.Session.SaveChanges(ctx)
}

func (sc *Scope[K]) Close(ctx context.Context) error {
	if err := sc.Users.Close(ctx); err != nil {
		return err
	}
	return sc.Roles.Close(ctx)
}

// Dispatch runs the callback matching kind.
func Dispatch(kind common.KeyKind, onString, onInt, onLong func() error) error {
	switch kind {
	case common.StringKey:
		return onString()
	case common.IntKey:
		return onInt()
	case common.LongKey:
		return onLong()
	default:
		return pkgerrors.Wrapf(common.ErrUnsupportedKeyType, "key kind %d", int(kind))
	}
}

// Runtime holds the process wide dependencies built from a Config.
type Runtime struct {
	Config    *Config
	Documents *docstore.DocumentStore
	Notifier  events.Notifier
	Logger    *log.Entry
}

// Open connects to the database and the event broker and installs the
// indexes when configured to.
func Open(ctx context.Context, cfg *Config, logger *log.Entry) (*Runtime, error) {
	documents, err := docstore.Open(ctx, &cfg.Config, logger)
	if err != nil {
		return nil, err
	}

	var notifier events.Notifier = events.NoopNotifier{}
	if cfg.Events != nil && cfg.Events.Enabled() {
		kafka, err := events.NewKafkaNotifier(cfg.Events)
		if err != nil {
			documents.Close(ctx)
			return nil, err
		}
		notifier = kafka
		logger.WithField("topic", cfg.Events.GetPrefixedTopic()).Info("sending events to kafka")
	} else {
		logger.Info("no kafka brokers configured, events are disabled")
	}

	if cfg.EnsureIndexes {
		if err := store.InstallIndexes(ctx, documents); err != nil {
			logger.WithError(err).Error("unable to install the indexes")
		}
	}
	return &Runtime{Config: cfg, Documents: documents, Notifier: notifier, Logger: logger}, nil
}

// StoreOptions are the store options every scope is built with. With
// EnsureIndexes set the first user store retries an index installation that
// failed at startup.
func (r *Runtime) StoreOptions() []store.Option {
	return storeOptions(r.Config, r.Notifier, r.Documents)
}

func storeOptions(cfg *Config, notifier events.Notifier, installer store.IndexInstaller) []store.Option {
	opts := []store.Option{
		store.WithAutoSaveChanges(cfg.AutoSaveChanges),
		store.WithNotifier(notifier),
	}
	if cfg.EnsureIndexes {
		opts = append(opts, store.WithIndexes(installer))
	}
	return opts
}

func (r *Runtime) Close(ctx context.Context) error {
	if closer, ok := r.Notifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			r.Logger.WithError(err).Warn("unable to close the notifier")
		}
	}
	return r.Documents.Close(ctx)
}
