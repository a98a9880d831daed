package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/common/logging"
	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/events"
	"github.com/tidepool-org/identity/identity"
)

const (
	UsersCollection      = "users"
	RolesCollection      = "roles"
	UserClaimsCollection = "userclaims"
	RoleClaimsCollection = "roleclaims"
	UserLoginsCollection = "userlogins"
	UserRolesCollection  = "userroles"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrNoSession    = errors.New("no session available")
)

type settings struct {
	describer       identity.ErrorDescriber
	logger          *log.Entry
	autoSaveChanges bool
	notifier        events.Notifier
	installer       IndexInstaller
}

type Option func(*settings)

func applyOptions(opts []Option) *settings {
	s := &settings{
		describer:       identity.DefaultErrorDescriber,
		logger:          logging.Null(),
		autoSaveChanges: true,
		notifier:        events.NoopNotifier{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func WithErrorDescriber(describer identity.ErrorDescriber) Option {
	return func(s *settings) {
		if describer != nil {
			s.describer = describer
		}
	}
}

func WithLogger(logger *log.Entry) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithAutoSaveChanges(enabled bool) Option {
	return func(s *settings) { s.autoSaveChanges = enabled }
}

// WithIndexes makes the user store constructor install the indexes through
// installer, once per installer.
func WithIndexes(installer IndexInstaller) Option {
	return func(s *settings) { s.installer = installer }
}

func WithNotifier(notifier events.Notifier) Option {
	return func(s *settings) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// GenericStore holds what the user and role stores share: the session, which
// may be resolved lazily on first use, the auto save switch and key
// conversions.
type GenericStore[K common.Key] struct {
	name       string
	session    docstore.Session
	getSession func() docstore.Session

	autoSaveChanges bool
	describer       identity.ErrorDescriber
	logger          *log.Entry
	notifier        events.Notifier
	disposed        bool
}

func newGenericStore[K common.Key](name string, session docstore.Session, getSession func() docstore.Session, s *settings) *GenericStore[K] {
	g := &GenericStore[K]{
		name:            name,
		session:         session,
		getSession:      getSession,
		autoSaveChanges: s.autoSaveChanges,
		describer:       s.describer,
		logger:          s.logger.WithField("store", name),
		notifier:        s.notifier,
	}
	g.logger.WithField("keyType", common.KindOf[K]()).Debug("store created")
	return g
}

func (g *GenericStore[K]) AutoSaveChanges() bool {
	return g.autoSaveChanges
}

// SetAutoSaveChanges controls whether Create, Update and Delete flush the
// session. When off, the caller saves the session itself.
func (g *GenericStore[K]) SetAutoSaveChanges(enabled bool) {
	g.logger.Debugf("%s.AutoSaveChanges is set to %v", g.name, enabled)
	g.autoSaveChanges = enabled
}

func (g *GenericStore[K]) ErrorDescriber() identity.ErrorDescriber {
	return g.describer
}

func (g *GenericStore[K]) Logger() *log.Entry {
	return g.logger
}

// Session returns the store's session, resolving a lazy one on first use.
func (g *GenericStore[K]) Session() (docstore.Session, error) {
	if g.disposed {
		return nil, common.ErrDisposed
	}
	if g.session == nil && g.getSession != nil {
		g.session = g.getSession()
	}
	if g.session == nil {
		return nil, ErrNoSession
	}
	return g.session, nil
}

// begin is called first by every operation.
func (g *GenericStore[K]) begin(ctx context.Context) (docstore.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.Session()
}

// check fails on a cancelled context or a closed store, for operations that
// only touch the entity in memory.
func (g *GenericStore[K]) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.disposed {
		return common.ErrDisposed
	}
	return nil
}

func (g *GenericStore[K]) ConvertIDFromString(id string) (K, error) {
	return common.ConvertIDFromString[K](id)
}

func (g *GenericStore[K]) ConvertIDToString(id K) string {
	return common.ConvertIDToString(id)
}

func (g *GenericStore[K]) conventions() docstore.Conventions {
	if g.session != nil {
		return g.session.Conventions()
	}
	return docstore.DefaultConventions()
}

// CreateID builds the full document key of a numeric id, e.g. "users/42".
func (g *GenericStore[K]) CreateID(id K, collection string) (string, error) {
	if !common.IsNumeric[K]() {
		return "", pkgerrors.Wrap(common.ErrUnsupportedKeyType, "only 'int' and 'long' keys have a full document key")
	}
	return g.conventions().FindFullDocumentKey(collection, common.ConvertIDToString(id)), nil
}

func (g *GenericStore[K]) CreateIDFromString(id, collection string) (string, error) {
	k, err := g.ConvertIDFromString(id)
	if err != nil {
		return "", err
	}
	return g.CreateID(k, collection)
}

// documentKeyFor maps an entity id onto the key it is stored under.
func (g *GenericStore[K]) documentKeyFor(id K, collection string) string {
	if common.IsNumeric[K]() {
		return g.conventions().FindFullDocumentKey(collection, common.ConvertIDToString(id))
	}
	return common.ConvertIDToString(id)
}

// lookupKey is documentKeyFor for ids that arrive as strings.
func (g *GenericStore[K]) lookupKey(id, collection string) (string, error) {
	if common.IsNumeric[K]() {
		return g.CreateIDFromString(id, collection)
	}
	return id, nil
}

// newID hands out the id of a new entity: numeric keys come from the
// database's identity counter, string keys are random UUIDs.
func (g *GenericStore[K]) newID(ctx context.Context, session docstore.Session, collection string) (K, error) {
	if common.IsNumeric[K]() {
		n, err := session.NextIdentity(ctx, collection)
		if err != nil {
			var zero K
			return zero, pkgerrors.Wrapf(err, "unable to generate an id for %s", collection)
		}
		return common.KeyFromInt64[K](n)
	}
	return common.ConvertIDFromString[K](uuid.NewString())
}

// SaveChanges flushes the session when AutoSaveChanges is on.
func (g *GenericStore[K]) SaveChanges(ctx context.Context) error {
	session, err := g.begin(ctx)
	if err != nil {
		return err
	}
	if !g.autoSaveChanges {
		return nil
	}
	return session.SaveChanges(ctx)
}

// saveResult saves and translates the database's failures into results.
func (g *GenericStore[K]) saveResult(ctx context.Context, operation string, conflict identity.Error) (identity.Result, error) {
	err := g.SaveChanges(ctx)
	switch {
	case err == nil:
		countOperation(g.name, operation, outcomeSuccess)
		return identity.Success, nil
	case errors.Is(err, docstore.ErrConcurrency):
		countOperation(g.name, operation, outcomeConcurrency)
		g.logger.WithError(err).Infof("%s failed", operation)
		return identity.Failed(g.describer.ConcurrencyFailure()), nil
	case errors.Is(err, docstore.ErrConflict) && conflict.Code != "":
		countOperation(g.name, operation, outcomeConflict)
		g.logger.WithError(err).Infof("%s failed", operation)
		return identity.Failed(conflict), nil
	default:
		countOperation(g.name, operation, outcomeError)
		g.logger.WithError(err).Errorf("%s failed", operation)
		return identity.Result{}, err
	}
}

// checkArg is check followed by a nil guard on v.
func (g *GenericStore[K]) checkArg(ctx context.Context, v any, name, op string) error {
	if err := g.check(ctx); err != nil {
		return err
	}
	return common.CheckNotNil(v, name, op)
}

// assignID gives a new entity its id, unless it already has one, and the
// matching document key.
func (g *GenericStore[K]) assignID(ctx context.Context, session docstore.Session, collection string, id *K, doc docstore.Document) error {
	if common.IsZeroKey(*id) {
		next, err := g.newID(ctx, session, collection)
		if err != nil {
			return err
		}
		*id = next
	}
	if doc.GetDocumentKey() == "" {
		doc.SetDocumentKey(g.documentKeyFor(*id, collection))
	}
	return nil
}

// notify sends a change event once the change is persisted. Failures are
// counted and logged, never returned.
func (g *GenericStore[K]) notify(ctx context.Context, eventType string, send func(context.Context) error) {
	if !g.autoSaveChanges {
		return
	}
	if err := send(ctx); err != nil {
		failedEvents.WithLabelValues(eventType).Inc()
		g.logger.WithError(err).WithField("event", eventType).Warn("unable to send event")
	}
}

// Close releases the session if the store opened or was given one. Every
// later call fails with common.ErrDisposed.
func (g *GenericStore[K]) Close(ctx context.Context) error {
	if g.disposed {
		return nil
	}
	g.disposed = true
	g.logger.Debug("store closed")
	if g.session == nil {
		return nil
	}
	return g.session.Close(ctx)
}
