package docstore

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=./session.go -destination=./session_mock.go -package docstore Session

// Session is a unit of work over the document database. Documents loaded,
// queried or stored through it are tracked; SaveChanges writes the new,
// changed and deleted ones. A Session is not safe for concurrent use.
type Session interface {
	Conventions() Conventions
	// Load returns ErrNotFound when no document has the key. A document that is
	// already tracked is returned as the same instance.
	Load(ctx context.Context, collection, key string, newDoc func() Document) (Document, error)
	Find(ctx context.Context, collection string, filter interface{}, newDoc func() Document, opts ...*options.FindOptions) ([]Document, error)
	Count(ctx context.Context, collection string, filter interface{}) (int64, error)
	// Store queues doc for insertion. Storing a document the session loaded or
	// saved fails with ErrConflict; a new instance replaces a deleted one.
	Store(ctx context.Context, collection string, doc Document) error
	Delete(collection string, doc Document) error
	// Evict stops tracking doc, dropping any change queued for it. The next
	// Load reads the stored document again.
	Evict(collection string, doc Document)
	SaveChanges(ctx context.Context) error
	NextIdentity(ctx context.Context, collection string) (int64, error)
	Close(ctx context.Context) error
}

type entryState int

const (
	stateLoaded entryState = iota
	stateAdded
	stateDeleted
)

type entry struct {
	collection string
	doc        Document
	snapshot   []byte
	stamp      string
	state      entryState
}

type trackingSession struct {
	backend     Backend
	conventions Conventions
	entries     map[string]*entry
	order       []string
	closed      bool
}

// NewSession opens a unit of work over backend.
func NewSession(backend Backend, conventions Conventions) Session {
	return &trackingSession{
		backend:     backend,
		conventions: conventions,
		entries:     map[string]*entry{},
	}
}

func entryKey(collection, key string) string {
	return collection + "\x00" + key
}

func (s *trackingSession) Conventions() Conventions {
	return s.conventions
}

func (s *trackingSession) Load(ctx context.Context, collection, key string, newDoc func() Document) (Document, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrMissingKey
	}

	if e, ok := s.entries[entryKey(collection, key)]; ok {
		if e.state == stateDeleted {
			return nil, ErrNotFound
		}
		return e.doc, nil
	}

	doc := newDoc()
	if err := s.backend.FindOne(ctx, collection, key, doc); err != nil {
		return nil, err
	}
	return s.track(collection, doc)
}

func (s *trackingSession) Find(ctx context.Context, collection string, filter interface{}, newDoc func() Document, opts ...*options.FindOptions) ([]Document, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	cursor, err := s.backend.Find(ctx, collection, filter, opts...)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "find in %s", collection)
	}
	defer cursor.Close(ctx)

	results := []Document{}
	for cursor.Next(ctx) {
		doc := newDoc()
		if err := cursor.Decode(doc); err != nil {
			return nil, pkgerrors.Wrapf(err, "decode from %s", collection)
		}
		if e, ok := s.entries[entryKey(collection, doc.GetDocumentKey())]; ok {
			if e.state != stateDeleted {
				results = append(results, e.doc)
			}
			continue
		}
		tracked, err := s.track(collection, doc)
		if err != nil {
			return nil, err
		}
		results = append(results, tracked)
	}
	if err := cursor.Err(); err != nil {
		return nil, pkgerrors.Wrapf(err, "find in %s", collection)
	}
	return results, nil
}

func (s *trackingSession) Count(ctx context.Context, collection string, filter interface{}) (int64, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	return s.backend.Count(ctx, collection, filter)
}

func (s *trackingSession) Store(ctx context.Context, collection string, doc Document) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if doc.GetDocumentKey() == "" {
		doc.SetDocumentKey(s.conventions.FindFullDocumentKey(collection, uuid.NewString()))
	}

	k := entryKey(collection, doc.GetDocumentKey())
	if e, ok := s.entries[k]; ok {
		if e.state == stateDeleted {
			// the pending delete becomes a replace of the stored document
			e.doc = doc
			e.state = stateLoaded
			return nil
		}
		if e.doc != doc {
			return pkgerrors.Wrapf(ErrConflict, "a different document with key %s is already tracked", doc.GetDocumentKey())
		}
		if e.state == stateLoaded {
			return pkgerrors.Wrapf(ErrConflict, "document %s is already stored", doc.GetDocumentKey())
		}
		return nil
	}

	stamp := ""
	if stamped, ok := doc.(ConcurrencyStamped); ok {
		if stamped.GetConcurrencyStamp() == "" {
			stamped.SetConcurrencyStamp(uuid.NewString())
		}
		stamp = stamped.GetConcurrencyStamp()
	}
	s.entries[k] = &entry{collection: collection, doc: doc, stamp: stamp, state: stateAdded}
	s.order = append(s.order, k)
	return nil
}

func (s *trackingSession) Delete(collection string, doc Document) error {
	if s.closed {
		return ErrSessionClosed
	}
	if doc.GetDocumentKey() == "" {
		return ErrMissingKey
	}

	k := entryKey(collection, doc.GetDocumentKey())
	if e, ok := s.entries[k]; ok {
		if e.state == stateAdded {
			s.forget(k)
			return nil
		}
		e.state = stateDeleted
		return nil
	}

	e := &entry{collection: collection, doc: doc, state: stateDeleted}
	if stamped, ok := doc.(ConcurrencyStamped); ok {
		e.stamp = stamped.GetConcurrencyStamp()
	}
	s.entries[k] = e
	s.order = append(s.order, k)
	return nil
}

func (s *trackingSession) Evict(collection string, doc Document) {
	if s.closed || doc.GetDocumentKey() == "" {
		return
	}
	k := entryKey(collection, doc.GetDocumentKey())
	if e, ok := s.entries[k]; ok && e.doc == doc {
		s.forget(k)
	}
}

type pendingWrite struct {
	commit   func()
	rollback func()
}

func (s *trackingSession) SaveChanges(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	var writes []pendingWrite
	err := s.backend.WithTransaction(ctx, func(ctx context.Context) error {
		writes = writes[:0]
		return s.flush(ctx, &writes)
	})

	if err != nil && s.backend.Transactional() {
		for _, w := range writes {
			w.rollback()
		}
		return err
	}
	// without a transaction the writes that went through are kept
	for _, w := range writes {
		w.commit()
	}
	return err
}

func (s *trackingSession) flush(ctx context.Context, writes *[]pendingWrite) error {
	for _, k := range append([]string(nil), s.order...) {
		e := s.entries[k]
		var (
			w   *pendingWrite
			err error
		)
		switch e.state {
		case stateAdded:
			w, err = s.insert(ctx, k, e)
		case stateLoaded:
			w, err = s.update(ctx, e)
		case stateDeleted:
			w, err = s.delete(ctx, k, e)
		}
		if err != nil {
			return err
		}
		if w != nil {
			*writes = append(*writes, *w)
		}
	}
	return nil
}

func (s *trackingSession) insert(ctx context.Context, k string, e *entry) (*pendingWrite, error) {
	if err := s.backend.Insert(ctx, e.collection, e.doc); err != nil {
		return nil, pkgerrors.Wrapf(err, "insert %s", e.doc.GetDocumentKey())
	}
	return &pendingWrite{
		commit: func() {
			e.state = stateLoaded
			e.snapshot, _ = bson.Marshal(e.doc)
		},
		rollback: func() {},
	}, nil
}

func (s *trackingSession) update(ctx context.Context, e *entry) (*pendingWrite, error) {
	current, err := bson.Marshal(e.doc)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "encode %s", e.doc.GetDocumentKey())
	}
	if bytes.Equal(current, e.snapshot) {
		return nil, nil
	}

	filter := bson.M{"_id": e.doc.GetDocumentKey()}
	stamped, isStamped := e.doc.(ConcurrencyStamped)
	previous := e.stamp
	if isStamped {
		filter["concurrencystamp"] = stampFilter(previous)
		stamped.SetConcurrencyStamp(uuid.NewString())
	}

	matched, err := s.backend.Replace(ctx, e.collection, filter, e.doc)
	if err == nil && matched == 0 {
		err = ErrConcurrency
	}
	if err != nil {
		if isStamped {
			stamped.SetConcurrencyStamp(previous)
		}
		return nil, pkgerrors.Wrapf(err, "update %s", e.doc.GetDocumentKey())
	}

	return &pendingWrite{
		commit: func() {
			if isStamped {
				e.stamp = stamped.GetConcurrencyStamp()
			}
			e.snapshot, _ = bson.Marshal(e.doc)
		},
		rollback: func() {
			if isStamped {
				stamped.SetConcurrencyStamp(previous)
			}
		},
	}, nil
}

func (s *trackingSession) delete(ctx context.Context, k string, e *entry) (*pendingWrite, error) {
	filter := bson.M{"_id": e.doc.GetDocumentKey()}
	_, isStamped := e.doc.(ConcurrencyStamped)
	if isStamped {
		filter["concurrencystamp"] = stampFilter(e.stamp)
	}

	deleted, err := s.backend.Delete(ctx, e.collection, filter)
	if err == nil && deleted == 0 && isStamped {
		err = ErrConcurrency
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "delete %s", e.doc.GetDocumentKey())
	}
	return &pendingWrite{
		commit:   func() { s.forget(k) },
		rollback: func() {},
	}, nil
}

// stampFilter matches a stored stamp, treating "" as "never stamped".
func stampFilter(stamp string) interface{} {
	if stamp == "" {
		return bson.M{"$in": bson.A{nil, ""}}
	}
	return stamp
}

func (s *trackingSession) NextIdentity(ctx context.Context, collection string) (int64, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}
	return s.backend.NextIdentity(ctx, collection)
}

// Close drops everything tracked; unsaved changes are discarded.
func (s *trackingSession) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.entries = nil
	s.order = nil
	return nil
}

func (s *trackingSession) track(collection string, doc Document) (Document, error) {
	snapshot, err := bson.Marshal(doc)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "encode %s", doc.GetDocumentKey())
	}
	e := &entry{collection: collection, doc: doc, snapshot: snapshot, state: stateLoaded}
	if stamped, ok := doc.(ConcurrencyStamped); ok {
		e.stamp = stamped.GetConcurrencyStamp()
	}
	k := entryKey(collection, doc.GetDocumentKey())
	s.entries[k] = e
	s.order = append(s.order, k)
	return doc, nil
}

func (s *trackingSession) forget(k string) {
	delete(s.entries, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *trackingSession) check(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if ctx != nil {
		return ctx.Err()
	}
	return nil
}
