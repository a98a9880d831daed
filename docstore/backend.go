package docstore

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "identity_counters"

// Backend is the raw collection access a Session flushes its unit of work
// to.
type Backend interface {
	FindOne(ctx context.Context, collection, key string, doc interface{}) error
	Find(ctx context.Context, collection string, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	Count(ctx context.Context, collection string, filter interface{}) (int64, error)
	Insert(ctx context.Context, collection string, doc interface{}) error
	Replace(ctx context.Context, collection string, filter interface{}, doc interface{}) (int64, error)
	Delete(ctx context.Context, collection string, filter interface{}) (int64, error)
	NextIdentity(ctx context.Context, collection string) (int64, error)
	// WithTransaction runs fn atomically when Transactional reports true,
	// otherwise it simply calls fn.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Transactional() bool
}

type mongoBackend struct {
	db              *mongo.Database
	useTransactions bool
}

func NewMongoBackend(db *mongo.Database, useTransactions bool) Backend {
	return &mongoBackend{db: db, useTransactions: useTransactions}
}

func (b *mongoBackend) FindOne(ctx context.Context, collection, key string, doc interface{}) error {
	err := b.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(doc)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (b *mongoBackend) Find(ctx context.Context, collection string, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	cursor, err := b.db.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cursor, nil
}

func (b *mongoBackend) Count(ctx context.Context, collection string, filter interface{}) (int64, error) {
	return b.db.Collection(collection).CountDocuments(ctx, filter)
}

func (b *mongoBackend) Insert(ctx context.Context, collection string, doc interface{}) error {
	if _, err := b.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkgerrors.Wrap(ErrConflict, err.Error())
		}
		return err
	}
	return nil
}

func (b *mongoBackend) Replace(ctx context.Context, collection string, filter interface{}, doc interface{}) (int64, error) {
	result, err := b.db.Collection(collection).ReplaceOne(ctx, filter, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, pkgerrors.Wrap(ErrConflict, err.Error())
		}
		return 0, err
	}
	return result.MatchedCount, nil
}

func (b *mongoBackend) Delete(ctx context.Context, collection string, filter interface{}) (int64, error) {
	result, err := b.db.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// NextIdentity hands out increasing numeric identities per collection from a
// counters collection.
func (b *mongoBackend) NextIdentity(ctx context.Context, collection string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	result := b.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts)
	if err := result.Decode(&counter); err != nil {
		return 0, pkgerrors.Wrapf(err, "next identity for %s", collection)
	}
	return counter.Seq, nil
}

func (b *mongoBackend) Transactional() bool {
	return b.useTransactions
}

func (b *mongoBackend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.useTransactions {
		return fn(ctx)
	}

	session, err := b.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	opts := options.Transaction().SetMaxCommitTime(durationPtr(10 * time.Second))
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, opts)
	return err
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
