package docstore

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DocumentStore is the long lived handle on the database. Open one per
// process and a Session per unit of work.
type DocumentStore struct {
	client      *mongo.Client
	db          *mongo.Database
	backend     Backend
	conventions Conventions
	timeout     time.Duration
	logger      *log.Entry
}

// Open connects to MongoDB using cfg.
func Open(ctx context.Context, cfg *Config, logger *log.Entry) (*DocumentStore, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "unable to connect to mongo")
	}

	ds := NewDocumentStore(client.Database(cfg.Database), cfg.Conventions(), cfg.UseTransactions)
	ds.client = client
	ds.timeout = cfg.Timeout
	if logger != nil {
		ds.logger = logger
	}
	ds.logger.WithField("database", cfg.Database).Info("document store opened")
	return ds, nil
}

// NewDocumentStore wraps an existing database handle.
func NewDocumentStore(db *mongo.Database, conventions Conventions, useTransactions bool) *DocumentStore {
	return &DocumentStore{
		db:          db,
		backend:     NewMongoBackend(db, useTransactions),
		conventions: conventions,
		timeout:     10 * time.Second,
		logger:      log.NewEntry(log.StandardLogger()),
	}
}

func (d *DocumentStore) Conventions() Conventions {
	return d.conventions
}

func (d *DocumentStore) OpenSession() Session {
	return NewSession(d.backend, d.conventions)
}

func (d *DocumentStore) Ping(ctx context.Context) error {
	return d.db.Client().Ping(ctx, readpref.Primary())
}

func (d *DocumentStore) Close(ctx context.Context) error {
	d.logger.Info("closing the document store")
	if d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the given index definitions, one MongoDB index per
// indexed field.
func (d *DocumentStore) EnsureIndexes(ctx context.Context, defs ...IndexDefinition) error {
	byCollection := map[string][]mongo.IndexModel{}
	for _, def := range defs {
		byCollection[def.Collection] = append(byCollection[def.Collection], def.Models()...)
	}

	opts := options.CreateIndexes().SetMaxTime(d.timeout)
	for collection, models := range byCollection {
		if _, err := d.db.Collection(collection).Indexes().CreateMany(ctx, models, opts); err != nil {
			d.logger.WithError(err).WithField("collection", collection).Error("EnsureIndexes failed")
			return pkgerrors.Wrapf(err, "ensure indexes on %s", collection)
		}
	}
	return nil
}

// IndexDefinition declares a static secondary index. Each field gets its own
// single field index named "<Name>_<field>", except for unique definitions
// over several fields which become one compound index.
type IndexDefinition struct {
	Name       string
	Collection string
	Fields     []string
	Unique     bool
	Sparse     bool
}

func (i IndexDefinition) Models() []mongo.IndexModel {
	if i.Unique && len(i.Fields) > 1 {
		keys := bson.D{}
		for _, f := range i.Fields {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		return []mongo.IndexModel{{
			Keys: keys,
			Options: options.Index().
				SetName(i.Name).
				SetUnique(true).
				SetSparse(i.Sparse).
				SetBackground(true),
		}}
	}

	models := make([]mongo.IndexModel, 0, len(i.Fields))
	for _, f := range i.Fields {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: f, Value: 1}},
			Options: options.Index().
				SetName(i.Name + "_" + f).
				SetUnique(i.Unique).
				SetSparse(i.Sparse).
				SetBackground(true),
		})
	}
	return models
}
