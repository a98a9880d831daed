package docstore

import "context"

// Document is anything a Session can track. The key is stored as the MongoDB
// _id.
type Document interface {
	GetDocumentKey() string
	SetDocumentKey(key string)
}

// ConcurrencyStamped documents are written with optimistic concurrency: an
// update or delete only applies when the stored stamp still matches the one
// the session last saw.
type ConcurrencyStamped interface {
	GetConcurrencyStamp() string
	SetConcurrencyStamp(stamp string)
}

// Cursor is satisfied by *mongo.Cursor.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}
