package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentPtr is the pointer type of a document struct T.
type DocumentPtr[T any] interface {
	*T
	Document
}

func factory[T any, PT DocumentPtr[T]]() func() Document {
	return func() Document { return PT(new(T)) }
}

// Load returns nil, nil when the key does not exist.
func Load[T any, PT DocumentPtr[T]](ctx context.Context, s Session, collection, key string) (PT, error) {
	doc, err := s.Load(ctx, collection, key, factory[T, PT]())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.(PT), nil
}

// LoadMany loads the documents with the given keys, skipping missing ones.
// The result follows the order of keys.
func LoadMany[T any, PT DocumentPtr[T]](ctx context.Context, s Session, collection string, keys []string) ([]PT, error) {
	results := make([]PT, 0, len(keys))
	for _, key := range keys {
		doc, err := Load[T, PT](ctx, s, collection, key)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			results = append(results, doc)
		}
	}
	return results, nil
}

func Query[T any, PT DocumentPtr[T]](ctx context.Context, s Session, collection string, filter interface{}, opts ...*options.FindOptions) ([]PT, error) {
	docs, err := s.Find(ctx, collection, filter, factory[T, PT](), opts...)
	if err != nil {
		return nil, err
	}
	results := make([]PT, 0, len(docs))
	for _, doc := range docs {
		results = append(results, doc.(PT))
	}
	return results, nil
}

// SingleOrDefault returns nil when nothing matches and ErrMultipleResults when
// more than one document does.
func SingleOrDefault[T any, PT DocumentPtr[T]](ctx context.Context, s Session, collection string, filter interface{}) (PT, error) {
	results, err := Query[T, PT](ctx, s, collection, filter, options.Find().SetLimit(2))
	if err != nil {
		return nil, err
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return nil, ErrMultipleResults
	}
}

func FirstOrDefault[T any, PT DocumentPtr[T]](ctx context.Context, s Session, collection string, filter interface{}) (PT, error) {
	results, err := Query[T, PT](ctx, s, collection, filter, options.Find().SetLimit(1))
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[0], nil
}

func Any(ctx context.Context, s Session, collection string, filter interface{}) (bool, error) {
	n, err := s.Count(ctx, collection, filter)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
