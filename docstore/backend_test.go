package docstore

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type account struct {
	Key  string `bson:"_id,omitempty"`
	Name string `bson:"name"`
}

func (a *account) GetDocumentKey() string    { return a.Key }
func (a *account) SetDocumentKey(key string) { a.Key = key }

func TestMongoBackend(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("FindOne decodes the document", func(mt *mtest.T) {
		backend := NewMongoBackend(mt.DB, false)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "identity.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "users/1"},
			{Key: "name", Value: "jane"},
		}))

		a := &account{}
		if err := backend.FindOne(ctx, "users", "users/1", a); err != nil {
			mt.Fatalf("FindOne failed: %v", err)
		}
		if a.Key != "users/1" || a.Name != "jane" {
			mt.Fatalf("unexpected document %+v", a)
		}
	})

	mt.Run("FindOne maps no documents to ErrNotFound", func(mt *mtest.T) {
		backend := NewMongoBackend(mt.DB, false)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "identity.users", mtest.FirstBatch))

		if err := backend.FindOne(ctx, "users", "users/2", &account{}); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("Insert maps duplicate keys to ErrConflict", func(mt *mtest.T) {
		backend := NewMongoBackend(mt.DB, false)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		if err := backend.Insert(ctx, "users", &account{Key: "users/1"}); !errors.Is(err, ErrConflict) {
			mt.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	mt.Run("Replace reports the matched count", func(mt *mtest.T) {
		backend := NewMongoBackend(mt.DB, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(0)},
			bson.E{Key: "nModified", Value: int32(0)},
		))

		matched, err := backend.Replace(ctx, "users", bson.M{"_id": "users/1", "concurrencystamp": "old"}, &account{Key: "users/1"})
		if err != nil {
			mt.Fatalf("Replace failed: %v", err)
		}
		if matched != 0 {
			mt.Fatalf("expected no match, got %d", matched)
		}
	})

	mt.Run("Delete reports the deleted count", func(mt *mtest.T) {
		backend := NewMongoBackend(mt.DB, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		deleted, err := backend.Delete(ctx, "users", bson.M{"_id": "users/1"})
		if err != nil {
			mt.Fatalf("Delete failed: %v", err)
		}
		if deleted != 1 {
			mt.Fatalf("expected 1 deleted document, got %d", deleted)
		}
	})

	mt.Run("NextIdentity returns the incremented counter", func(mt *mtest.T) {
		backend := NewMongoBackend(mt.DB, false)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "users"},
			{Key: "seq", Value: int64(7)},
		}}))

		id, err := backend.NextIdentity(ctx, "users")
		if err != nil {
			mt.Fatalf("NextIdentity failed: %v", err)
		}
		if id != 7 {
			mt.Fatalf("expected 7, got %d", id)
		}
	})

	mt.Run("WithTransaction calls through when disabled", func(mt *mtest.T) {
		backend := NewMongoBackend(mt.DB, false)
		called := false
		err := backend.WithTransaction(ctx, func(ctx context.Context) error {
			called = true
			return nil
		})
		if err != nil || !called {
			mt.Fatalf("expected the function to run, called=%v err=%v", called, err)
		}
		if backend.Transactional() {
			mt.Fatal("expected a non transactional backend")
		}
	})
}

func TestIndexDefinitionModels(t *testing.T) {
	single := IndexDefinition{Name: "IdentityUser_GetByEmail", Collection: "users", Fields: []string{"email", "normalizedemail"}}
	models := single.Models()
	if len(models) != 2 {
		t.Fatalf("expected one index per field, got %d", len(models))
	}
	if name := *models[1].Options.Name; name != "IdentityUser_GetByEmail_normalizedemail" {
		t.Fatalf("unexpected index name %s", name)
	}

	unique := IndexDefinition{Name: "IdentityUserLogin_ByProvider", Collection: "userlogins", Fields: []string{"loginprovider", "providerkey"}, Unique: true}
	models = unique.Models()
	if len(models) != 1 {
		t.Fatalf("expected a single compound index, got %d", len(models))
	}
	if keys := models[0].Keys.(bson.D); len(keys) != 2 || !*models[0].Options.Unique {
		t.Fatalf("unexpected compound index %+v", models[0])
	}
}

func TestConventions(t *testing.T) {
	if key := DefaultConventions().FindFullDocumentKey("users", "42"); key != "users/42" {
		t.Fatalf("expected users/42, got %s", key)
	}
	if key := (Conventions{IdentityPartsSeparator: "-"}).FindFullDocumentKey("roles", "7"); key != "roles-7" {
		t.Fatalf("expected roles-7, got %s", key)
	}
	if sep := (Conventions{}).Separator(); sep != "/" {
		t.Fatalf("a blank separator should fall back to /, got %q", sep)
	}
}
