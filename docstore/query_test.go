package docstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/docstore/docstoretest"
)

func seedWidgets(t *testing.T, backend docstore.Backend, names ...string) {
	t.Helper()
	ctx := context.Background()
	s := openSession(backend)
	for _, name := range names {
		if err := s.Store(ctx, widgets, &widget{Key: widgets + "/" + name, Name: name}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	s := openSession(docstoretest.NewBackend())
	w, err := docstore.Load[widget](context.Background(), s, widgets, "widgets/none")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if w != nil {
		t.Fatalf("expected nil, got %+v", w)
	}
}

func TestLoadManySkipsMissingKeys(t *testing.T) {
	backend := docstoretest.NewBackend()
	seedWidgets(t, backend, "a", "b")

	s := openSession(backend)
	found, err := docstore.LoadMany[widget](context.Background(), s, widgets, []string{"widgets/b", "widgets/x", "widgets/a"})
	if err != nil {
		t.Fatalf("LoadMany failed: %v", err)
	}
	if len(found) != 2 || found[0].Name != "b" || found[1].Name != "a" {
		t.Fatalf("unexpected result %+v", found)
	}
}

func TestSingleOrDefault(t *testing.T) {
	backend := docstoretest.NewBackend()
	seedWidgets(t, backend, "a", "b")
	ctx := context.Background()
	s := openSession(backend)

	one, err := docstore.SingleOrDefault[widget](ctx, s, widgets, bson.M{"name": "a"})
	if err != nil || one == nil || one.Name != "a" {
		t.Fatalf("expected widget a, got %+v (%v)", one, err)
	}

	none, err := docstore.SingleOrDefault[widget](ctx, s, widgets, bson.M{"name": "z"})
	if err != nil || none != nil {
		t.Fatalf("expected nothing, got %+v (%v)", none, err)
	}

	if _, err := docstore.SingleOrDefault[widget](ctx, s, widgets, bson.M{}); !errors.Is(err, docstore.ErrMultipleResults) {
		t.Fatalf("expected ErrMultipleResults, got %v", err)
	}
}

func TestFirstOrDefaultAndAny(t *testing.T) {
	backend := docstoretest.NewBackend()
	seedWidgets(t, backend, "a", "b")
	ctx := context.Background()
	s := openSession(backend)

	first, err := docstore.FirstOrDefault[widget](ctx, s, widgets, bson.M{})
	if err != nil || first == nil || first.Name != "a" {
		t.Fatalf("expected widget a, got %+v (%v)", first, err)
	}

	found, err := docstore.Any(ctx, s, widgets, bson.M{"name": bson.M{"$in": bson.A{"b", "c"}}})
	if err != nil || !found {
		t.Fatalf("expected a match, got %v (%v)", found, err)
	}
	found, err = docstore.Any(ctx, s, widgets, bson.M{"name": "c"})
	if err != nil || found {
		t.Fatalf("expected no match, got %v (%v)", found, err)
	}
}

func TestQueryPropagatesSessionErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("boom")
	s := docstore.NewMockSession(ctrl)
	s.EXPECT().Find(gomock.Any(), widgets, gomock.Any(), gomock.Any()).Return(nil, boom)
	s.EXPECT().Count(gomock.Any(), widgets, gomock.Any()).Return(int64(0), boom)

	if _, err := docstore.Query[widget](context.Background(), s, widgets, bson.M{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := docstore.Any(context.Background(), s, widgets, bson.M{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
