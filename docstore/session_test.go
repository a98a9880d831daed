package docstore_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tidepool-org/identity/docstore"
	"github.com/tidepool-org/identity/docstore/docstoretest"
)

const widgets = "widgets"

type widget struct {
	Key   string `bson:"_id,omitempty"`
	Name  string `bson:"name"`
	Stamp string `bson:"concurrencystamp,omitempty"`
}

func (w *widget) GetDocumentKey() string           { return w.Key }
func (w *widget) SetDocumentKey(key string)        { w.Key = key }
func (w *widget) GetConcurrencyStamp() string      { return w.Stamp }
func (w *widget) SetConcurrencyStamp(stamp string) { w.Stamp = stamp }

type note struct {
	Key  string `bson:"_id,omitempty"`
	Text string `bson:"text"`
}

func (n *note) GetDocumentKey() string    { return n.Key }
func (n *note) SetDocumentKey(key string) { n.Key = key }

func newWidget() docstore.Document { return &widget{} }

func openSession(backend docstore.Backend) docstore.Session {
	return docstore.NewSession(backend, docstore.DefaultConventions())
}

func TestStoreAssignsKeyAndStamp(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	s := openSession(backend)

	w := &widget{Name: "first"}
	if err := s.Store(ctx, widgets, w); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if len(w.Key) <= len(widgets+"/") || w.Key[:len(widgets)+1] != widgets+"/" {
		t.Fatalf("expected a generated key under %s/, got %q", widgets, w.Key)
	}
	if w.Stamp == "" {
		t.Fatal("expected a concurrency stamp to be assigned")
	}
	if backend.Len(widgets) != 0 {
		t.Fatal("nothing should be written before SaveChanges")
	}

	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	if raw := backend.Raw(widgets, w.Key); raw == nil || raw["name"] != "first" {
		t.Fatalf("expected the widget to be stored, got %v", raw)
	}
}

func TestLoadReturnsTrackedInstance(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	seed := openSession(backend)
	if err := seed.Store(ctx, widgets, &widget{Key: "widgets/1", Name: "one"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := seed.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	s := openSession(backend)
	first, err := s.Load(ctx, widgets, "widgets/1", newWidget)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := s.Load(ctx, widgets, "widgets/1", newWidget)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if first != second {
		t.Fatal("expected the same instance for the same key")
	}

	found, err := s.Find(ctx, widgets, bson.M{"name": "one"}, newWidget)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(found) != 1 || found[0] != first {
		t.Fatalf("expected Find to return the tracked instance, got %v", found)
	}

	if _, err := s.Load(ctx, widgets, "widgets/2", newWidget); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveChangesWritesOnlyChangedDocuments(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	s := openSession(backend)
	w := &widget{Key: "widgets/1", Name: "one"}
	if err := s.Store(ctx, widgets, w); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	writes := backend.Writes

	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	if backend.Writes != writes {
		t.Fatalf("an unchanged session should not write, got %d writes", backend.Writes-writes)
	}

	stamp := w.Stamp
	w.Name = "renamed"
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	if backend.Writes != writes+1 {
		t.Fatalf("expected one write, got %d", backend.Writes-writes)
	}
	if w.Stamp == stamp {
		t.Fatal("expected the concurrency stamp to change on update")
	}
	if raw := backend.Raw(widgets, "widgets/1"); raw["name"] != "renamed" || raw["concurrencystamp"] != w.Stamp {
		t.Fatalf("unexpected stored document %v", raw)
	}
}

func TestSaveChangesDetectsConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	seed := openSession(backend)
	if err := seed.Store(ctx, widgets, &widget{Key: "widgets/1", Name: "one"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := seed.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	first, second := openSession(backend), openSession(backend)
	a, err := docstore.Load[widget](ctx, first, widgets, "widgets/1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	b, err := docstore.Load[widget](ctx, second, widgets, "widgets/1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	a.Name = "from a"
	if err := first.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	b.Name = "from b"
	previous := b.Stamp
	if err := second.SaveChanges(ctx); !errors.Is(err, docstore.ErrConcurrency) {
		t.Fatalf("expected ErrConcurrency, got %v", err)
	}
	if b.Stamp != previous {
		t.Fatal("a failed update should keep the previous stamp")
	}

	if err := second.Delete(widgets, b); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := second.SaveChanges(ctx); !errors.Is(err, docstore.ErrConcurrency) {
		t.Fatalf("expected ErrConcurrency on stale delete, got %v", err)
	}
	if backend.Raw(widgets, "widgets/1")["name"] != "from a" {
		t.Fatal("the first writer should have won")
	}
}

func TestSaveChangesReportsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	first := openSession(backend)
	if err := first.Store(ctx, widgets, &widget{Key: "widgets/1"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := first.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	second := openSession(backend)
	if err := second.Store(ctx, widgets, &widget{Key: "widgets/1"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := second.SaveChanges(ctx); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestStoreRejectsDifferentInstanceWithSameKey(t *testing.T) {
	ctx := context.Background()
	s := openSession(docstoretest.NewBackend())
	if err := s.Store(ctx, widgets, &widget{Key: "widgets/1"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.Store(ctx, widgets, &widget{Key: "widgets/1"}); !errors.Is(err, docstore.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteOfUnsavedDocumentIsForgotten(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	s := openSession(backend)
	n := &note{Text: "draft"}
	if err := s.Store(ctx, "notes", n); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.Delete("notes", n); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	if backend.Writes != 0 {
		t.Fatalf("expected no writes, got %d", backend.Writes)
	}
}

func TestDeleteRemovesStoredDocument(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	s := openSession(backend)
	n := &note{Key: "notes/1", Text: "keep"}
	if err := s.Store(ctx, "notes", n); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	if err := s.Delete("notes", n); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load(ctx, "notes", "notes/1", func() docstore.Document { return &note{} }); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("a deleted document should not load, got %v", err)
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	if backend.Len("notes") != 0 {
		t.Fatal("expected the note to be deleted")
	}
}

func TestNonTransactionalFlushKeepsEarlierWrites(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	s := openSession(backend)
	if err := s.Store(ctx, "notes", &note{Key: "notes/1"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	if err := s.Store(ctx, "notes", &note{Key: "notes/2"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	backend.FailNext = errors.New("boom")
	if err := s.SaveChanges(ctx); err == nil {
		t.Fatal("expected SaveChanges to fail")
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("retrying SaveChanges failed: %v", err)
	}
	if backend.Len("notes") != 2 {
		t.Fatalf("expected 2 notes, got %d", backend.Len("notes"))
	}
}

func TestClosedSession(t *testing.T) {
	ctx := context.Background()
	s := openSession(docstoretest.NewBackend())
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("a second Close should be a no-op: %v", err)
	}
	if err := s.Store(ctx, "notes", &note{}); !errors.Is(err, docstore.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if err := s.SaveChanges(ctx); !errors.Is(err, docstore.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := openSession(docstoretest.NewBackend())
	if _, err := s.Load(ctx, widgets, "widgets/1", newWidget); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNextIdentity(t *testing.T) {
	ctx := context.Background()
	s := openSession(docstoretest.NewBackend())
	for want := int64(1); want <= 3; want++ {
		got, err := s.NextIdentity(ctx, "users")
		if err != nil {
			t.Fatalf("NextIdentity failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
}

func TestTransactionalFlushRollsBackEarlierWrites(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	backend.Transactions = true
	seedWidgets(t, backend, "one", "two")

	s := openSession(backend)
	first, err := docstore.Load[widget](ctx, s, widgets, "widgets/one")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := docstore.Load[widget](ctx, s, widgets, "widgets/two")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	other := openSession(backend)
	concurrent, _ := docstore.Load[widget](ctx, other, widgets, "widgets/two")
	concurrent.Name = "elsewhere"
	if err := other.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	previous := first.Stamp
	first.Name = "one changed"
	second.Name = "two changed"
	if err := s.SaveChanges(ctx); !errors.Is(err, docstore.ErrConcurrency) {
		t.Fatalf("expected ErrConcurrency, got %v", err)
	}
	if first.Stamp != previous {
		t.Fatalf("the stamp of the rolled back write should be restored, got %q", first.Stamp)
	}
	if backend.Raw(widgets, "widgets/one")["name"] != "one" {
		t.Fatal("the first write should have been rolled back")
	}

	s.Evict(widgets, second)
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed after evicting the stale widget: %v", err)
	}
	if backend.Raw(widgets, "widgets/one")["name"] != "one changed" {
		t.Fatal("the pending change to the first widget should still be written")
	}
	if backend.Raw(widgets, "widgets/two")["name"] != "elsewhere" {
		t.Fatal("the concurrent update should have been kept")
	}
}

func TestEvictDropsQueuedChanges(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	seedWidgets(t, backend, "one")

	s := openSession(backend)
	w, _ := docstore.Load[widget](ctx, s, widgets, "widgets/one")
	if err := s.Delete(widgets, w); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	s.Evict(widgets, w)
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	if backend.Len(widgets) != 1 {
		t.Fatal("an evicted delete should not be written")
	}

	reloaded, err := docstore.Load[widget](ctx, s, widgets, "widgets/one")
	if err != nil || reloaded == nil || reloaded == w {
		t.Fatalf("expected a fresh instance after eviction, got %v, %v", reloaded, err)
	}
}

func TestStoreReplacesDeletedDocument(t *testing.T) {
	ctx := context.Background()
	backend := docstoretest.NewBackend()
	s := openSession(backend)
	if err := s.Store(ctx, "notes", &note{Key: "notes/1", Text: "first"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}

	stored, err := s.Load(ctx, "notes", "notes/1", func() docstore.Document { return &note{} })
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.Delete("notes", stored); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Store(ctx, "notes", &note{Key: "notes/1", Text: "second"}); err != nil {
		t.Fatalf("storing a new instance over a deleted one failed: %v", err)
	}
	if err := s.SaveChanges(ctx); err != nil {
		t.Fatalf("SaveChanges failed: %v", err)
	}
	if backend.Len("notes") != 1 || backend.Raw("notes", "notes/1")["text"] != "second" {
		t.Fatalf("expected the replacement note, got %v", backend.Raw("notes", "notes/1"))
	}
}
