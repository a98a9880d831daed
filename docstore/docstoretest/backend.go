// Package docstoretest provides an in-memory docstore.Backend for tests. It
// understands the subset of the MongoDB query language the stores use:
// equality, $in, $ne, $exists, $or, $and and regular expressions, plus skip,
// limit and sort options.
package docstoretest

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tidepool-org/identity/docstore"
)

type collection struct {
	docs  map[string][]byte
	order []string
}

type Backend struct {
	mu          sync.Mutex
	collections map[string]*collection
	counters    map[string]int64

	// FailNext, when set, is returned by the next write and then cleared.
	FailNext error
	// Writes counts successful inserts, replaces and deletes.
	Writes int
	// Transactions makes WithTransaction undo every write of a failed
	// callback.
	Transactions bool
}

var _ docstore.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	return &Backend{
		collections: map[string]*collection{},
		counters:    map[string]int64{},
	}
}

func (b *Backend) coll(name string) *collection {
	c, ok := b.collections[name]
	if !ok {
		c = &collection{docs: map[string][]byte{}}
		b.collections[name] = c
	}
	return c
}

func (b *Backend) failure() error {
	err := b.FailNext
	b.FailNext = nil
	return err
}

// Raw returns the stored document as a bson.M, or nil.
func (b *Backend) Raw(collection, key string) bson.M {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.coll(collection).docs[key]
	if !ok {
		return nil
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// Len returns the number of documents in a collection.
func (b *Backend) Len(collection string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.coll(collection).docs)
}

func (b *Backend) FindOne(ctx context.Context, collection, key string, doc interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.coll(collection).docs[key]
	if !ok {
		return docstore.ErrNotFound
	}
	return bson.Unmarshal(raw, doc)
}

func (b *Backend) Find(ctx context.Context, collection string, filter interface{}, opts ...*options.FindOptions) (docstore.Cursor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	matched, err := b.match(collection, filter)
	if err != nil {
		return nil, err
	}

	o := options.MergeFindOptions(opts...)
	if o.Sort != nil {
		sortDocs(matched, o.Sort)
	}
	if o.Skip != nil {
		if *o.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[*o.Skip:]
		}
	}
	if o.Limit != nil && *o.Limit > 0 && *o.Limit < int64(len(matched)) {
		matched = matched[:*o.Limit]
	}

	raws := make([][]byte, 0, len(matched))
	for _, m := range matched {
		raws = append(raws, m.raw)
	}
	return &Cursor{docs: raws, pos: -1}, nil
}

func (b *Backend) Count(ctx context.Context, collection string, filter interface{}) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	matched, err := b.match(collection, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (b *Backend) Insert(ctx context.Context, collection string, doc interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failure(); err != nil {
		return err
	}

	raw, key, err := encode(doc)
	if err != nil {
		return err
	}
	c := b.coll(collection)
	if _, exists := c.docs[key]; exists {
		return pkgerrors.Wrapf(docstore.ErrConflict, "E11000 duplicate key %s", key)
	}
	c.docs[key] = raw
	c.order = append(c.order, key)
	b.Writes++
	return nil
}

func (b *Backend) Replace(ctx context.Context, collection string, filter interface{}, doc interface{}) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failure(); err != nil {
		return 0, err
	}

	matched, err := b.match(collection, filter)
	if err != nil || len(matched) == 0 {
		return 0, err
	}
	raw, _, err := encode(doc)
	if err != nil {
		return 0, err
	}
	b.coll(collection).docs[matched[0].key] = raw
	b.Writes++
	return 1, nil
}

func (b *Backend) Delete(ctx context.Context, collection string, filter interface{}) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.failure(); err != nil {
		return 0, err
	}

	matched, err := b.match(collection, filter)
	if err != nil || len(matched) == 0 {
		return 0, err
	}
	c := b.coll(collection)
	key := matched[0].key
	delete(c.docs, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	b.Writes++
	return 1, nil
}

func (b *Backend) NextIdentity(ctx context.Context, collection string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counters[collection]++
	return b.counters[collection], nil
}

func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.Transactions {
		return fn(ctx)
	}

	b.mu.Lock()
	saved := make(map[string]*collection, len(b.collections))
	for name, c := range b.collections {
		docs := make(map[string][]byte, len(c.docs))
		for k, v := range c.docs {
			docs[k] = v
		}
		saved[name] = &collection{docs: docs, order: append([]string(nil), c.order...)}
	}
	writes := b.Writes
	b.mu.Unlock()

	if err := fn(ctx); err != nil {
		b.mu.Lock()
		b.collections = saved
		b.Writes = writes
		b.mu.Unlock()
		return err
	}
	return nil
}

func (b *Backend) Transactional() bool {
	return b.Transactions
}

type stored struct {
	key string
	raw []byte
	doc bson.M
}

func (b *Backend) match(collection string, filter interface{}) ([]stored, error) {
	f, err := toM(filter)
	if err != nil {
		return nil, err
	}
	c := b.coll(collection)
	var out []stored
	for _, key := range c.order {
		raw := c.docs[key]
		doc := bson.M{}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		ok, err := matches(doc, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, stored{key: key, raw: raw, doc: doc})
		}
	}
	return out, nil
}

func encode(doc interface{}) ([]byte, string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, "", err
	}
	id, err := bson.Raw(raw).LookupErr("_id")
	if err != nil {
		return nil, "", pkgerrors.Wrap(docstore.ErrMissingKey, "document has no _id")
	}
	key, ok := id.StringValueOK()
	if !ok {
		return nil, "", pkgerrors.Wrap(docstore.ErrMissingKey, "document _id is not a string")
	}
	return raw, key, nil
}

// toM normalises a filter by round tripping it through BSON, so filter and
// document values have the same Go types.
func toM(filter interface{}) (bson.M, error) {
	if filter == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid filter")
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func asM(v interface{}) (bson.M, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case bson.D:
		return t.Map(), true
	}
	return nil, false
}

func asA(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case bson.A:
		return t, true
	case []interface{}:
		return t, true
	}
	return nil, false
}

func matches(doc bson.M, filter bson.M) (bool, error) {
	for field, cond := range filter {
		var (
			ok  bool
			err error
		)
		switch field {
		case "$or", "$and":
			ok, err = logical(doc, field, cond)
		default:
			value, present := doc[field]
			ok, err = matchField(value, present, cond)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func logical(doc bson.M, op string, cond interface{}) (bool, error) {
	clauses, ok := asA(cond)
	if !ok {
		return false, fmt.Errorf("%s needs an array", op)
	}
	for _, clause := range clauses {
		m, ok := asM(clause)
		if !ok {
			return false, fmt.Errorf("%s clause is not a document", op)
		}
		hit, err := matches(doc, m)
		if err != nil {
			return false, err
		}
		if op == "$or" && hit {
			return true, nil
		}
		if op == "$and" && !hit {
			return false, nil
		}
	}
	return op == "$and", nil
}

func matchField(value interface{}, present bool, cond interface{}) (bool, error) {
	if m, ok := asM(cond); ok && isOperatorDoc(m) {
		for op, arg := range m {
			hit, err := operator(value, present, op, arg)
			if err != nil || !hit {
				return false, err
			}
		}
		return true, nil
	}
	if re, ok := cond.(primitive.Regex); ok {
		return regex(value, re)
	}
	return equal(value, present, cond), nil
}

func isOperatorDoc(m bson.M) bool {
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return len(m) > 0
}

func operator(value interface{}, present bool, op string, arg interface{}) (bool, error) {
	switch op {
	case "$eq":
		return equal(value, present, arg), nil
	case "$ne":
		return !equal(value, present, arg), nil
	case "$in":
		values, ok := asA(arg)
		if !ok {
			return false, fmt.Errorf("$in needs an array")
		}
		for _, v := range values {
			if equal(value, present, v) {
				return true, nil
			}
		}
		return false, nil
	case "$exists":
		want, _ := arg.(bool)
		return present == want, nil
	case "$regex":
		switch r := arg.(type) {
		case primitive.Regex:
			return regex(value, r)
		case string:
			return regex(value, primitive.Regex{Pattern: r})
		}
		return false, fmt.Errorf("$regex needs a pattern")
	}
	return false, fmt.Errorf("unsupported operator %s", op)
}

func regex(value interface{}, re primitive.Regex) (bool, error) {
	s, ok := value.(string)
	if !ok {
		return false, nil
	}
	pattern := re.Pattern
	if strings.Contains(re.Options, "i") {
		pattern = "(?i)" + pattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return compiled.MatchString(s), nil
}

// equal follows MongoDB semantics where null matches a missing field.
func equal(value interface{}, present bool, want interface{}) bool {
	if want == nil {
		return !present || value == nil
	}
	if !present {
		return false
	}
	if a, ok := number(value); ok {
		if b, ok := number(want); ok {
			return a == b
		}
		return false
	}
	return value == want
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sortDocs(docs []stored, spec interface{}) {
	keys, ok := spec.(bson.D)
	if !ok {
		if m, isM := spec.(bson.M); isM {
			for k, v := range m {
				keys = append(keys, bson.E{Key: k, Value: v})
			}
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compare(docs[i].doc[k.Key], docs[j].doc[k.Key])
			if c == 0 {
				continue
			}
			if dir, _ := number(k.Value); dir < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Cursor iterates over encoded documents.
type Cursor struct {
	docs [][]byte
	pos  int
}

func (c *Cursor) Next(ctx context.Context) bool {
	if c.pos+1 >= len(c.docs) {
		return false
	}
	c.pos++
	return true
}

func (c *Cursor) Decode(v interface{}) error {
	return bson.Unmarshal(c.docs[c.pos], v)
}

func (c *Cursor) Err() error {
	return nil
}

func (c *Cursor) Close(ctx context.Context) error {
	return nil
}
