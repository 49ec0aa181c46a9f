package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]interface{} // collection -> id -> document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]map[string]interface{}{}}
}

func toMap(doc interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document")
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "document is not an object")
	}
	return m, nil
}

func fromMap(m map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *MemoryStore) collection(name string) map[string]map[string]interface{} {
	col, ok := s.data[name]
	if !ok {
		col = map[string]map[string]interface{}{}
		s.data[name] = col
	}
	return col
}

func (s *MemoryStore) Create(ctx context.Context, collection string, doc interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc interface{}) error {
	m, err := toMap(doc)
	if err != nil {
		return apperrors.Backend(err, "set")
	}
	m["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = m
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.collection(collection)[id]
	if !ok {
		return apperrors.NotFound(collection + "/" + id)
	}
	return fromMap(m, out)
}

func matches(doc map[string]interface{}, f Filter) bool {
	val, ok := doc[f.Field]
	if !ok {
		return false
	}
	want, err := toJSONValue(f.Value)
	if err != nil {
		return false
	}
	switch f.Op {
	case OpEqual:
		return equalJSON(val, want)
	case OpArrayContains:
		arr, ok := val.([]interface{})
		if !ok {
			return false
		}
		for _, el := range arr {
			if equalJSON(el, want) {
				return true
			}
		}
	}
	return false
}

func toJSONValue(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func equalJSON(a, b interface{}) bool {
	ra, err := json.Marshal(a)
	if err != nil {
		return false
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ra) == string(rb)
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters []Filter, out interface{}) error {
	s.mu.RLock()
	col := s.collection(collection)
	var hits []map[string]interface{}
	for _, doc := range col {
		ok := true
		for _, f := range filters {
			if !matches(doc, f) {
				ok = false
				break
			}
		}
		if ok {
			hits = append(hits, doc)
		}
	}
	s.mu.RUnlock()

	// Map iteration is random; order by id so results are stable.
	sort.Slice(hits, func(i, j int) bool {
		a, _ := hits[i]["id"].(string)
		b, _ := hits[j]["id"].(string)
		return a < b
	})

	raw, err := json.Marshal(hits)
	if err != nil {
		return apperrors.Backend(err, "query")
	}
	return json.Unmarshal(raw, out)
}

func applyPatch(doc map[string]interface{}, patch Patch) error {
	for field, value := range patch {
		if _, del := value.(deleteFieldSentinel); del {
			delete(doc, field)
			continue
		}
		jv, err := toJSONValue(value)
		if err != nil {
			return err
		}
		doc[field] = jv
	}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(collection, id, patch)
}

func (s *MemoryStore) update(collection, id string, patch Patch) error {
	doc, ok := s.collection(collection)[id]
	if !ok {
		return apperrors.NotFound(collection + "/" + id)
	}
	if err := applyPatch(doc, patch); err != nil {
		return apperrors.Backend(err, "update")
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collection(collection), id)
	return nil
}

func (s *MemoryStore) Batch(ctx context.Context, ops []WriteOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage on copies so a failing op leaves nothing half-applied.
	staged := map[string]map[string]map[string]interface{}{}
	for name, col := range s.data {
		cp := make(map[string]map[string]interface{}, len(col))
		for id, doc := range col {
			m, err := toJSONValue(doc)
			if err != nil {
				return apperrors.Backend(err, "batch")
			}
			cp[id] = m.(map[string]interface{})
		}
		staged[name] = cp
	}

	get := func(collection string) map[string]map[string]interface{} {
		col, ok := staged[collection]
		if !ok {
			col = map[string]map[string]interface{}{}
			staged[collection] = col
		}
		return col
	}

	for _, op := range ops {
		switch op.Kind {
		case WriteSet:
			m, err := toMap(op.Doc)
			if err != nil {
				return apperrors.Backend(err, "batch set")
			}
			m["id"] = op.ID
			get(op.Collection)[op.ID] = m
		case WriteUpdate:
			doc, ok := get(op.Collection)[op.ID]
			if !ok {
				return apperrors.NotFound(op.Collection + "/" + op.ID)
			}
			if err := applyPatch(doc, op.Patch); err != nil {
				return apperrors.Backend(err, "batch update")
			}
		case WriteDelete:
			delete(get(op.Collection), op.ID)
		}
	}

	s.data = staged
	return nil
}

type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) Get(collection, id string, out interface{}) error {
	doc, ok := t.store.collection(collection)[id]
	if !ok {
		return apperrors.NotFound(collection + "/" + id)
	}
	return fromMap(doc, out)
}

func (t *memoryTx) Set(collection, id string, doc interface{}) error {
	m, err := toMap(doc)
	if err != nil {
		return apperrors.Backend(err, "tx set")
	}
	m["id"] = id
	t.store.collection(collection)[id] = m
	return nil
}

func (t *memoryTx) Update(collection, id string, patch Patch) error {
	return t.store.update(collection, id, patch)
}

func (t *memoryTx) Delete(collection, id string) error {
	delete(t.store.collection(collection), id)
	return nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot so a failing fn rolls back.
	snapshot, err := toJSONValue(s.data)
	if err != nil {
		return apperrors.Backend(err, "transaction snapshot")
	}

	if err := fn(&memoryTx{store: s}); err != nil {
		restored := map[string]map[string]map[string]interface{}{}
		raw, _ := json.Marshal(snapshot)
		_ = json.Unmarshal(raw, &restored)
		s.data = restored
		return err
	}
	return nil
}
