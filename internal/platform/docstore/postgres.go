package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/JhnDrwnl/appDevFinal/internal/apperrors"
)

// PGStore keeps every document as one jsonb row:
//
//	CREATE TABLE documents (
//	    collection text NOT NULL,
//	    id         text NOT NULL,
//	    data       jsonb NOT NULL,
//	    PRIMARY KEY (collection, id)
//	);
type PGStore struct {
	DB *sqlx.DB
}

func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{DB: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func marshalDoc(id string, doc interface{}) ([]byte, error) {
	m, err := toMap(doc)
	if err != nil {
		return nil, err
	}
	m["id"] = id
	return json.Marshal(m)
}

func (s *PGStore) Create(ctx context.Context, collection string, doc interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func setDoc(ctx context.Context, e execer, collection, id string, doc interface{}) error {
	raw, err := marshalDoc(id, doc)
	if err != nil {
		return apperrors.Backend(err, "set")
	}
	query := `
        INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
        ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
    `
	if _, err := e.ExecContext(ctx, query, collection, id, raw); err != nil {
		return apperrors.Backend(err, "set")
	}
	return nil
}

func (s *PGStore) Set(ctx context.Context, collection, id string, doc interface{}) error {
	return setDoc(ctx, s.DB, collection, id, doc)
}

func getDoc(ctx context.Context, e execer, collection, id string, out interface{}, forUpdate bool) error {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var raw []byte
	err := e.GetContext(ctx, &raw, query, collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound(collection + "/" + id)
		}
		return apperrors.Backend(err, "get")
	}
	return json.Unmarshal(raw, out)
}

func (s *PGStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	return getDoc(ctx, s.DB, collection, id, out, false)
}

func (s *PGStore) Query(ctx context.Context, collection string, filters []Filter, out interface{}) error {
	conditions := []string{"collection = $1"}
	args := []interface{}{collection}

	for _, f := range filters {
		val, err := json.Marshal(f.Value)
		if err != nil {
			return apperrors.Backend(err, "query")
		}
		n := len(args) + 1
		switch f.Op {
		case OpEqual:
			conditions = append(conditions, fmt.Sprintf("data -> '%s' = $%d::jsonb", f.Field, n))
		case OpArrayContains:
			conditions = append(conditions, fmt.Sprintf("data -> '%s' @> $%d::jsonb", f.Field, n))
		default:
			return apperrors.Validation("unsupported query operator " + string(f.Op))
		}
		args = append(args, string(val))
	}

	query := "SELECT data FROM documents WHERE " + strings.Join(conditions, " AND ") + " ORDER BY id ASC"

	var rows [][]byte
	if err := s.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return apperrors.Backend(err, "query")
	}

	docs := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		docs[i] = json.RawMessage(r)
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return apperrors.Backend(err, "query")
	}
	return json.Unmarshal(raw, out)
}

func updateDoc(ctx context.Context, e execer, collection, id string, patch Patch) error {
	sets := map[string]interface{}{}
	var removals []string
	for field, value := range patch {
		if _, del := value.(deleteFieldSentinel); del {
			removals = append(removals, field)
			continue
		}
		sets[field] = value
	}

	expr := "data"
	args := []interface{}{collection, id}
	if len(sets) > 0 {
		raw, err := json.Marshal(sets)
		if err != nil {
			return apperrors.Backend(err, "update")
		}
		args = append(args, string(raw))
		expr = fmt.Sprintf("data || $%d::jsonb", len(args))
	}
	for _, field := range removals {
		args = append(args, field)
		expr = fmt.Sprintf("(%s) - $%d::text", expr, len(args))
	}

	query := fmt.Sprintf(`UPDATE documents SET data = %s WHERE collection = $1 AND id = $2`, expr)
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Backend(err, "update")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound(collection + "/" + id)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	return updateDoc(ctx, s.DB, collection, id, patch)
}

func deleteDoc(ctx context.Context, e execer, collection, id string) error {
	if _, err := e.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return apperrors.Backend(err, "delete")
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, collection, id string) error {
	return deleteDoc(ctx, s.DB, collection, id)
}

func (s *PGStore) Batch(ctx context.Context, ops []WriteOp) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Backend(err, "batch begin")
	}
	defer tx.Rollback()

	for _, op := range ops {
		switch op.Kind {
		case WriteSet:
			err = setDoc(ctx, tx, op.Collection, op.ID, op.Doc)
		case WriteUpdate:
			err = updateDoc(ctx, tx, op.Collection, op.ID, op.Patch)
		case WriteDelete:
			err = deleteDoc(ctx, tx, op.Collection, op.ID)
		}
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Backend(err, "batch commit")
	}
	return nil
}

type pgTx struct {
	ctx context.Context
	tx  *sqlx.Tx
}

func (t *pgTx) Get(collection, id string, out interface{}) error {
	return getDoc(t.ctx, t.tx, collection, id, out, true)
}

func (t *pgTx) Set(collection, id string, doc interface{}) error {
	return setDoc(t.ctx, t.tx, collection, id, doc)
}

func (t *pgTx) Update(collection, id string, patch Patch) error {
	return updateDoc(t.ctx, t.tx, collection, id, patch)
}

func (t *pgTx) Delete(collection, id string) error {
	return deleteDoc(t.ctx, t.tx, collection, id)
}

func (s *PGStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Backend(err, "transaction begin")
	}
	defer tx.Rollback()

	if err := fn(&pgTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Backend(err, "transaction commit")
	}
	return nil
}
