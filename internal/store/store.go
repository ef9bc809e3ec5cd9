// Package store implements the generic, ownership-aware data access
// layer: a criteria algebra for building parameterized filters and five
// CRUD operations written once against the record capability contracts.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/waypost/waypost/internal/errs"
)

// Record is the persisted-record capability contract. It is implemented
// on the value receiver of each record type so the store can consult the
// descriptors of T through its zero value.
type Record[T any] interface {
	// Table returns the fixed table name.
	Table() string
	// Columns returns the full column list in its fixed order, used both
	// for SELECT-shape decoding and for RETURNING clauses.
	Columns() []string
	// IDColumn returns the primary id column.
	IDColumn() string
	// OwnerColumn returns the owning-user column. For self-owning kinds
	// it coincides with IDColumn.
	OwnerColumn() string
	// ScanRow decodes the current row of the cursor into a record.
	ScanRow(rows *sql.Rows) (T, error)
}

// Request is the write-shape capability contract: an optional-field
// projection of a record that knows which columns participate in the
// current call.
type Request interface {
	// PresentColumns returns the columns whose field is set, in the
	// record's fixed column order.
	PresentColumns() []string
	// Placeholders returns one `?` per present column, comma joined.
	Placeholders() string
	// Args returns the values of the present columns, in the same order.
	Args() []any
	// GetID returns the id field, or nil when absent.
	GetID() *int64
	// GetOwnerID returns the owner field, or nil when absent.
	// Self-owning kinds report their id here.
	GetOwnerID() *int64
}

// Store executes CRUD operations against a single sqlite handle. All
// operations serialize through one exclusive lock; the engine is never
// given more than one in-flight statement.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if needed) the database at path. A non-empty hex
// key enables sqlcipher encryption via the key pragma, the same way the
// database is opened in production deployments.
func Open(path, hexKey string) (*Store, error) {
	dsn := path
	if hexKey != "" {
		dsn = fmt.Sprintf("%s?_pragma_key=x'%s'", path, hexKey)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single writer; more connections only add lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts the present columns of req and returns the stored row.
func Create[T Record[T]](s *Store, req Request) (T, error) {
	var zero T
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		zero.Table(),
		strings.Join(req.PresentColumns(), ","),
		req.Placeholders(),
		strings.Join(zero.Columns(), ","),
	)
	recs, err := runQuery[T](s, query, req.Args()...)
	if err != nil {
		return zero, errs.Wrap(errs.NotCreated, "not created", err)
	}
	if len(recs) == 0 {
		return zero, errs.New(errs.NotCreated, "not created")
	}
	return recs[0], nil
}

// Update rewrites the present columns of the row matching req's id and
// owner and returns the stored row. Both id and owner must be present;
// for self-owning kinds the two filters collapse onto the id column.
func Update[T Record[T]](s *Store, req Request) (T, error) {
	var zero T
	id := req.GetID()
	if id == nil {
		return zero, errs.New(errs.NotCreated, "not created")
	}
	ownerID := req.GetOwnerID()
	if ownerID == nil {
		return zero, errs.New(errs.NotCreated, "not created")
	}
	assignments := make([]string, 0, len(req.PresentColumns()))
	for _, col := range req.PresentColumns() {
		assignments = append(assignments, col+" = ?")
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE (%s = ? and %s = ?) RETURNING %s",
		zero.Table(),
		strings.Join(assignments, ", "),
		zero.IDColumn(),
		zero.OwnerColumn(),
		strings.Join(zero.Columns(), ","),
	)
	args := append(req.Args(), *id, *ownerID)
	recs, err := runQuery[T](s, query, args...)
	if err != nil {
		return zero, errs.Wrap(errs.NotCreated, "not created", err)
	}
	if len(recs) == 0 {
		return zero, errs.New(errs.NotCreated, "not created")
	}
	return recs[0], nil
}

// Get returns the record with the given id, or a not-found error.
func Get[T Record[T]](s *Store, id int64) (T, error) {
	var zero T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE (%s = ?)",
		strings.Join(zero.Columns(), ","), zero.Table(), zero.IDColumn())
	recs, err := runQuery[T](s, query, id)
	if err != nil {
		return zero, errs.Wrap(errs.NotFound, "not found", err)
	}
	if len(recs) == 0 {
		return zero, errs.New(errs.NotFound, "not found")
	}
	return recs[0], nil
}

// GetQueries returns every record matching all criteria, combined with
// AND in list order. An empty criteria list selects the whole table.
// Row order is whatever the engine produces.
func GetQueries[T Record[T]](s *Store, criteria []Criteria) ([]T, error) {
	var zero T
	query := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(zero.Columns(), ","), zero.Table())
	var args []any
	if len(criteria) > 0 {
		clauses := make([]string, 0, len(criteria))
		for _, c := range criteria {
			fragment, vals := c.Build()
			clauses = append(clauses, fragment)
			args = append(args, vals...)
		}
		query += " WHERE " + strings.Join(clauses, " and ")
	}
	return runQuery[T](s, query, args...)
}

// Delete removes the record with the given id and returns it. The delete
// is owner-scoped only when the kind's owner column differs from its id
// column and an asserted owner is supplied; otherwise it filters by id
// alone. Zero matched rows is a not-found error.
func Delete[T Record[T]](s *Store, id int64, assertedOwnerID *int64) (T, error) {
	var zero T
	clause := fmt.Sprintf("(%s = ?)", zero.IDColumn())
	args := []any{id}
	if assertedOwnerID != nil && zero.OwnerColumn() != zero.IDColumn() {
		clause = fmt.Sprintf("(%s = ? and %s = ?)", zero.IDColumn(), zero.OwnerColumn())
		args = append(args, *assertedOwnerID)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s RETURNING %s",
		zero.Table(), clause, strings.Join(zero.Columns(), ","))
	recs, err := runQuery[T](s, query, args...)
	if err != nil {
		return zero, errs.Wrap(errs.NotFound, "not found", err)
	}
	if len(recs) == 0 {
		return zero, errs.New(errs.NotFound, "not found")
	}
	return recs[0], nil
}

func runQuery[T Record[T]](s *Store, query string, args ...any) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slog.Debug("store query", "sql", query)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()
	var out []T
	var zero T
	for rows.Next() {
		rec, err := zero.ScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
