// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/adaptable-records/db"
	"github.com/danielhkuo/adaptable-records/schema"
)

// ColumnSource supplies the column set in effect at call time.
type ColumnSource interface {
	ColumnSet() schema.ColumnSet
}

// holder is implemented by column sources whose columns change at runtime.
type holder interface {
	Hold() (release func())
}

// Store runs parametrized CRUD statements against one table. Nothing is
// cached between calls.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
	table   string
	cols    ColumnSource
}

func New(conn *sql.DB, dialect db.Dialect, table string, cols ColumnSource) *Store {
	return &Store{db: conn, dialect: dialect, table: schema.Sanitize(table), cols: cols}
}

// hold pins the column set for the duration of one statement.
func (s *Store) hold() func() {
	if h, ok := s.cols.(holder); ok {
		return h.Hold()
	}
	return func() {}
}

// Columns returns the column set the store currently reads and writes.
func (s *Store) Columns() schema.ColumnSet {
	return s.cols.ColumnSet()
}

// List returns every record ordered by id. A non-empty filter keeps only
// records where some column contains it, ignoring case.
func (s *Store) List(ctx context.Context, filter string) ([]Record, error) {
	defer s.hold()()

	cols := s.cols.ColumnSet()
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		s.selectList(cols), s.dialect.QuoteIdent(s.table), s.dialect.QuoteIdent(schema.IDColumn))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify("list records", err)
	}
	defer rows.Close()

	var m *matcher
	if filter != "" {
		m = newMatcher(filter)
	}

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, cols)
		if err != nil {
			return nil, classify("list records", err)
		}
		if m != nil && !m.match(rec) {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list records", err)
	}

	return records, nil
}

// Count returns the number of rows in the table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.dialect.QuoteIdent(s.table)).Scan(&n)
	if err != nil {
		return 0, classify("count records", err)
	}
	return n, nil
}

// Create inserts a row holding exactly the supplied fields and returns the
// id assigned by the engine.
func (s *Store) Create(ctx context.Context, fields map[string]string) (int64, error) {
	defer s.hold()()

	names, args, err := s.normalize(fields, "")
	if err != nil {
		return 0, fmt.Errorf("create record: %w", err)
	}

	table := s.dialect.QuoteIdent(s.table)
	returning := " RETURNING " + s.dialect.QuoteIdent(schema.IDColumn)

	var query string
	if len(names) == 0 {
		query = "INSERT INTO " + table + " DEFAULT VALUES" + returning
	} else {
		quoted := make([]string, len(names))
		marks := make([]string, len(names))
		for i, name := range names {
			quoted[i] = s.dialect.QuoteIdent(name)
			marks[i] = s.dialect.Placeholder(i + 1)
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)%s",
			table, strings.Join(quoted, ", "), strings.Join(marks, ", "), returning)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, classify("create record", err)
	}

	return id, nil
}

// Read fetches one record by id.
func (s *Store) Read(ctx context.Context, id int64) (Record, error) {
	defer s.hold()()

	cols := s.cols.ColumnSet()
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		s.selectList(cols), s.dialect.QuoteIdent(s.table),
		s.dialect.QuoteIdent(schema.IDColumn), s.dialect.Placeholder(1))

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id), cols)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("read record %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, classify(fmt.Sprintf("read record %d", id), err)
	}

	return rec, nil
}

// Update overwrites the supplied non-id fields of the record with id.
func (s *Store) Update(ctx context.Context, id int64, fields map[string]string) error {
	defer s.hold()()

	op := fmt.Sprintf("update record %d", id)

	names, args, err := s.normalize(fields, strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(names) == 0 {
		return fmt.Errorf("%s: %w: no fields to update", op, ErrInvalidField)
	}

	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = s.dialect.QuoteIdent(name) + " = " + s.dialect.Placeholder(i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		s.dialect.QuoteIdent(s.table), strings.Join(sets, ", "),
		s.dialect.QuoteIdent(schema.IDColumn), s.dialect.Placeholder(len(names)+1))

	res, err := s.db.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return classify(op, err)
	}

	return affected(op, res)
}

// Delete removes the record with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	op := fmt.Sprintf("delete record %d", id)

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		s.dialect.QuoteIdent(s.table), s.dialect.QuoteIdent(schema.IDColumn), s.dialect.Placeholder(1))

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return classify(op, err)
	}

	return affected(op, res)
}

func affected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// normalize sanitizes the keys of fields, checks them against the current
// column set and returns names and values in column order. An id key is
// accepted only when empty or equal to keepID.
func (s *Store) normalize(fields map[string]string, keepID string) ([]string, []any, error) {
	cols := s.cols.ColumnSet()
	byName := make(map[string]string, len(fields))
	rawKey := make(map[string]string, len(fields))

	for key, value := range fields {
		name := schema.Sanitize(key)
		if prev, ok := rawKey[name]; ok {
			return nil, nil, fmt.Errorf("%w: %q and %q both set column %s", ErrInvalidField, prev, key, name)
		}
		rawKey[name] = key

		if name == schema.IDColumn {
			if value != "" && value != keepID {
				return nil, nil, fmt.Errorf("%w: id is assigned by the store and cannot be changed", ErrInvalidField)
			}
			continue
		}
		if !cols.Has(name) {
			return nil, nil, fmt.Errorf("%w: unknown column %q", ErrInvalidField, key)
		}
		byName[name] = value
	}

	names := []string{}
	args := []any{}
	for _, c := range cols.Fields() {
		if v, ok := byName[c.Name]; ok {
			names = append(names, c.Name)
			args = append(args, v)
		}
	}

	return names, args, nil
}

func (s *Store) selectList(cols schema.ColumnSet) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = s.dialect.QuoteIdent(c.Name)
	}
	return strings.Join(quoted, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner, cols schema.ColumnSet) (Record, error) {
	var id int64
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i, c := range cols {
		if c.Type == schema.TypeID {
			dest[i] = &id
		} else {
			dest[i] = &values[i]
		}
	}

	if err := row.Scan(dest...); err != nil {
		return Record{}, err
	}

	rec := Record{ID: id, Fields: make(map[string]string, len(cols)-1)}
	for i, c := range cols {
		if c.Type != schema.TypeID {
			rec.Fields[c.Name] = values[i].String
		}
	}
	return rec, nil
}
