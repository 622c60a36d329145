package recording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
)

// QueryParams selects and orders the rows of a query.
type QueryParams struct {
	// Where is the condition without the WHERE keyword, for example
	// "Cycle > ? AND Write = ?".
	Where string

	// Args fill the placeholders of Where.
	Args []any

	// Limit is the largest number of rows to return. 0 means no limit.
	Limit int

	// Offset is the number of rows to skip. It is only used with Limit.
	Offset int

	// OrderBy is the ordering without the ORDER BY keywords.
	OrderBy string
}

// A Reader reads the tables a Recorder has written.
type Reader interface {
	// MapTable tells which struct the rows of a table are decoded into.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables.
	ListTables() []string

	// Query returns the matching rows as pointers to the mapped struct and
	// the number of rows that match without the limit.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	Close() error
}

// SQLiteReader is a Reader for SQLite databases.
type SQLiteReader struct {
	*sql.DB

	typeMap map[string]reflect.Type
}

// NewReader opens a database file for reading.
func NewReader(filename string) (*SQLiteReader, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a reader on an open database.
func NewReaderWithDB(db *sql.DB) *SQLiteReader {
	return &SQLiteReader{
		DB:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

// MapTable registers the struct type of a table.
func (r *SQLiteReader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

// ListTables returns the mapped tables in name order.
func (r *SQLiteReader) ListTables() []string {
	tables := make([]string, 0, len(r.typeMap))
	for t := range r.typeMap {
		tables = append(tables, t)
	}

	sort.Strings(tables)

	return tables
}

// Query runs a SELECT on a mapped table.
func (r *SQLiteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("no mapping found for table: %s", tableName)
	}

	query := "SELECT * FROM " + quoteIdent(tableName)

	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	totalCount, err := r.count(ctx, tableName, params)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying %s: %w", tableName, err)
	}
	defer rows.Close()

	results, err := scanRows(rows, structType)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", tableName, err)
	}

	return results, totalCount, nil
}

func (r *SQLiteReader) count(
	ctx context.Context,
	tableName string,
	params QueryParams,
) (int, error) {
	var n int

	query := "SELECT COUNT(*) FROM " + quoteIdent(tableName)
	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	err := r.DB.QueryRowContext(ctx, query, params.Args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", tableName, err)
	}

	return n, nil
}

func scanRows(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldMap := make(map[string]int)
	for i := 0; i < structType.NumField(); i++ {
		fieldMap[structType.Field(i).Name] = i
	}

	var results []any

	for rows.Next() {
		structPtr := reflect.New(structType)
		structVal := structPtr.Elem()
		targets := make([]any, len(columns))

		for i, col := range columns {
			if idx, ok := fieldMap[col]; ok {
				targets[i] = structVal.Field(idx).Addr().Interface()
			} else {
				var placeholder any
				targets[i] = &placeholder
			}
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, structPtr.Interface())
	}

	return results, rows.Err()
}

// Close closes the database.
func (r *SQLiteReader) Close() error {
	return r.DB.Close()
}
