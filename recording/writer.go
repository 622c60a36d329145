// Package recording stores simulation records in SQLite databases.
package recording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DefaultBatchSize is the number of buffered entries that triggers a flush.
const DefaultBatchSize = 100000

// A Recorder stores flat structs as table rows.
type Recorder interface {
	// CreateTable creates a table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of the tables created so far.
	ListTables() []string

	// Flush writes all the buffered entries.
	Flush() error

	// Close flushes and closes the database.
	Close() error
}

// New creates a recorder that writes to <path>.sqlite3. An empty path picks
// a unique name. The buffered entries are flushed when the program exits
// through atexit.
func New(path string) (Recorder, error) {
	w := NewSQLiteWriter(path)

	if err := w.Init(); err != nil {
		return nil, err
	}

	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "recording: %v\n", err)
		}
	})

	return w, nil
}

// NewWithDB creates a recorder on an open database.
func NewWithDB(db *sql.DB) Recorder {
	w := NewSQLiteWriter("")
	w.DB = db

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

// SQLiteWriter is a Recorder that writes into a SQLite database.
type SQLiteWriter struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	tableOrder []string
	batchSize  int
	entryCount int
}

// NewSQLiteWriter creates a writer. Init must be called before use.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		dbName:    path,
		batchSize: DefaultBatchSize,
		tables:    make(map[string]*table),
	}
}

// SetBatchSize changes how many entries are buffered before a flush.
func (w *SQLiteWriter) SetBatchSize(n int) {
	if n < 1 {
		n = 1
	}

	w.batchSize = n
}

// Filename returns the name of the database file.
func (w *SQLiteWriter) Filename() string {
	return w.dbName + ".sqlite3"
}

// Init creates the database file. It refuses to overwrite an existing file.
func (w *SQLiteWriter) Init() error {
	if w.dbName == "" {
		w.dbName = "hyperram_recording_" + xid.New().String()
	}

	filename := w.Filename()

	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}

	w.DB = db

	return nil
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("entry of type %T is not a struct", entry)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			return fmt.Errorf("field %s of %s is not exported",
				field.Name, t.Name())
		}

		if !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf("field %s of %s has unsupported kind %s",
				field.Name, t.Name(), field.Type.Kind())
		}
	}

	return nil
}

// CreateTable creates a table named after the given name.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) error {
	if err := checkStructFields(sampleEntry); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	if _, exists := w.tables[tableName]; exists {
		return fmt.Errorf("table %s already exists", tableName)
	}

	names := structs.Names(sampleEntry)
	for i, n := range names {
		names[i] = quoteIdent(n)
	}

	fields := strings.Join(names, ", \n\t")
	createTableSQL := `CREATE TABLE ` + quoteIdent(tableName) +
		` (` + "\n\t" + fields + "\n" + `);`

	if _, err := w.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	w.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
	w.tableOrder = append(w.tableOrder, tableName)

	return nil
}

// InsertData buffers an entry. The buffer is flushed when it is full.
func (w *SQLiteWriter) InsertData(tableName string, entry any) error {
	t, exists := w.tables[tableName]
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != t.structType {
		return fmt.Errorf("entry of type %T does not match table %s",
			entry, tableName)
	}

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		return w.Flush()
	}

	return nil
}

// ListTables returns the tables in creation order.
func (w *SQLiteWriter) ListTables() []string {
	return append([]string(nil), w.tableOrder...)
}

// Flush writes all the buffered entries in one database transaction.
func (w *SQLiteWriter) Flush() error {
	if w.entryCount == 0 {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return fmt.Errorf("flushing records: %w", err)
	}

	for _, name := range w.tableOrder {
		t := w.tables[name]
		if len(t.entries) == 0 {
			continue
		}

		if err := insertAll(tx, name, t.entries); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("flushing table %s: %w", name, err)
		}

		t.entries = nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("flushing records: %w", err)
	}

	w.entryCount = 0

	return nil
}

func insertAll(tx *sql.Tx, tableName string, entries []any) error {
	n := structs.Names(entries[0])
	for i := range n {
		n[i] = "?"
	}

	stmt, err := tx.Prepare("INSERT INTO " + quoteIdent(tableName) +
		" VALUES (" + strings.Join(n, ", ") + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			return err
		}
	}

	return nil
}

// quoteIdent quotes a table or column name so that field names such as
// Index or Order are not read as SQL keywords.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Close flushes the buffered entries and closes the database.
func (w *SQLiteWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	return w.DB.Close()
}
