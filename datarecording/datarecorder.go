// Package datarecording stores simulation data in SQLite databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of sampleEntry.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of every table created so far.
	ListTables() []string

	// Flush writes every buffered entry into the database.
	Flush() error
}

type table struct {
	structType reflect.Type
	columns    []string
	entries    []any
}

// SQLiteWriter is a DataRecorder that writes into an SQLite database.
type SQLiteWriter struct {
	*sql.DB

	path       string
	logger     *slog.Logger
	tables     map[string]*table
	tableNames []string
	batchSize  int
	entryCount int
}

// New creates path.sqlite3 and records into it. A random name is used when
// path is empty. An existing file is never overwritten. Buffered entries are
// flushed at process exit.
func New(path string, logger *slog.Logger) (*SQLiteWriter, error) {
	if path == "" {
		path = "digisim_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, errors.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}

	w := NewWithDB(db, logger)
	w.path = filename

	logger.Info("recording to database", "file", filename)

	return w, nil
}

// NewWithDB records into an already open database.
func NewWithDB(db *sql.DB, logger *slog.Logger) *SQLiteWriter {
	w := &SQLiteWriter{
		DB:        db,
		logger:    logger,
		tables:    make(map[string]*table),
		batchSize: 100000,
	}

	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			logger.Error("flush recording at exit", "error", err)
		}
	})

	return w
}

// Path returns the database file, empty for NewWithDB writers.
func (w *SQLiteWriter) Path() string {
	return w.path
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

func columnsOf(entry any) ([]string, error) {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Errorf("entry %T is not a struct", entry)
	}

	columns := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			return nil, errors.Errorf("field %s of %s is not exported",
				field.Name, t)
		}

		if !isAllowedKind(field.Type.Kind()) {
			return nil, errors.Errorf("field %s of %s has unsupported kind %s",
				field.Name, t, field.Type.Kind())
		}

		columns = append(columns, field.Name)
	}

	return columns, nil
}

// CreateTable creates a table with one column per field of sampleEntry.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) error {
	if _, exists := w.tables[tableName]; exists {
		return errors.Errorf("table %s already exists", tableName)
	}

	columns, err := columnsOf(sampleEntry)
	if err != nil {
		return errors.Wrapf(err, "create table %s", tableName)
	}

	query := "CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(columns, ", \n\t") + "\n);"
	if _, err := w.Exec(query); err != nil {
		return errors.Wrapf(err, "create table %s", tableName)
	}

	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		columns:    columns,
	}
	w.tableNames = append(w.tableNames, tableName)

	return nil
}

// InsertData buffers an entry. The buffer is flushed once it holds as many
// entries as the batch size.
func (w *SQLiteWriter) InsertData(tableName string, entry any) error {
	t, exists := w.tables[tableName]
	if !exists {
		return errors.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != t.structType {
		return errors.Errorf("table %s stores %s, got %T",
			tableName, t.structType, entry)
	}

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		return w.Flush()
	}

	return nil
}

// ListTables returns the table names in creation order.
func (w *SQLiteWriter) ListTables() []string {
	return append([]string(nil), w.tableNames...)
}

// Flush writes every buffered entry in one transaction.
func (w *SQLiteWriter) Flush() error {
	if w.entryCount == 0 {
		return nil
	}

	tx, err := w.Begin()
	if err != nil {
		return errors.Wrap(err, "begin flush")
	}

	for _, name := range w.tableNames {
		if err := w.flushTable(tx, name, w.tables[name]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit flush")
	}

	for _, t := range w.tables {
		t.entries = nil
	}

	w.entryCount = 0

	return nil
}

func (w *SQLiteWriter) flushTable(tx *sql.Tx, name string, t *table) error {
	if len(t.entries) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	stmt, err := tx.Prepare(
		fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, placeholders))
	if err != nil {
		return errors.Wrapf(err, "prepare insert into %s", name)
	}
	defer stmt.Close()

	for _, entry := range t.entries {
		v := reflect.ValueOf(entry)
		args := make([]any, v.NumField())

		for i := range args {
			args[i] = v.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			return errors.Wrapf(err, "insert into %s", name)
		}
	}

	return nil
}

// Close flushes and closes the database.
func (w *SQLiteWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	return errors.Wrap(w.DB.Close(), "close recording")
}
