package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sqlitekit/sqlitekit/pkg/database"
	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// wireColumn/wireTable/wireSchema are the on-disk shapes: DataType is
// spelled out as the CREATE TABLE keyword (INTEGER/REAL/TEXT/BLOB) rather
// than its internal int tag, so a hand-written snapshot file reads the way
// the SQL that produced it did.
type wireColumn struct {
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Constraints []string `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

type wireTable struct {
	Name    string       `yaml:"name" json:"name"`
	Columns []wireColumn `yaml:"columns" json:"columns"`
}

type wireSchema struct {
	Tables []wireTable `yaml:"tables" json:"tables"`
}

// Snapshot captures every table currently registered in db, in the order
// they were created.
func Snapshot(db *database.Database) (*Schema, error) {
	s := &Schema{}
	for _, name := range db.TableNames() {
		t, err := db.Table(name)
		if err != nil {
			return nil, err
		}
		s.Tables = append(s.Tables, fromTable(t))
	}
	return s, nil
}

// Apply recreates every table in s as an empty table in db (spec.md §4.2's
// CREATE TABLE, driven from a snapshot instead of parsed SQL).
func (s *Schema) Apply(db *database.Database) error {
	for _, t := range s.Tables {
		if err := db.CreateTable(table.New(t.Name, t.toColumnDefinitions())); err != nil {
			return err
		}
	}
	return nil
}

func toWire(s *Schema) wireSchema {
	w := wireSchema{Tables: make([]wireTable, len(s.Tables))}
	for i, t := range s.Tables {
		wt := wireTable{Name: t.Name, Columns: make([]wireColumn, len(t.Columns))}
		for j, c := range t.Columns {
			wt.Columns[j] = wireColumn{Name: c.Name, Type: c.DataType.String(), Constraints: c.Constraints}
		}
		w.Tables[i] = wt
	}
	return w
}

func fromWire(w wireSchema) (*Schema, error) {
	s := &Schema{Tables: make([]Table, len(w.Tables))}
	for i, wt := range w.Tables {
		t := Table{Name: wt.Name, Columns: make([]Column, len(wt.Columns))}
		for j, wc := range wt.Columns {
			dt, err := value.ParseType(wc.Type)
			if err != nil {
				return nil, fmt.Errorf("table %q column %q: %w", wt.Name, wc.Name, err)
			}
			t.Columns[j] = Column{Name: wc.Name, DataType: dt, Constraints: wc.Constraints}
		}
		s.Tables[i] = t
	}
	return s, nil
}

// ToYAML renders s in the declarative form LoadFromYAML reads back.
func (s *Schema) ToYAML() ([]byte, error) {
	return yaml.Marshal(toWire(s))
}

// ToJSON renders s in the declarative form LoadFromJSON reads back.
func (s *Schema) ToJSON() ([]byte, error) {
	return json.MarshalIndent(toWire(s), "", "  ")
}

// LoadFromYAML parses a declarative schema snapshot.
func LoadFromYAML(data []byte) (*Schema, error) {
	var w wireSchema
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse YAML schema: %w", err)
	}
	return fromWire(w)
}

// LoadFromJSON parses a declarative schema snapshot.
func LoadFromJSON(data []byte) (*Schema, error) {
	var w wireSchema
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	return fromWire(w)
}

// LoadFromFile loads a schema snapshot, auto-detecting JSON/YAML from the
// file extension and falling back to trying both.
func LoadFromFile(filename string) (*Schema, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".json") {
		return LoadFromJSON(data)
	}
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return LoadFromYAML(data)
	}

	if s, err := LoadFromJSON(data); err == nil {
		return s, nil
	}
	return LoadFromYAML(data)
}

// SaveToFile writes s to filename, auto-selecting YAML or JSON from the
// extension (YAML by default).
func SaveToFile(s *Schema, filename string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(strings.ToLower(filename), ".json") {
		data, err = s.ToJSON()
	} else {
		data, err = s.ToYAML()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// Loader caches named schema snapshots — e.g. one per fixture file a test
// suite loads repeatedly.
type Loader struct {
	schemas map[string]*Schema
}

// NewLoader returns an empty Loader.
func NewLoader() *Loader {
	return &Loader{schemas: make(map[string]*Schema)}
}

// AddSchema caches s under name (case-insensitive).
func (l *Loader) AddSchema(name string, s *Schema) {
	l.schemas[strings.ToLower(name)] = s
}

// GetSchema retrieves a cached schema by name (case-insensitive).
func (l *Loader) GetSchema(name string) (*Schema, bool) {
	s, ok := l.schemas[strings.ToLower(name)]
	return s, ok
}

// HasSchema reports whether name is cached (case-insensitive).
func (l *Loader) HasSchema(name string) bool {
	_, ok := l.schemas[strings.ToLower(name)]
	return ok
}
