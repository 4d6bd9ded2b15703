package persistence

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm/schema"

	"github.com/goliatone/go-crudmeta/internal/introspect"
	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

// ErrNoIdentity is returned by Key for types without an identity property.
var ErrNoIdentity = errors.New("persistence: type has no identity property")

// Row is one storage row keyed by column name.
type Row map[string]any

// Column maps one semantic property to a storage column.
type Column struct {
	Name     string
	Property string
	Type     reflect.Type
	Primary  bool
	Version  bool
	NotNull  bool
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithNamer overrides the gorm naming strategy.
func WithNamer(namer schema.Namer) MapperOption {
	return func(m *Mapper) {
		if namer != nil {
			m.namer = namer
		}
	}
}

// Mapper converts entities of one type to rows and back.
type Mapper struct {
	model   *semantic.Model
	namer   schema.Namer
	table   string
	columns []Column
	byName  map[string]int
}

// NewMapper derives the column layout of model.
func NewMapper(model *semantic.Model, options ...MapperOption) (*Mapper, error) {
	if model == nil {
		return nil, errors.New("persistence: model is required")
	}
	m := &Mapper{model: model, namer: schema.NamingStrategy{}}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}

	m.table = tableName(model.Type(), m.namer)
	identity, hasIdentity := model.Identity()
	version, hasVersion := model.Version()
	m.byName = make(map[string]int)
	for _, prop := range model.Properties() {
		desc := prop.Descriptor()
		settings := map[string]string{}
		if tag, ok := desc.FieldTag(); ok {
			settings = introspect.GormSettings(tag)
		}
		if _, ignored := settings["-"]; ignored {
			continue
		}
		name := strings.TrimSpace(settings["COLUMN"])
		if name == "" {
			name = m.namer.ColumnName(m.table, desc.FieldName)
		}
		if _, dup := m.byName[name]; dup {
			return nil, fmt.Errorf("persistence: %s maps two properties to column %q", model.Name(), name)
		}
		_, notNull := settings["NOT NULL"]
		m.byName[name] = len(m.columns)
		m.columns = append(m.columns, Column{
			Name:     name,
			Property: prop.Name,
			Type:     prop.Type,
			Primary:  hasIdentity && prop.Index == identity.Index,
			Version:  hasVersion && prop.Index == version.Index,
			NotNull:  notNull,
		})
	}
	return m, nil
}

// Model returns the semantic model the mapper was built from.
func (m *Mapper) Model() *semantic.Model { return m.model }

// Table returns the table name: TableName() for gorm Tablers, else the
// naming strategy applied to the type name.
func (m *Mapper) Table() string { return m.table }

// Columns returns the column layout in declaration order.
func (m *Mapper) Columns() []Column {
	return append([]Column(nil), m.columns...)
}

// Column returns the column called name.
func (m *Mapper) Column(name string) (Column, bool) {
	idx, ok := m.byName[name]
	if !ok {
		return Column{}, false
	}
	return m.columns[idx], true
}

// ToRow reads every mapped property of entity.
func (m *Mapper) ToRow(entity any) (Row, error) {
	row := make(Row, len(m.columns))
	for _, col := range m.columns {
		value, err := m.model.ReadName(col.Property, entity)
		if err != nil {
			return nil, err
		}
		row[col.Name] = value
	}
	return row, nil
}

// FromRow writes the row values onto dst, a pointer to the entity. Columns
// missing from row are left untouched; unknown columns fail.
func (m *Mapper) FromRow(row Row, dst any) error {
	for name, value := range row {
		col, ok := m.Column(name)
		if !ok {
			return fmt.Errorf("persistence: %s has no column %q", m.model.Name(), name)
		}
		if err := m.model.WriteName(col.Property, dst, value); err != nil {
			return err
		}
	}
	return nil
}

// Key returns the identity value of entity.
func (m *Mapper) Key(entity any) (any, error) {
	identity, ok := m.model.Identity()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoIdentity, m.model.Name())
	}
	return m.model.Read(identity, entity)
}

func tableName(t reflect.Type, namer schema.Namer) string {
	if tabler, ok := reflect.New(t).Interface().(schema.Tabler); ok {
		return tabler.TableName()
	}
	return namer.TableName(t.Name())
}
