package persistence

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudmeta/pkg/semantic"
)

// MemoryOption configures a Memory repository.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	logger zerolog.Logger
	mapper []MapperOption
}

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) MemoryOption {
	return func(o *memoryOptions) {
		o.logger = logger
	}
}

// WithMapperOptions forwards options to the underlying Mapper.
func WithMapperOptions(options ...MapperOption) MemoryOption {
	return func(o *memoryOptions) {
		o.mapper = append(o.mapper, options...)
	}
}

// Memory is an in-memory Repository storing rows keyed by identity. Zero
// integer identities are assigned from a sequence, zero string identities
// get a UUID, and version properties enforce optimistic locking.
type Memory[T any] struct {
	mapper *Mapper
	logger zerolog.Logger

	mu    sync.RWMutex
	rows  map[string]Row
	order []string
	seq   int64
}

var _ Repository[struct{}] = (*Memory[struct{}])(nil)

// NewMemory builds a repository for T using cache for the semantic model.
func NewMemory[T any](cache *semantic.Cache, options ...MemoryOption) (*Memory[T], error) {
	opts := memoryOptions{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	if cache == nil {
		cache = semantic.NewCache()
	}
	model, err := semantic.Of[T](cache)
	if err != nil {
		return nil, err
	}
	if _, ok := model.Identity(); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoIdentity, model.Name())
	}
	mapper, err := NewMapper(model, opts.mapper...)
	if err != nil {
		return nil, err
	}
	return &Memory[T]{mapper: mapper, logger: opts.logger, rows: make(map[string]Row)}, nil
}

// Mapper returns the row mapper.
func (r *Memory[T]) Mapper() *Mapper { return r.mapper }

// Find returns a copy of the entity stored under key.
func (r *Memory[T]) Find(_ context.Context, key any) (*T, error) {
	r.mu.RLock()
	row, ok := r.rows[keyString(key)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s %v", ErrNotFound, r.mapper.Model().Name(), key)
	}
	return r.decode(row)
}

// List returns copies of every entity in insertion order.
func (r *Memory[T]) List(_ context.Context) ([]*T, error) {
	r.mu.RLock()
	rows := make([]Row, 0, len(r.order))
	for _, key := range r.order {
		rows = append(rows, r.rows[key])
	}
	r.mu.RUnlock()

	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		entity, err := r.decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// Save inserts or updates entity, writing back assigned identity and version
// values.
func (r *Memory[T]) Save(_ context.Context, entity *T) error {
	if entity == nil {
		return fmt.Errorf("persistence: save nil %s", r.mapper.Model().Name())
	}
	model := r.mapper.Model()
	identity, _ := model.Identity()
	version, versioned := model.Version()

	r.mu.Lock()
	defer r.mu.Unlock()

	key, err := model.Read(identity, entity)
	if err != nil {
		return err
	}
	if isZero(key) {
		if key, err = r.nextKey(identity.Type); err != nil {
			return err
		}
		if err := model.Write(identity, entity, key); err != nil {
			return err
		}
	}
	id := keyString(key)
	existing, exists := r.rows[id]

	if versioned {
		current, err := model.Read(version, entity)
		if err != nil {
			return err
		}
		if exists {
			stored := existing[r.columnOf(version.Name)]
			if !reflect.DeepEqual(stored, current) {
				return fmt.Errorf("%w: %s %v has version %v, got %v", ErrConflict, model.Name(), key, stored, current)
			}
		}
		next, err := bump(current)
		if err != nil {
			return err
		}
		if err := model.Write(version, entity, next); err != nil {
			return err
		}
	}

	row, err := r.mapper.ToRow(entity)
	if err != nil {
		return err
	}
	r.rows[id] = cloneRow(row)
	if !exists {
		r.order = append(r.order, id)
	}
	r.logger.Debug().Str("type", model.Name()).Str("key", id).Bool("insert", !exists).Msg("entity saved")
	return nil
}

// Delete removes the entity stored under key.
func (r *Memory[T]) Delete(_ context.Context, key any) error {
	id := keyString(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: %s %v", ErrNotFound, r.mapper.Model().Name(), key)
	}
	delete(r.rows, id)
	for i, k := range r.order {
		if k == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Memory[T]) decode(row Row) (*T, error) {
	entity := new(T)
	if err := r.mapper.FromRow(cloneRow(row), entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *Memory[T]) columnOf(property string) string {
	for _, col := range r.mapper.columns {
		if col.Property == property {
			return col.Name
		}
	}
	return ""
}

// nextKey assigns the next free identity; integer sequences skip keys that
// callers inserted explicitly.
func (r *Memory[T]) nextKey(t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		for {
			r.seq++
			key := reflect.ValueOf(r.seq).Convert(t)
			if key.Convert(reflect.TypeOf(r.seq)).Int() != r.seq {
				return nil, fmt.Errorf("persistence: identity sequence of type %s exhausted", t)
			}
			if _, taken := r.rows[keyString(key.Interface())]; !taken {
				return key.Interface(), nil
			}
		}
	case reflect.String:
		return reflect.ValueOf(uuid.NewString()).Convert(t).Interface(), nil
	default:
		return nil, fmt.Errorf("persistence: cannot assign identity of type %s", t)
	}
}

func bump(version any) (any, error) {
	v := reflect.ValueOf(version)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(v.Int() + 1).Convert(v.Type()).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(v.Uint() + 1).Convert(v.Type()).Interface(), nil
	default:
		return nil, fmt.Errorf("persistence: version of type %T is not numeric", version)
	}
}

func isZero(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).IsZero()
}

func keyString(key any) string {
	return fmt.Sprint(key)
}

// cloneRow copies slice and map values so stored rows never share backing
// storage with caller entities.
func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for name, value := range row {
		if value == nil {
			out[name] = nil
			continue
		}
		out[name] = cloneValue(reflect.ValueOf(value)).Interface()
	}
	return out
}

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out
	}
	return v
}
