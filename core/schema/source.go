package schema

import (
	"context"
	"fmt"
	"path"
	"reflect"
	"regexp"
	"slices"
	"sync"

	"datapath/core/beans"
	"datapath/core/database"
	"datapath/core/property"
	"datapath/core/storage"

	"gorm.io/gorm"
)

// Source loads schemas by name. Load returns ErrSchemaNotFound for names it
// does not know.
type Source interface {
	Origin() Origin
	Load(ctx context.Context, name string) (*Schema, error)
	Names(ctx context.Context) ([]string, error)
}

// ModelSource serves schemas introspected from Go structs.
type ModelSource struct {
	introspector *beans.Introspector

	mu      sync.RWMutex
	schemas map[string]*Schema
	models  map[string]reflect.Type
}

// NewModelSource returns an empty model source. A nil introspector uses
// beans.Default.
func NewModelSource(introspector *beans.Introspector) *ModelSource {
	if introspector == nil {
		introspector = beans.Default
	}
	return &ModelSource{
		introspector: introspector,
		schemas:      make(map[string]*Schema),
		models:       make(map[string]reflect.Type),
	}
}

// Register introspects model (a struct value, pointer or reflect.Type) and
// publishes it as name, stored in target.
func (s *ModelSource) Register(name, target string, model any) error {
	t, ok := model.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(model)
	}
	set, err := s.introspector.Introspect(t)
	if err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	sch, err := New(name, target, OriginModel, set.Set)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[name] = sch
	s.models[name] = set.BeanType()
	return nil
}

// Model returns the struct type registered as name.
func (s *ModelSource) Model(name string) (reflect.Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.models[name]
	return t, ok
}

func (s *ModelSource) Origin() Origin { return OriginModel }

func (s *ModelSource) Load(_ context.Context, name string) (*Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sch, ok := s.schemas[name]; ok {
		return sch, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
}

func (s *ModelSource) Names(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// StorageSource serves JSON definitions from object storage.
type StorageSource struct {
	client storage.Client
	bucket string
	prefix string
}

// NewStorageSource reads definitions stored as <prefix><name>.json in bucket.
func NewStorageSource(client storage.Client, bucket, prefix string) *StorageSource {
	return &StorageSource{client: client, bucket: bucket, prefix: prefix}
}

func (s *StorageSource) object(name string) string {
	return path.Join(s.prefix, name+".json")
}

func (s *StorageSource) Origin() Origin { return OriginStorage }

func (s *StorageSource) Load(ctx context.Context, name string) (*Schema, error) {
	var def Definition
	if err := storage.ReadJSON(ctx, s.client, s.bucket, s.object(name), &def); err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
		}
		return nil, err
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Name != name {
		return nil, fmt.Errorf("%w: definition %s declares name %q", property.ErrInvalidArgument, s.object(name), def.Name)
	}
	return def.Build(OriginStorage)
}

func (s *StorageSource) Names(ctx context.Context) ([]string, error) {
	return storage.ListNames(ctx, s.client, s.bucket, s.prefix, ".json")
}

// Save validates def and stores it.
func (s *StorageSource) Save(ctx context.Context, def Definition) (*Schema, error) {
	sch, err := def.Build(OriginStorage)
	if err != nil {
		return nil, err
	}
	if err := storage.WriteJSON(ctx, s.client, s.bucket, s.object(def.Name), def); err != nil {
		return nil, err
	}
	return sch, nil
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DatabaseSource derives schemas from table columns.
type DatabaseSource struct {
	db *gorm.DB
}

// NewDatabaseSource returns a source over the tables of db.
func NewDatabaseSource(db *gorm.DB) *DatabaseSource {
	return &DatabaseSource{db: db}
}

func (s *DatabaseSource) Origin() Origin { return OriginDatabase }

func (s *DatabaseSource) Load(ctx context.Context, name string) (*Schema, error) {
	if !tableName.MatchString(name) {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	columns, err := database.GetTableColumns(s.db.WithContext(ctx), name)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	return FromColumns(name, columns)
}

func (s *DatabaseSource) Names(ctx context.Context) ([]string, error) {
	return database.ListTables(s.db.WithContext(ctx))
}

// FromColumns builds the schema of table from its columns.
func FromColumns(table string, columns []database.ColumnInfo) (*Schema, error) {
	properties := make([]*property.Property, 0, len(columns))
	for i, col := range columns {
		seq := i
		p, err := property.Config{
			Name:       col.Field,
			Type:       col.GoType(),
			Identifier: col.Primary(),
			Sequence:   &seq,
			Tags:       map[string]string{"sql_type": col.Type},
		}.Build()
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", table, err)
		}
		properties = append(properties, p)
	}
	set, err := property.NewSet(properties...)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}
	return New(table, table, OriginDatabase, set)
}
