package schemas

import (
	"context"
	"fmt"

	"datapath/core/datastore"
	"datapath/core/property"
	"datapath/core/schema"

	"go.uber.org/zap"
)

// PathInfo describes one resolved property path.
type PathInfo struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Column     string `json:"column,omitempty"`
	Identifier bool   `json:"identifier,omitempty"`
	Version    bool   `json:"version,omitempty"`
}

// Service reads and publishes schemas.
type Service struct {
	registry *schema.Registry
	logger   *zap.Logger
}

// NewService creates a new schema service.
func NewService(registry *schema.Registry, logger *zap.Logger) *Service {
	return &Service{registry: registry, logger: logger}
}

// List returns the known schema names.
func (s *Service) List(ctx context.Context) []string {
	return s.registry.Names(ctx)
}

// Get returns the definition of the named schema.
func (s *Service) Get(ctx context.Context, name string) (schema.Definition, error) {
	sch, err := s.registry.GetOrLoad(ctx, name)
	if err != nil {
		return schema.Definition{}, err
	}
	return sch.Definition(), nil
}

// Paths lists every property path of the named schema.
func (s *Service) Paths(ctx context.Context, name string) ([]PathInfo, error) {
	sch, err := s.registry.GetOrLoad(ctx, name)
	if err != nil {
		return nil, err
	}
	var out []PathInfo
	for pp := range sch.Adapter.PropertyPaths() {
		out = append(out, info(pp.Path.FullName(), pp.Property))
	}
	return out, nil
}

// Resolve resolves path in the named schema. A non-empty typeName requires the
// property type to be compatible with it.
func (s *Service) Resolve(ctx context.Context, name, path, typeName string) (PathInfo, error) {
	sch, err := s.registry.GetOrLoad(ctx, name)
	if err != nil {
		return PathInfo{}, err
	}

	p, err := sch.Adapter.Property(property.ParsePath(path))
	if err != nil {
		return PathInfo{}, err
	}
	if p == nil {
		return PathInfo{}, fmt.Errorf("%w: schema %s has no path %q", schema.ErrSchemaNotFound, name, path)
	}
	if typeName != "" {
		typ, ok := schema.TypeOf(typeName)
		if !ok {
			return PathInfo{}, fmt.Errorf("%w: unknown type %q", property.ErrInvalidArgument, typeName)
		}
		if !p.Type().AssignableTo(typ) {
			return PathInfo{}, &property.TypeMismatchError{Property: path, Actual: p.Type(), Required: typ}
		}
	}
	return info(sch.Path(p), p), nil
}

// Publish stores def under name and drops the cached copy.
func (s *Service) Publish(ctx context.Context, name string, def schema.Definition) (schema.Definition, error) {
	src, ok := s.registry.Source(schema.OriginStorage)
	if !ok {
		return schema.Definition{}, fmt.Errorf("schema storage is not configured")
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Name != name {
		return schema.Definition{}, fmt.Errorf("%w: definition name %q does not match %q", property.ErrInvalidArgument, def.Name, name)
	}

	sch, err := src.(*schema.StorageSource).Save(ctx, def)
	if err != nil {
		return schema.Definition{}, err
	}
	s.registry.Invalidate(name)
	s.logger.Info("Schema published", zap.String("schema", name), zap.Int("properties", sch.Set.Len()))
	return sch.Definition(), nil
}

func info(path string, p *property.Property) PathInfo {
	pi := PathInfo{
		Path:       path,
		Name:       p.Name(),
		Type:       schema.TypeName(p.Type()),
		Identifier: p.IsIdentifier(),
		Version:    p.IsVersion(),
	}
	if datastore.Selectable(p) {
		pi.Column = datastore.Column(p)
	}
	return pi
}
