package scope

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"datapath/core/property"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Lifetime selects how many instances of a bean exist.
type Lifetime int

const (
	// Singleton beans are created once.
	Singleton Lifetime = iota
	// Prototype beans are created on every resolution.
	Prototype
	// Tenant beans are created once per tenant.
	Tenant
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Prototype:
		return "prototype"
	case Tenant:
		return "tenant"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// Definition describes a named bean. Create receives a context bound to the
// tenant for Tenant beans, and the factory to resolve dependencies.
type Definition struct {
	Name     string
	Lifetime Lifetime
	Create   func(ctx context.Context, factory BeanFactory) (any, error)
}

// BeanFactory resolves named beans.
type BeanFactory interface {
	Bean(ctx context.Context, name string) (any, error)
	Contains(name string) bool
}

// Beans is a BeanFactory of named definitions.
type Beans struct {
	logger *zap.Logger
	tenant *TenantScope

	mu          sync.RWMutex
	definitions map[string]Definition
	singletons  map[string]any
	group       singleflight.Group
}

// NewBeans returns an empty factory. resolver defaults to
// ContextTenantResolver.
func NewBeans(logger *zap.Logger, resolver TenantResolver) *Beans {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Beans{
		logger:      logger,
		definitions: make(map[string]Definition),
		singletons:  make(map[string]any),
	}
	b.tenant = newTenantScope(b, resolver)
	return b
}

// TenantScope returns the scope holding the Tenant beans of b.
func (b *Beans) TenantScope() *TenantScope { return b.tenant }

// Define registers def, replacing a definition with the same name.
func (b *Beans) Define(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: bean name is required", property.ErrInvalidArgument)
	}
	if def.Create == nil {
		return fmt.Errorf("%w: bean %q has no create function", property.ErrInvalidArgument, def.Name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.definitions[def.Name] = def
	delete(b.singletons, def.Name)
	return nil
}

// Instance registers an existing value as a singleton bean.
func (b *Beans) Instance(name string, value any) error {
	if err := b.Define(Definition{
		Name:   name,
		Create: func(context.Context, BeanFactory) (any, error) { return value, nil },
	}); err != nil {
		return err
	}
	b.mu.Lock()
	b.singletons[name] = value
	b.mu.Unlock()
	return nil
}

// Contains implements BeanFactory.
func (b *Beans) Contains(name string) bool {
	_, ok := b.definition(name)
	return ok
}

// Names returns the defined bean names, sorted.
func (b *Beans) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.definitions))
	for name := range b.definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// creatingKey carries the names of the beans being created along a chain of
// Create calls.
type creatingKey struct{}

func creating(ctx context.Context) []string {
	names, _ := ctx.Value(creatingKey{}).([]string)
	return names
}

// Bean implements BeanFactory. Resolving a bean from the Create function of
// the same bean, directly or through other beans, fails with
// ErrCircularReference.
func (b *Beans) Bean(ctx context.Context, name string) (any, error) {
	def, ok := b.definition(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchBean, name)
	}
	if chain := creating(ctx); slices.Contains(chain, name) {
		path := strings.Join(append(slices.Clone(chain), name), " -> ")
		return nil, &BeanCreationError{Bean: name, Err: fmt.Errorf("%w: %s", ErrCircularReference, path)}
	}

	switch def.Lifetime {
	case Prototype:
		return b.create(ctx, def)
	case Tenant:
		return b.tenant.get(ctx, def)
	default:
		return b.singleton(ctx, def)
	}
}

func (b *Beans) definition(name string) (Definition, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	def, ok := b.definitions[name]
	return def, ok
}

func (b *Beans) singleton(ctx context.Context, def Definition) (any, error) {
	b.mu.RLock()
	v, ok := b.singletons[def.Name]
	b.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := b.group.Do(def.Name, func() (any, error) {
		b.mu.RLock()
		v, ok := b.singletons[def.Name]
		b.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := b.create(ctx, def)
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		b.singletons[def.Name] = v
		b.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (b *Beans) create(ctx context.Context, def Definition) (any, error) {
	chain := append(slices.Clone(creating(ctx)), def.Name)
	v, err := def.Create(context.WithValue(ctx, creatingKey{}, chain), b)
	if err != nil {
		return nil, &BeanCreationError{Bean: def.Name, Err: err}
	}
	fields := []zap.Field{zap.String("bean", def.Name), zap.Stringer("lifetime", def.Lifetime)}
	if tenantID, ok := TenantFromContext(ctx); ok && def.Lifetime == Tenant {
		fields = append(fields, zap.String("tenant", tenantID))
	}
	b.logger.Debug("Bean created", fields...)
	return v, nil
}

// BeanOf resolves the named bean and asserts its type.
func BeanOf[T any](ctx context.Context, factory BeanFactory, name string) (T, error) {
	var zero T
	v, err := factory.Bean(ctx, name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &property.TypeMismatchError{Property: name, Actual: reflect.TypeOf(v), Required: reflect.TypeFor[T]()}
	}
	return typed, nil
}

// FactoryScopeName is the name of FactoryScope.
const FactoryScopeName = "beanfactory"

// FactoryScope exposes every bean of a BeanFactory as a resource.
type FactoryScope struct {
	factory BeanFactory
}

// NewFactoryScope returns a scope over factory.
func NewFactoryScope(factory BeanFactory) *FactoryScope {
	return &FactoryScope{factory: factory}
}

func (s *FactoryScope) Name() string { return FactoryScopeName }

func (s *FactoryScope) Order() int { return 100 }

func (s *FactoryScope) Resource(ctx context.Context, key string) (any, bool, error) {
	if !s.factory.Contains(key) {
		return nil, false, nil
	}
	v, err := s.factory.Bean(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
