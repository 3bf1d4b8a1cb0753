package scope

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TenantScopeName is the name of TenantScope.
const TenantScopeName = "tenant"

type tenantKey struct{}

// WithTenant returns a copy of ctx bound to tenantID.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// TenantFromContext returns the tenant bound by WithTenant.
func TenantFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantKey{}).(string)
	return id, ok && id != ""
}

// TenantResolver returns the current tenant id.
type TenantResolver interface {
	TenantID(ctx context.Context) (string, bool)
}

// TenantResolverFunc adapts a function to TenantResolver.
type TenantResolverFunc func(ctx context.Context) (string, bool)

func (f TenantResolverFunc) TenantID(ctx context.Context) (string, bool) { return f(ctx) }

// ContextTenantResolver reads the tenant bound by WithTenant.
var ContextTenantResolver TenantResolver = TenantResolverFunc(TenantFromContext)

// TenantScope keeps one instance of each Tenant bean per tenant id.
type TenantScope struct {
	beans    *Beans
	resolver TenantResolver

	mu        sync.RWMutex
	instances map[string]map[string]any
	group     singleflight.Group
}

func newTenantScope(beans *Beans, resolver TenantResolver) *TenantScope {
	if resolver == nil {
		resolver = ContextTenantResolver
	}
	return &TenantScope{
		beans:     beans,
		resolver:  resolver,
		instances: make(map[string]map[string]any),
	}
}

func (s *TenantScope) Name() string { return TenantScopeName }

func (s *TenantScope) Order() int { return 50 }

// Resource resolves the Tenant beans of the owning factory.
func (s *TenantScope) Resource(ctx context.Context, key string) (any, bool, error) {
	def, ok := s.beans.definition(key)
	if !ok || def.Lifetime != Tenant {
		return nil, false, nil
	}
	v, err := s.get(ctx, def)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// TenantID returns the tenant resolved from ctx.
func (s *TenantScope) TenantID(ctx context.Context) (string, bool) {
	return s.resolver.TenantID(ctx)
}

// Tenants returns the ids holding at least one instance.
func (s *TenantScope) Tenants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	return ids
}

// Evict drops the instances of tenantID.
func (s *TenantScope) Evict(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, tenantID)
}

func (s *TenantScope) get(ctx context.Context, def Definition) (any, error) {
	tenantID, ok := s.resolver.TenantID(ctx)
	if !ok {
		return nil, &BeanCreationError{Bean: def.Name, Err: ErrNoTenant}
	}

	s.mu.RLock()
	v, found := s.instances[tenantID][def.Name]
	s.mu.RUnlock()
	if found {
		return v, nil
	}

	v, err, _ := s.group.Do(tenantID+"\x00"+def.Name, func() (any, error) {
		s.mu.RLock()
		v, found := s.instances[tenantID][def.Name]
		s.mu.RUnlock()
		if found {
			return v, nil
		}

		v, err := s.beans.create(WithTenant(ctx, tenantID), def)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.instances[tenantID] == nil {
			s.instances[tenantID] = make(map[string]any)
		}
		s.instances[tenantID][def.Name] = v
		s.mu.Unlock()
		return v, nil
	})
	return v, err
}

// TenantProxy resolves a Tenant bean on every Get, with the tenant of the
// given context.
type TenantProxy[T any] struct {
	factory BeanFactory
	name    string
}

// NewTenantProxy returns a proxy for the named bean of factory.
func NewTenantProxy[T any](factory BeanFactory, name string) *TenantProxy[T] {
	return &TenantProxy[T]{factory: factory, name: name}
}

// Name returns the proxied bean name.
func (p *TenantProxy[T]) Name() string { return p.name }

// Get resolves the bean for the tenant of ctx.
func (p *TenantProxy[T]) Get(ctx context.Context) (T, error) {
	return BeanOf[T](ctx, p.factory, p.name)
}
