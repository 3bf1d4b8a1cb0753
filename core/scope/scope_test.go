package scope_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"datapath/core/property"
	"datapath/core/scope"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resource struct{ id int }

type tenantService struct{ tenantID string }

// singletonComponent depends on a tenant bean through a proxy.
type singletonComponent struct {
	service *scope.TenantProxy[*tenantService]
}

func (c *singletonComponent) TenantID(ctx context.Context) (string, error) {
	s, err := c.service.Get(ctx)
	if err != nil {
		return "", err
	}
	return s.tenantID, nil
}

func newTenantBeans(t *testing.T, created *atomic.Int32) *scope.Beans {
	t.Helper()
	beans := scope.NewBeans(nil, scope.ContextTenantResolver)
	require.NoError(t, beans.Define(scope.Definition{
		Name:     "service",
		Lifetime: scope.Tenant,
		Create: func(ctx context.Context, _ scope.BeanFactory) (any, error) {
			if created != nil {
				created.Add(1)
			}
			id, _ := scope.TenantFromContext(ctx)
			return &tenantService{tenantID: id}, nil
		},
	}))
	require.NoError(t, beans.Define(scope.Definition{
		Name: "component",
		Create: func(_ context.Context, f scope.BeanFactory) (any, error) {
			return &singletonComponent{service: scope.NewTenantProxy[*tenantService](f, "service")}, nil
		},
	}))
	return beans
}

func TestTenantScope(t *testing.T) {
	t.Run("Missing Tenant Fails Eagerly", func(t *testing.T) {
		beans := newTenantBeans(t, nil)
		_, err := beans.Bean(context.Background(), "service")
		require.Error(t, err)
		assert.ErrorIs(t, err, scope.ErrBeanCreation)
		assert.ErrorIs(t, err, scope.ErrNoTenant)

		var creation *scope.BeanCreationError
		require.True(t, errors.As(err, &creation))
		assert.Equal(t, "service", creation.Bean)
	})

	t.Run("Proxy Resolves Current Tenant", func(t *testing.T) {
		beans := newTenantBeans(t, nil)
		component, err := scope.BeanOf[*singletonComponent](context.Background(), beans, "component")
		require.NoError(t, err)

		id, err := component.TenantID(scope.WithTenant(context.Background(), "T1"))
		require.NoError(t, err)
		assert.Equal(t, "T1", id)

		id, err = component.TenantID(scope.WithTenant(context.Background(), "T2"))
		require.NoError(t, err)
		assert.Equal(t, "T2", id)
	})

	t.Run("Proxy Fails On Use Without Tenant", func(t *testing.T) {
		beans := newTenantBeans(t, nil)
		component, err := scope.BeanOf[*singletonComponent](context.Background(), beans, "component")
		require.NoError(t, err)

		_, err = component.TenantID(context.Background())
		assert.ErrorIs(t, err, scope.ErrBeanCreation)
		assert.ErrorIs(t, err, scope.ErrNoTenant)
	})

	t.Run("One Instance Per Tenant", func(t *testing.T) {
		var created atomic.Int32
		beans := newTenantBeans(t, &created)
		t1 := scope.WithTenant(context.Background(), "T1")

		var wg sync.WaitGroup
		results := make([]any, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = beans.Bean(t1, "service")
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			assert.Same(t, results[0], r)
		}
		assert.Equal(t, int32(1), created.Load())

		other, err := beans.Bean(scope.WithTenant(context.Background(), "T2"), "service")
		require.NoError(t, err)
		assert.NotSame(t, results[0], other)
		assert.ElementsMatch(t, []string{"T1", "T2"}, beans.TenantScope().Tenants())

		beans.TenantScope().Evict("T1")
		again, err := beans.Bean(t1, "service")
		require.NoError(t, err)
		assert.NotSame(t, results[0], again)
		assert.Equal(t, int32(3), created.Load())
	})

	t.Run("Custom Resolver", func(t *testing.T) {
		beans := scope.NewBeans(nil, scope.TenantResolverFunc(func(context.Context) (string, bool) {
			return "fixed", true
		}))
		require.NoError(t, beans.Define(scope.Definition{
			Name:     "service",
			Lifetime: scope.Tenant,
			Create: func(ctx context.Context, _ scope.BeanFactory) (any, error) {
				id, _ := scope.TenantFromContext(ctx)
				return &tenantService{tenantID: id}, nil
			},
		}))

		s, err := scope.BeanOf[*tenantService](context.Background(), beans, "service")
		require.NoError(t, err)
		assert.Equal(t, "fixed", s.tenantID)
	})
}

func TestBeans(t *testing.T) {
	beans := scope.NewBeans(nil, nil)
	var prototypes atomic.Int32
	require.NoError(t, beans.Define(scope.Definition{
		Name:     "proto",
		Lifetime: scope.Prototype,
		Create: func(context.Context, scope.BeanFactory) (any, error) {
			return &resource{id: int(prototypes.Add(1))}, nil
		},
	}))
	require.NoError(t, beans.Define(scope.Definition{
		Name: "broken",
		Create: func(context.Context, scope.BeanFactory) (any, error) {
			return nil, errors.New("boom")
		},
	}))
	require.NoError(t, beans.Instance("answer", 42))

	a, err := scope.BeanOf[*resource](context.Background(), beans, "proto")
	require.NoError(t, err)
	b, err := scope.BeanOf[*resource](context.Background(), beans, "proto")
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	_, err = beans.Bean(context.Background(), "missing")
	assert.ErrorIs(t, err, scope.ErrNoSuchBean)

	_, err = beans.Bean(context.Background(), "broken")
	assert.ErrorIs(t, err, scope.ErrBeanCreation)
	assert.ErrorContains(t, err, "boom")

	_, err = scope.BeanOf[string](context.Background(), beans, "answer")
	assert.ErrorIs(t, err, property.ErrTypeMismatch)

	assert.ErrorIs(t, beans.Define(scope.Definition{Name: "x"}), property.ErrInvalidArgument)
	assert.ErrorIs(t, beans.Define(scope.Definition{}), property.ErrInvalidArgument)
	assert.Equal(t, []string{"answer", "broken", "proto"}, beans.Names())
	assert.Equal(t, "prototype", scope.Prototype.String())
}

func TestBeansCircularReference(t *testing.T) {
	beans := scope.NewBeans(nil, nil)
	dependsOn := func(name, dep string, lifetime scope.Lifetime) scope.Definition {
		return scope.Definition{
			Name:     name,
			Lifetime: lifetime,
			Create: func(ctx context.Context, f scope.BeanFactory) (any, error) {
				return f.Bean(ctx, dep)
			},
		}
	}
	require.NoError(t, beans.Define(dependsOn("a", "b", scope.Singleton)))
	require.NoError(t, beans.Define(dependsOn("b", "a", scope.Singleton)))
	require.NoError(t, beans.Define(dependsOn("self", "self", scope.Prototype)))
	require.NoError(t, beans.Define(dependsOn("tenantA", "tenantB", scope.Tenant)))
	require.NoError(t, beans.Define(dependsOn("tenantB", "tenantA", scope.Tenant)))
	require.NoError(t, beans.Instance("leaf", 1))
	require.NoError(t, beans.Define(dependsOn("chain", "leaf", scope.Singleton)))

	resolve := func(ctx context.Context, name string) error {
		done := make(chan error, 1)
		go func() {
			_, err := beans.Bean(ctx, name)
			done <- err
		}()
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			t.Fatalf("resolving %q did not return", name)
			return nil
		}
	}

	err := resolve(context.Background(), "a")
	assert.ErrorIs(t, err, scope.ErrCircularReference)
	assert.ErrorIs(t, err, scope.ErrBeanCreation)
	assert.ErrorContains(t, err, "a -> b -> a")

	assert.ErrorIs(t, resolve(context.Background(), "self"), scope.ErrCircularReference)
	assert.ErrorIs(t, resolve(scope.WithTenant(context.Background(), "acme"), "tenantA"), scope.ErrCircularReference)

	require.NoError(t, resolve(context.Background(), "chain"))
	v, err := beans.Bean(context.Background(), "chain")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestRegistry(t *testing.T) {
	t.Run("Bean Context By Name", func(t *testing.T) {
		beans := scope.NewBeans(nil, nil)
		require.NoError(t, beans.Instance("test-res", &resource{id: 1}))
		require.NoError(t, beans.Instance("test-res2", &resource{id: 2}))

		registry := scope.NewRegistry(scope.NewFactoryScope(beans))
		s, ok := registry.Scope(scope.FactoryScopeName)
		require.True(t, ok)
		assert.Equal(t, scope.FactoryScopeName, s.Name())

		r, found, err := scope.ResourceOf[*resource](context.Background(), registry, "test-res")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 1, r.id)

		_, found, err = registry.Resource(context.Background(), "unknown")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Scopes Consulted In Order", func(t *testing.T) {
		beans := scope.NewBeans(nil, nil)
		require.NoError(t, beans.Instance("res", &resource{id: 1}))

		registry := scope.NewRegistry(scope.NewFactoryScope(beans), scope.ContextScope{}, beans.TenantScope())
		var order []string
		for _, s := range registry.Scopes() {
			order = append(order, s.Name())
		}
		assert.Equal(t, []string{scope.ContextScopeName, scope.TenantScopeName, scope.FactoryScopeName}, order)

		ctx := scope.WithResource(context.Background(), "res", &resource{id: 9})
		r, found, err := scope.ResourceOf[*resource](ctx, registry, "res")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 9, r.id)

		_, _, err = scope.ResourceOf[string](ctx, registry, "res")
		assert.ErrorIs(t, err, property.ErrTypeMismatch)
	})

	t.Run("Register Replaces And Unregister Removes", func(t *testing.T) {
		registry := scope.NewRegistry(scope.ContextScope{})
		registry.Register(scope.ContextScope{})
		assert.Len(t, registry.Scopes(), 1)

		assert.True(t, registry.Unregister(scope.ContextScopeName))
		assert.False(t, registry.Unregister(scope.ContextScopeName))
		_, ok := registry.Scope(scope.ContextScopeName)
		assert.False(t, ok)
	})

	t.Run("Tenant Scope Errors Propagate", func(t *testing.T) {
		beans := newTenantBeans(t, nil)
		registry := scope.NewRegistry(beans.TenantScope(), scope.NewFactoryScope(beans))

		_, _, err := registry.Resource(context.Background(), "service")
		assert.ErrorIs(t, err, scope.ErrNoTenant)

		v, found, err := registry.Resource(scope.WithTenant(context.Background(), "T1"), "service")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "T1", v.(*tenantService).tenantID)
	})

	t.Run("Default Registry", func(t *testing.T) {
		_, ok := scope.Default().Scope(scope.ContextScopeName)
		assert.True(t, ok)
	})

	t.Run("Register Beans", func(t *testing.T) {
		beans := scope.NewBeans(nil, nil)
		require.NoError(t, beans.Instance("res", &resource{id: 3}))
		registry := scope.NewRegistry(scope.ContextScope{})
		registry.RegisterBeans(beans)

		var order []string
		for _, s := range registry.Scopes() {
			order = append(order, s.Name())
		}
		assert.Equal(t, []string{scope.ContextScopeName, scope.TenantScopeName, scope.FactoryScopeName}, order)

		r, found, err := scope.ResourceOf[*resource](context.Background(), registry, "res")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 3, r.id)
	})
}
