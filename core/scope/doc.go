// Package scope provides named resource scopes and a small bean factory.
//
// A Registry orders scopes by Order() and resolves a resource key through the
// first scope that knows it. Three scopes are provided:
//
//   - ContextScope ("context"): resources attached to a context.Context with
//     WithResource.
//   - TenantScope ("tenant"): one bean instance per tenant id, the id being read
//     from the context through a TenantResolver.
//   - FactoryScope ("beanfactory"): any bean of a BeanFactory.
//
// Beans is the BeanFactory implementation. Definitions have a Singleton,
// Prototype or Tenant lifetime. Resolving a Tenant bean without a tenant in
// the context fails with a *BeanCreationError wrapping ErrNoTenant. A
// TenantProxy defers that resolution to the moment the bean is used, so a
// singleton may depend on a tenant bean.
//
//	beans := scope.NewBeans(logger, scope.ContextTenantResolver)
//	beans.Define(scope.Definition{Name: "datastore", Lifetime: scope.Tenant, Create: newStore})
//
//	registry := scope.NewRegistry(scope.NewFactoryScope(beans), beans.TenantScope())
//	store, err := scope.ResourceOf[*datastore.Gorm](scope.WithTenant(ctx, "acme"), registry, "datastore")
package scope
