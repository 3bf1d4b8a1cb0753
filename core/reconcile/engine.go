package reconcile

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"datapath/core/datastore"
	"datapath/core/schema"

	"golang.org/x/sync/singleflight"
)

// Reconciler compares the sources of a Spec.
type Reconciler struct {
	spec *Spec

	mu    sync.RWMutex
	cache *Index
	sf    singleflight.Group
}

// New returns a reconciler over spec.
func New(spec *Spec) *Reconciler {
	return &Reconciler{spec: spec}
}

// ReconcileAll reports every schema name known to any source, sorted by name.
func (r *Reconciler) ReconcileAll(ctx context.Context) ([]Result, error) {
	idx, err := r.index(ctx)
	if err != nil {
		return nil, err
	}
	return fromIndex(idx), nil
}

func fromIndex(idx *Index) []Result {
	union := map[string]struct{}{}
	targeted := map[string]struct{}{}
	for name, sch := range idx.Models {
		union[name] = struct{}{}
		targeted[sch.Target] = struct{}{}
	}
	for name, sch := range idx.Definitions {
		union[name] = struct{}{}
		targeted[sch.Target] = struct{}{}
	}
	// Tables without a model or definition are reported under their own name
	for table := range idx.Tables {
		if _, ok := targeted[table]; !ok {
			union[table] = struct{}{}
		}
	}

	results := make([]Result, 0, len(union))
	for name := range union {
		results = append(results, buildResult(name, idx.Models[name], idx.Definitions[name], idx.Tables))
	}
	slices.SortFunc(results, func(a, b Result) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return results
}

// ReconcileOne reports a single name. With caching enabled the cached index
// is used; otherwise each source is asked directly.
func (r *Reconciler) ReconcileOne(ctx context.Context, name string) (*Result, error) {
	if r.spec.CacheTTL > 0 {
		idx, err := r.index(ctx)
		if err != nil {
			return nil, err
		}
		result := buildResult(name, idx.Models[name], idx.Definitions[name], idx.Tables)
		return &result, nil
	}

	model, err := loadOne(ctx, r.spec.Model, name)
	if err != nil {
		return nil, err
	}
	definition, err := loadOne(ctx, r.spec.Storage, name)
	if err != nil {
		return nil, err
	}
	target := name
	if model != nil {
		target = model.Target
	} else if definition != nil {
		target = definition.Target
	}
	table, err := loadOne(ctx, r.spec.Database, target)
	if err != nil {
		return nil, err
	}

	tables := map[string]*schema.Schema{}
	if table != nil {
		tables[target] = table
	}
	result := buildResult(name, model, definition, tables)
	return &result, nil
}

func loadOne(ctx context.Context, src schema.Source, name string) (*schema.Schema, error) {
	if src == nil {
		return nil, nil
	}
	sch, err := src.Load(ctx, name)
	if errors.Is(err, schema.ErrSchemaNotFound) {
		return nil, nil
	}
	return sch, err
}

// buildResult compares the model and the definition of name with each other
// and with the table they target.
func buildResult(name string, model, definition *schema.Schema, tables map[string]*schema.Schema) Result {
	result := Result{
		Name:           name,
		Target:         name,
		ModelPresent:   model != nil,
		StoragePresent: definition != nil,
		Mismatch:       []string{},
	}

	defined := model
	if defined == nil {
		defined = definition
	}
	if defined != nil {
		result.Target = defined.Target
	}
	table, ok := tables[result.Target]
	result.DatabasePresent = ok

	if model != nil && definition != nil {
		result.Mismatch = append(result.Mismatch, compareDefinitions(model, definition)...)
	}
	if defined != nil && table != nil {
		result.Mismatch = append(result.Mismatch, compareColumns(defined, table)...)
	}
	return result
}

// compareDefinitions lists properties whose presence or type differ between a
// model and its stored definition.
func compareDefinitions(model, definition *schema.Schema) []string {
	var out []string
	stored := map[string]schema.PropertyDefinition{}
	for _, pd := range definition.Definition().Properties {
		stored[pd.Name] = pd
	}
	seen := map[string]bool{}
	for _, pd := range model.Definition().Properties {
		seen[pd.Name] = true
		other, ok := stored[pd.Name]
		switch {
		case !ok:
			out = append(out, fmt.Sprintf("%s: missing in storage", pd.Name))
		case other.Type != pd.Type:
			out = append(out, fmt.Sprintf("%s: model=%s storage=%s", pd.Name, pd.Type, other.Type))
		case other.Identifier != pd.Identifier:
			out = append(out, fmt.Sprintf("%s: identifier model=%t storage=%t", pd.Name, pd.Identifier, other.Identifier))
		}
	}
	for _, pd := range definition.Definition().Properties {
		if !seen[pd.Name] {
			out = append(out, fmt.Sprintf("%s: missing in model", pd.Name))
		}
	}
	return out
}

// compareColumns lists the columns of defined that the table lacks or stores
// with an incompatible type.
func compareColumns(defined, table *schema.Schema) []string {
	var out []string
	columns := map[string]reflect.Type{}
	sqlTypes := map[string]string{}
	for p := range table.Set.All() {
		columns[datastore.Column(p)] = p.Type()
		sqlTypes[datastore.Column(p)], _ = p.Tag("sql_type")
	}

	for p := range defined.Set.All() {
		if !datastore.Selectable(p) {
			continue
		}
		column := datastore.Column(p)
		actual, ok := columns[column]
		if !ok {
			out = append(out, fmt.Sprintf("%s: missing column", column))
			continue
		}
		expected := p.Type()
		if c := p.Converter(); c != nil {
			expected = c.ModelType()
		}
		if !compatible(family(expected), family(actual)) {
			out = append(out, fmt.Sprintf("%s: expected %s, got %s", column, schema.TypeName(expected), sqlTypes[column]))
		}
	}
	return out
}

var timeType = reflect.TypeFor[time.Time]()

func family(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == timeType:
		return "time"
	case t.Kind() == reflect.Bool:
		return "bool"
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Float64:
		return "number"
	case t.Kind() == reflect.String:
		return "string"
	default:
		return t.String()
	}
}

// compatible accepts numeric storage for booleans, since tinyint(1) and
// sqlite numeric columns both hold them.
func compatible(expected, actual string) bool {
	if expected == actual {
		return true
	}
	return (expected == "bool" && actual == "number") || (expected == "number" && actual == "bool")
}
