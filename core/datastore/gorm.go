package datastore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"datapath/core/property"
	"datapath/core/query"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConfig configures the gorm connector.
type GormConfig struct {
	// DB is the gorm connection. Required.
	DB *gorm.DB
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// TenantColumn is the column restricted by ForTenant; empty disables tenancy.
	TenantColumn string
}

// Gorm executes definitions through gorm.
type Gorm struct {
	db           *gorm.DB
	logger       *zap.Logger
	tenantColumn string
	tenantID     string
	adapters     *sync.Map
}

// NewGorm validates cfg and returns the connector.
func NewGorm(cfg GormConfig) (*Gorm, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("%w: database connection is required", property.ErrInvalidArgument)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gorm{
		db:           cfg.DB,
		logger:       logger,
		tenantColumn: cfg.TenantColumn,
		adapters:     &sync.Map{},
	}, nil
}

// ForTenant returns a connector restricted to tenantID. The adapter memo is
// shared with g.
func (g *Gorm) ForTenant(tenantID string) *Gorm {
	c := *g
	c.tenantID = tenantID
	c.logger = g.logger.With(zap.String("tenant", tenantID))
	return &c
}

// TenantID returns the tenant the connector is bound to, empty when unbound.
func (g *Gorm) TenantID() string { return g.tenantID }

func (g *Gorm) adapter(set *property.Set) (*property.Adapter, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: property set is required", property.ErrInvalidArgument)
	}
	if cached, ok := g.adapters.Load(set); ok {
		return cached.(*property.Adapter), nil
	}
	adapter, err := property.NewAdapter(set)
	if err != nil {
		return nil, err
	}
	actual, _ := g.adapters.LoadOrStore(set, adapter)
	return actual.(*property.Adapter), nil
}

// tenantProperty returns the property stored in the tenant column, if the
// connector is bound and the set has one.
func (g *Gorm) tenantProperty(set *property.Set) *property.Property {
	if g.tenantID == "" || g.tenantColumn == "" {
		return nil
	}
	for p := range set.All() {
		if Selectable(p) && Column(p) == g.tenantColumn {
			return p
		}
	}
	return nil
}

// Query implements Datastore.
func (g *Gorm) Query(ctx context.Context, set *property.Set, cfg query.Config) ([]*property.Box, error) {
	tx, columns, err := g.prepare(ctx, set, cfg)
	if err != nil {
		return nil, err
	}

	if len(columns) > 0 {
		tx = tx.Clauses(selection(columns, cfg.Distinct))
	}

	adapter, err := g.adapter(set)
	if err != nil {
		return nil, err
	}
	for _, s := range cfg.Sorts {
		p, err := resolve(adapter, s.Path)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: Column(p)}, Desc: s.Descending})
	}
	if cfg.Limit > 0 {
		tx = tx.Limit(cfg.Limit)
	}
	if cfg.Offset > 0 {
		tx = tx.Offset(cfg.Offset)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", cfg.Target, err)
	}

	boxes := make([]*property.Box, 0, len(rows))
	for _, row := range rows {
		box, err := toBox(set, columns, row)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", cfg.Target, err)
		}
		boxes = append(boxes, box)
	}
	g.logger.Debug("query executed", zap.String("target", cfg.Target), zap.Int("rows", len(boxes)))
	return boxes, nil
}

// Count implements Datastore.
func (g *Gorm) Count(ctx context.Context, set *property.Set, cfg query.Config) (int64, error) {
	tx, columns, err := g.prepare(ctx, set, cfg)
	if err != nil {
		return 0, err
	}
	// Distinct rows are counted over the selected columns.
	if cfg.Distinct && len(columns) > 0 {
		tx = g.db.WithContext(ctx).Table("(?) AS distinct_rows", tx.Clauses(selection(columns, true)))
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", cfg.Target, err)
	}
	return n, nil
}

// prepare validates cfg and returns a statement restricted by the filters and
// the tenant, plus the selectable properties of set.
func (g *Gorm) prepare(ctx context.Context, set *property.Set, cfg query.Config) (*gorm.DB, []*property.Property, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	adapter, err := g.adapter(set)
	if err != nil {
		return nil, nil, err
	}

	tx := g.db.WithContext(ctx).Table(cfg.Target)
	for _, f := range cfg.Filters {
		cond, err := g.condition(adapter, cfg, f)
		if err != nil {
			return nil, nil, err
		}
		tx = tx.Where(cond)
	}
	if tp := g.tenantProperty(set); tp != nil {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: Column(tp)}, Value: g.tenantID})
	}

	var columns []*property.Property
	for p := range set.All() {
		if Selectable(p) {
			columns = append(columns, p)
		}
	}
	return tx, columns, nil
}

func selection(columns []*property.Property, distinct bool) clause.Select {
	selected := clause.Select{Distinct: distinct}
	for _, p := range columns {
		selected.Columns = append(selected.Columns, clause.Column{Name: Column(p)})
	}
	return selected
}

var operatorSQL = map[query.Operator]string{
	query.OpEq:      "= ?",
	query.OpNeq:     "<> ?",
	query.OpLt:      "< ?",
	query.OpLte:     "<= ?",
	query.OpGt:      "> ?",
	query.OpGte:     ">= ?",
	query.OpLike:    "LIKE ?",
	query.OpIn:      "IN ?",
	query.OpNotIn:   "NOT IN ?",
	query.OpNull:    "IS NULL",
	query.OpNotNull: "IS NOT NULL",
}

func (g *Gorm) condition(adapter *property.Adapter, cfg query.Config, f query.Filter) (clause.Expression, error) {
	var (
		left     string
		vars     []any
		operandT reflect.Type
		target   *property.Property
	)

	switch {
	case f.Function != nil && !f.Function.IsExtraction():
		left = g.renderTemporal(*f.Function, "")
		operandT = f.Function.ResultType()
	default:
		p, err := resolve(adapter, f.Operand())
		if err != nil {
			return nil, err
		}
		vars = append(vars, clause.Column{Name: Column(p)})
		if f.Function != nil {
			left = g.renderTemporal(*f.Function, "?")
			operandT = f.Function.ResultType()
		} else {
			left = "?"
			operandT = p.Type()
			target = p
		}
	}

	sql := left + " " + operatorSQL[f.Op]
	if f.Op.Unary() {
		return clause.Expr{SQL: sql, Vars: vars}, nil
	}

	raw, err := cfg.ResolveValue(f.Value)
	if err != nil {
		return nil, err
	}
	value, err := modelValue(target, operandT, f.Op, raw)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", f, err)
	}
	return clause.Expr{SQL: sql, Vars: append(vars, value)}, nil
}

// renderTemporal renders fn for the connection dialect. arg is the SQL
// placeholder of the path argument.
func (g *Gorm) renderTemporal(fn query.TemporalFunction, arg string) string {
	sqlite := g.db.Dialector.Name() == "sqlite"
	switch fn.Kind {
	case query.CurrentTimestampKind:
		return "CURRENT_TIMESTAMP"
	case query.CurrentDateKind:
		return "CURRENT_DATE"
	}
	if sqlite {
		format := map[query.TemporalKind]string{
			query.YearKind:  "%Y",
			query.MonthKind: "%m",
			query.DayKind:   "%d",
			query.HourKind:  "%H",
		}[fn.Kind]
		return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", format, arg)
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(string(fn.Kind)), arg)
}

// modelValue converts a filter value to the stored representation of the
// operand. Lists are converted element by element.
func modelValue(p *property.Property, typ reflect.Type, op query.Operator, raw any) (any, error) {
	convert := func(v any) (any, error) {
		if typ == nil || op == query.OpLike {
			return v, nil
		}
		coerced, err := property.Coerce(typ, v)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return coerced, nil
		}
		return property.ToModel(p, coerced)
	}

	if op != query.OpIn && op != query.OpNotIn {
		return convert(raw)
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %s requires a list value", query.ErrInvalidExpression, op)
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := convert(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func resolve(adapter *property.Adapter, path string) (*property.Property, error) {
	p, err := adapter.Property(property.ParsePath(path))
	if err != nil {
		return nil, err
	}
	if p == nil || !Selectable(p) {
		return nil, fmt.Errorf("%w: unknown path %q", query.ErrInvalidExpression, path)
	}
	return p, nil
}

func toBox(set *property.Set, columns []*property.Property, row map[string]any) (*property.Box, error) {
	box := property.NewBox(set)
	for _, p := range columns {
		raw, ok := row[Column(p)]
		if !ok {
			continue
		}
		value, err := property.FromModel(p, raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", Column(p), err)
		}
		if err := box.Put(p, value); err != nil {
			return nil, err
		}
	}
	return box, nil
}

// Execute implements Datastore.
func (g *Gorm) Execute(ctx context.Context, op query.Operation) (query.OperationResult, error) {
	if err := op.Validate(); err != nil {
		return query.OperationResult{}, err
	}
	if op.Kind != query.Delete {
		if err := op.Value.Validate(); err != nil {
			return query.OperationResult{}, err
		}
	}

	values, ids, err := g.columns(op.Value)
	if err != nil {
		return query.OperationResult{}, err
	}

	db := g.db.WithContext(ctx)
	result := query.OperationResult{Kind: op.Kind}

	switch op.Kind {
	case query.Insert:
		err = g.insert(db, op, values, &result)
	case query.Update:
		err = g.update(db, op, values, ids, &result)
	case query.Delete:
		err = g.delete(db, op, ids, &result)
	case query.Save:
		var n int64
		if len(ids) > 0 && len(ids) == len(op.Value.Set().Identifiers()) {
			if err = g.tenantScope(g.where(db.Table(op.Target), ids), op.Value).Count(&n).Error; err != nil {
				break
			}
		}
		if n > 0 {
			result.Kind = query.Update
			err = g.update(db, op, values, ids, &result)
		} else {
			result.Kind = query.Insert
			err = g.insert(db, op, values, &result)
		}
	}
	if err != nil {
		return query.OperationResult{}, fmt.Errorf("%s %s: %w", op.Kind, op.Target, err)
	}

	g.logger.Debug("operation executed",
		zap.String("kind", string(result.Kind)),
		zap.String("target", op.Target),
		zap.Int64("affected", result.Affected),
	)
	return result, nil
}

type columnValue struct {
	column string
	value  any
}

// columns converts the stored box values to column values; identifiers are
// returned separately, in identifier order.
func (g *Gorm) columns(box *property.Box) (map[string]any, []columnValue, error) {
	values := map[string]any{}
	for p, v := range box.Values() {
		if !Selectable(p) {
			continue
		}
		model, err := property.ToModel(p, v)
		if err != nil {
			return nil, nil, fmt.Errorf("property %s: %w", p.Name(), err)
		}
		values[Column(p)] = model
	}
	if tp := g.tenantProperty(box.Set()); tp != nil {
		values[Column(tp)] = g.tenantID
	}

	var ids []columnValue
	for _, id := range box.Set().Identifiers() {
		if v, ok := values[Column(id)]; ok && v != nil {
			ids = append(ids, columnValue{column: Column(id), value: v})
		}
	}
	return values, ids, nil
}

func (g *Gorm) where(tx *gorm.DB, ids []columnValue) *gorm.DB {
	for _, id := range ids {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: id.column}, Value: id.value})
	}
	return tx
}

func (g *Gorm) tenantScope(tx *gorm.DB, box *property.Box) *gorm.DB {
	if tp := g.tenantProperty(box.Set()); tp != nil {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: Column(tp)}, Value: g.tenantID})
	}
	return tx
}

func (g *Gorm) insert(db *gorm.DB, op query.Operation, values map[string]any, result *query.OperationResult) error {
	res := db.Table(op.Target).Create(values)
	if res.Error != nil {
		return res.Error
	}
	result.Affected = res.RowsAffected
	result.Keys = map[string]any{}
	for _, id := range op.Value.Set().Identifiers() {
		if v, ok := values[Column(id)]; ok && v != nil {
			result.Keys[id.Name()] = v
		}
	}
	return nil
}

func (g *Gorm) update(db *gorm.DB, op query.Operation, values map[string]any, ids []columnValue, result *query.OperationResult) error {
	updates := make(map[string]any, len(values))
	for column, v := range values {
		updates[column] = v
	}
	for _, id := range ids {
		delete(updates, id.column)
	}
	if len(updates) == 0 {
		return errors.New("nothing to update")
	}
	tx := g.tenantScope(g.where(db.Table(op.Target), ids), op.Value)
	res := tx.Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	result.Affected = res.RowsAffected
	return nil
}

func (g *Gorm) delete(db *gorm.DB, op query.Operation, ids []columnValue, result *query.OperationResult) error {
	var (
		conds []string
		vars  = []any{clause.Table{Name: op.Target}}
	)
	for _, id := range ids {
		conds = append(conds, "? = ?")
		vars = append(vars, clause.Column{Name: id.column}, id.value)
	}
	if tp := g.tenantProperty(op.Value.Set()); tp != nil {
		conds = append(conds, "? = ?")
		vars = append(vars, clause.Column{Name: Column(tp)}, g.tenantID)
	}
	res := db.Exec("DELETE FROM ? WHERE "+strings.Join(conds, " AND "), vars...)
	if res.Error != nil {
		return res.Error
	}
	result.Affected = res.RowsAffected
	return nil
}
