package query_test

import (
	"reflect"
	"testing"
	"time"

	"datapath/core/property"
	"datapath/core/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     query.Config
		wantErr bool
	}{
		{"MissingTarget", query.Config{}, true},
		{"Minimal", query.Config{Target: "products"}, false},
		{"NegativeLimit", query.Config{Target: "products", Limit: -1}, true},
		{"NegativeOffset", query.Config{Target: "products", Offset: -3}, true},
		{"FilterWithoutOperand", query.Config{Target: "p", Filters: []query.Filter{{Op: query.OpEq, Value: 1}}}, true},
		{"FilterWithoutValue", query.Config{Target: "p", Filters: []query.Filter{query.Eq("a", nil)}}, true},
		{"UnaryFilter", query.Config{Target: "p", Filters: []query.Filter{query.IsNull("a")}}, false},
		{"EmptyIn", query.Config{Target: "p", Filters: []query.Filter{query.In("a")}}, true},
		{"UnknownOperator", query.Config{Target: "p", Filters: []query.Filter{{Path: "a", Op: "between", Value: 1}}}, true},
		{"UndefinedParam", query.Config{Target: "p", Filters: []query.Filter{query.Eq("a", query.Param("x"))}}, true},
		{"SortWithoutPath", query.Config{Target: "p", Sorts: []query.Sort{{}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, query.ErrInvalidExpression)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Builder(t *testing.T) {
	cfg := query.Config{Target: "products"}
	cfg.Filter(query.Eq("category", query.Param("cat"))).
		SortBy("name", true).
		Restrict(10, 20).
		Parameter("cat", "chairs")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, 20, cfg.Offset)
	assert.Equal(t, []query.Sort{{Path: "name", Descending: true}}, cfg.Sorts)

	v, err := cfg.ResolveValue(cfg.Filters[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "chairs", v)

	clone := cfg.Clone()
	clone.Parameter("cat", "tables")
	v, _ = cfg.ParameterValue("cat")
	assert.Equal(t, "chairs", v)
}

func TestTemporalFunctions(t *testing.T) {
	assert.Equal(t, reflect.TypeFor[time.Time](), query.CurrentTimestamp().ResultType())
	assert.Equal(t, reflect.TypeFor[int](), query.Year("created_at").ResultType())
	assert.NoError(t, query.CurrentDate().Validate())
	assert.ErrorIs(t, query.Year("").Validate(), query.ErrInvalidExpression)
	assert.ErrorIs(t, query.TemporalFunction{Kind: "week"}.Validate(), query.ErrInvalidExpression)
	assert.ErrorIs(t, query.TemporalFunction{Kind: query.CurrentDateKind, Path: "x"}.Validate(), query.ErrInvalidExpression)

	f := query.Gt(query.Month("created_at"), 6)
	require.NoError(t, f.Validate())
	assert.Equal(t, "created_at", f.Operand())
	assert.Equal(t, "month(created_at) gt 6", f.String())
}

func TestParseFilter(t *testing.T) {
	f, err := query.ParseFilter("name:like:chair%")
	require.NoError(t, err)
	assert.Equal(t, query.Like("name", "chair%"), f)

	f, err = query.ParseFilter("year(created_at):gte:2020")
	require.NoError(t, err)
	require.NotNil(t, f.Function)
	assert.Equal(t, query.YearKind, f.Function.Kind)

	f, err = query.ParseFilter("id:in:1|2|3")
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "2", "3"}, f.Value)

	f, err = query.ParseFilter("deleted_at:null")
	require.NoError(t, err)
	assert.Equal(t, query.OpNull, f.Op)

	f, err = query.ParseFilter("category:eq:@cat")
	require.NoError(t, err)
	assert.Equal(t, query.Param("cat"), f.Value)

	for _, bad := range []string{"name", ":eq:1", "name:eq", "week(x):eq:1", "name:around:1"} {
		_, err := query.ParseFilter(bad)
		assert.ErrorIs(t, err, query.ErrInvalidExpression, bad)
	}
}

func TestParseSort(t *testing.T) {
	s, err := query.ParseSort("name:desc")
	require.NoError(t, err)
	assert.Equal(t, query.Sort{Path: "name", Descending: true}, s)

	s, err = query.ParseSort("name")
	require.NoError(t, err)
	assert.False(t, s.Descending)

	_, err = query.ParseSort(":desc")
	assert.Error(t, err)
	_, err = query.ParseSort("name:sideways")
	assert.Error(t, err)
}

func TestOperation_Validate(t *testing.T) {
	id := property.IdentifierOf[int64]("id")
	name := property.Of[string]("name")
	set, err := property.NewSet(id, name)
	require.NoError(t, err)

	box := property.NewBox(set)
	require.NoError(t, box.Put(name, "x"))

	err = query.Operation{Kind: query.Insert, Target: "products"}.Validate()
	assert.ErrorIs(t, err, query.ErrInvalidExpression)
	assert.ErrorContains(t, err, "missing operation PropertyBox value")

	err = query.Operation{Kind: query.Insert, Value: box}.Validate()
	assert.ErrorContains(t, err, "missing operation data target")

	assert.NoError(t, query.Operation{Kind: query.Insert, Target: "products", Value: box}.Validate())

	err = query.Operation{Kind: query.Delete, Target: "products", Value: box}.Validate()
	assert.ErrorContains(t, err, "missing identifier id")

	require.NoError(t, box.Put(id, int64(3)))
	assert.NoError(t, query.Operation{Kind: query.Update, Target: "products", Value: box}.Validate())

	err = query.Operation{Kind: "upsert", Target: "products", Value: box}.Validate()
	assert.ErrorIs(t, err, query.ErrInvalidExpression)
}
