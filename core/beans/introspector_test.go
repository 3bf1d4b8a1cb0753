package beans_test

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"datapath/core/beans"
	"datapath/core/property"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type Audit struct {
	CreatedAt time.Time
	CreatedBy string
}

type Address struct {
	City    string
	ZipCode string `datapath:"name=zip"`
}

type Customer struct {
	Audit
	ID       int64   `gorm:"primaryKey;column:id"`
	Name     string  `datapath:"seq=1" validate:"len(value) > 0"`
	Email    string  `gorm:"column:email_address"`
	Version  int     `datapath:"version"`
	Active   bool    `datapath:"bool=string"`
	Address  Address `datapath:"name=address"`
	Password string  `datapath:"-"`
	Legacy   string  `gorm:"-"`
	internal string
}

func TestIntrospect_Customer(t *testing.T) {
	set, err := beans.Introspect[Customer](beans.NewIntrospector(zap.NewNop()))
	require.NoError(t, err)

	names := slices.Collect(set.Adapter().Names())
	assert.Equal(t, "name", names[0], "sequenced properties come first")
	assert.ElementsMatch(t, []string{
		"name", "created_at", "created_by", "id", "email_address", "version", "active", "address", "city", "zip",
	}, names)

	paths := map[string]bool{}
	for p := range set.Adapter().Paths() {
		paths[p.FullName()] = true
	}
	assert.True(t, paths["address.city"])
	assert.True(t, paths["address.zip"])
	assert.False(t, paths["password"])

	ids := set.Identifiers()
	require.Len(t, ids, 1)
	assert.Equal(t, "id", ids[0].Name())
	assert.Equal(t, "version", set.Version().Name())

	active, err := set.Property("active")
	require.NoError(t, err)
	assert.IsType(t, property.StringBoolean{}, active.Converter())

	field, ok := active.Tag("field")
	assert.True(t, ok)
	assert.Equal(t, "Active", field)

	typed, err := property.Lookup[int64](set.Adapter(), "id")
	require.NoError(t, err)
	assert.Same(t, ids[0], typed)

	_, err = set.Property("password")
	assert.ErrorIs(t, err, property.ErrInvalidArgument)
}

func TestIntrospect_Cached(t *testing.T) {
	i := beans.NewIntrospector(nil)
	a, err := i.Introspect(reflect.TypeFor[*Customer]())
	require.NoError(t, err)
	b, err := beans.Introspect[Customer](i)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestIntrospect_Errors(t *testing.T) {
	_, err := beans.Default.Introspect(nil)
	assert.ErrorIs(t, err, property.ErrInvalidArgument)

	_, err = beans.Default.Introspect(reflect.TypeFor[int]())
	assert.ErrorIs(t, err, property.ErrInvalidArgument)

	type badSeq struct {
		A string `datapath:"seq=first"`
	}
	_, err = beans.Introspect[badSeq](beans.Default)
	assert.ErrorContains(t, err, "invalid sequence")

	type badExpr struct {
		A string `validate:"value >"`
	}
	_, err = beans.Introspect[badExpr](beans.Default)
	assert.Error(t, err)
}

type recordingProcessor struct {
	seen []string
}

func (r *recordingProcessor) Name() string { return "recording" }

func (r *recordingProcessor) Applies(f beans.Field) bool {
	return f.StructField.Type.Kind() == reflect.String
}

func (r *recordingProcessor) Process(b *beans.PropertyBuilder, f beans.Field) error {
	r.seen = append(r.seen, f.StructField.Name)
	b.Name = "s_" + f.StructField.Name
	return nil
}

func TestIntrospect_CustomChain(t *testing.T) {
	type pair struct {
		Left  string
		Count int
	}
	rec := &recordingProcessor{}
	set, err := beans.Introspect[pair](beans.NewIntrospector(nil, rec))
	require.NoError(t, err)
	assert.Equal(t, []string{"Left"}, rec.seen)
	assert.Equal(t, []string{"s_Left", ""}, slices.Collect(func(yield func(string) bool) {
		for p := range set.All() {
			if !yield(p.Name()) {
				return
			}
		}
	}))
}
