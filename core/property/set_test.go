package property_test

import (
	"reflect"
	"testing"

	"datapath/core/property"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfig_Build(t *testing.T) {
	id := property.IdentifierOf[int64]("id")
	name := property.Of[string]("name")

	t.Run("Deduplicates", func(t *testing.T) {
		set, err := property.NewSet(id, name, id)
		require.NoError(t, err)
		assert.Equal(t, 2, set.Len())
		assert.Equal(t, 0, set.IndexOf(id))
		assert.Equal(t, 1, set.IndexOf(name))
		assert.Equal(t, []*property.Property{id}, set.Identifiers())
	})

	t.Run("ExplicitIdentifiers", func(t *testing.T) {
		set, err := property.SetConfig{
			Properties:  []*property.Property{id, name},
			Identifiers: []*property.Property{name},
		}.Build()
		require.NoError(t, err)
		assert.Equal(t, []*property.Property{name}, set.Identifiers())
	})

	t.Run("ForeignIdentifier", func(t *testing.T) {
		_, err := property.SetConfig{
			Properties:  []*property.Property{name},
			Identifiers: []*property.Property{id},
		}.Build()
		assert.ErrorIs(t, err, property.ErrInvalidArgument)
	})

	t.Run("NilMember", func(t *testing.T) {
		_, err := property.NewSet(id, nil)
		assert.ErrorIs(t, err, property.ErrInvalidArgument)
	})

	t.Run("Version", func(t *testing.T) {
		v, err := property.Config{Name: "version", Type: reflect.TypeFor[int](), Version: true}.Build()
		require.NoError(t, err)
		set, err := property.NewSet(id, v)
		require.NoError(t, err)
		assert.Same(t, v, set.Version())
	})
}

func TestConfig_Build(t *testing.T) {
	_, err := property.Config{Name: "untyped"}.Build()
	assert.ErrorIs(t, err, property.ErrInvalidArgument)

	seq := 3
	p, err := property.Config{
		Name:     "code",
		Type:     reflect.TypeFor[string](),
		Sequence: &seq,
		Tags:     map[string]string{"column": "item_code"},
	}.Build()
	require.NoError(t, err)
	got, ok := p.Sequence()
	assert.True(t, ok)
	assert.Equal(t, 3, got)
	column, ok := p.Tag("column")
	assert.True(t, ok)
	assert.Equal(t, "item_code", column)
	assert.Equal(t, "code[string]", p.String())
}

func TestPath(t *testing.T) {
	p := property.ParsePath(" customer. address .city")
	assert.Equal(t, "customer.address.city", p.FullName())
	assert.Equal(t, "city", p.Name())
	assert.Equal(t, []string{"customer", "address", "city"}, p.Segments())

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "customer.address", parent.FullName())

	assert.True(t, property.ParsePath("").IsZero())
	assert.True(t, property.ParsePath("a.b").Equal(property.NewPath("a", nil).Child("b", reflect.TypeFor[int]())))
	assert.False(t, property.PathOf[int]("a").Equal(property.PathOf[string]("a")))
}
