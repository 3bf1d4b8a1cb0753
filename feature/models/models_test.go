package models_test

import (
	"context"
	"testing"

	"datapath/core/database"
	"datapath/core/datastore"
	"datapath/core/schema"
	"datapath/feature/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	src := schema.NewModelSource(nil)
	require.NoError(t, models.Register(src))

	products, err := src.Load(context.Background(), "products")
	require.NoError(t, err)

	def := products.Definition()
	require.NotEmpty(t, def.Properties)
	assert.Equal(t, "sku", def.Properties[0].Name)
	assert.Equal(t, "name", def.Properties[1].Name)

	byName := map[string]schema.PropertyDefinition{}
	for _, p := range def.Properties {
		byName[p.Name] = p
	}
	assert.True(t, byName["id"].Identifier)
	assert.True(t, byName["revision"].Version)
	assert.Equal(t, "time", byName["created_at"].Type)
	assert.Equal(t, "value >= 0", byName["price"].Validate)
	assert.NotContains(t, byName, "notes")

	active, err := products.Adapter.PropertyByName("active")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.NotNil(t, active.Converter())
}

func TestMigrate(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	// Model properties line up with the migrated columns.
	src := schema.NewModelSource(nil)
	require.NoError(t, models.Register(src))
	products, err := src.Load(context.Background(), "products")
	require.NoError(t, err)

	columns, err := database.GetTableColumns(db, "products")
	require.NoError(t, err)
	stored := map[string]bool{}
	for _, c := range columns {
		stored[c.Field] = true
	}
	for p := range products.Set.All() {
		assert.True(t, stored[datastore.Column(p)], datastore.Column(p))
	}
}
