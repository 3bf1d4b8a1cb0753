package datastore_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"datapath/core/database"
	"datapath/core/datastore"
	"datapath/core/property"
	"datapath/core/query"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type fixture struct {
	set       *property.Set
	id        *property.Property
	name      *property.Property
	price     *property.Property
	active    *property.Property
	createdAt *property.Property
	tenant    *property.Property
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	build := func(cfg property.Config) *property.Property {
		p, err := cfg.Build()
		require.NoError(t, err)
		return p
	}
	f := fixture{
		id:        build(property.Config{Name: "id", Type: reflect.TypeFor[int64](), Identifier: true}),
		name:      build(property.Config{Name: "name", Type: reflect.TypeFor[string]()}),
		price:     build(property.Config{Name: "price", Type: reflect.TypeFor[float64]()}),
		active:    build(property.Config{Name: "active", Type: reflect.TypeFor[bool](), Converter: property.NumericBoolean{}}),
		createdAt: build(property.Config{Name: "createdAt", Type: reflect.TypeFor[time.Time](), Tags: map[string]string{"column": "created_at"}}),
		tenant:    build(property.Config{Name: "tenant", Type: reflect.TypeFor[string](), Tags: map[string]string{"column": "tenant_id"}}),
	}
	set, err := property.NewSet(f.id, f.name, f.price, f.active, f.createdAt, f.tenant)
	require.NoError(t, err)
	f.set = set
	return f
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE products (
		id INTEGER PRIMARY KEY,
		name TEXT,
		price REAL,
		active INTEGER,
		created_at DATETIME,
		tenant_id TEXT
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO products (id, name, price, active, created_at, tenant_id) VALUES
		(1, 'Chair', 49.5, 1, '2023-05-10 08:00:00', 'acme'),
		(2, 'Table', 120.0, 0, '2024-02-01 12:00:00', 'acme'),
		(3, 'Lamp', 19.9, 1, '2024-07-20 18:30:00', 'acme'),
		(4, 'Sofa', 700.0, 1, '2024-01-05 09:00:00', 'globex')`).Error)
	return db
}

func names(t *testing.T, f fixture, boxes []*property.Box) []string {
	t.Helper()
	out := make([]string, 0, len(boxes))
	for _, b := range boxes {
		v, ok := b.Value(f.name)
		require.True(t, ok)
		out = append(out, v.(string))
	}
	return out
}

func TestNewGorm(t *testing.T) {
	_, err := datastore.NewGorm(datastore.GormConfig{})
	assert.ErrorIs(t, err, property.ErrInvalidArgument)
}

func TestGormQuery(t *testing.T) {
	f := newFixture(t)
	store, err := datastore.NewGorm(datastore.GormConfig{DB: setupSQLite(t)})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("All Rows Sorted", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.SortBy("price", true)
		boxes, err := store.Query(ctx, f.set, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sofa", "Table", "Chair", "Lamp"}, names(t, f, boxes))
	})

	t.Run("Values Converted From Model", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.Filter(query.Eq("id", 2))
		boxes, err := store.Query(ctx, f.set, cfg)
		require.NoError(t, err)
		require.Len(t, boxes, 1)

		active, _ := boxes[0].Value(f.active)
		assert.Equal(t, false, active)
		price, _ := boxes[0].Value(f.price)
		assert.Equal(t, 120.0, price)
		created, _ := boxes[0].Value(f.createdAt)
		require.IsType(t, time.Time{}, created)
		assert.Equal(t, 2024, created.(time.Time).Year())
	})

	t.Run("Converter Applied To Filter Value", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.Filter(query.Eq("active", true)).SortBy("id", false)
		boxes, err := store.Query(ctx, f.set, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Chair", "Lamp", "Sofa"}, names(t, f, boxes))
	})

	t.Run("Temporal Extraction", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.Filter(query.Eq(query.Year("createdAt"), 2024), query.Gte(query.Month("createdAt"), 2)).SortBy("id", false)
		boxes, err := store.Query(ctx, f.set, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Table", "Lamp"}, names(t, f, boxes))
	})

	t.Run("In Like And Parameters", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.Filter(query.In("id", 1, 3, 4), query.Like("name", "%a%"), query.Lt("price", query.Param("max")))
		cfg.Parameter("max", "100")
		cfg.SortBy("name", false)
		boxes, err := store.Query(ctx, f.set, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Chair", "Lamp"}, names(t, f, boxes))
	})

	t.Run("Limit Offset", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.SortBy("id", false).Restrict(2, 1)
		boxes, err := store.Query(ctx, f.set, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Table", "Lamp"}, names(t, f, boxes))

		n, err := store.Count(ctx, f.set, cfg)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	t.Run("Distinct Count Matches Rows", func(t *testing.T) {
		activeOnly, err := property.NewSet(f.active)
		require.NoError(t, err)
		cfg := query.Config{Target: "products", Distinct: true}

		boxes, err := store.Query(ctx, activeOnly, cfg)
		require.NoError(t, err)
		assert.Len(t, boxes, 2)

		n, err := store.Count(ctx, activeOnly, cfg)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		cfg.Filter(query.Eq("active", true))
		n, err = store.Count(ctx, activeOnly, cfg)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		cfg = query.Config{Target: "products"}
		n, err = store.Count(ctx, activeOnly, cfg)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	t.Run("Invalid Filter Values", func(t *testing.T) {
		for _, value := range []any{"abc", "12abc", 1.9} {
			cfg := query.Config{Target: "products"}
			cfg.Filter(query.Eq("id", value))
			_, err := store.Query(ctx, f.set, cfg)
			assert.ErrorIs(t, err, property.ErrTypeMismatch, "value %v", value)
		}
	})

	t.Run("Unknown Path", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.Filter(query.Eq("missing", 1))
		_, err := store.Query(ctx, f.set, cfg)
		assert.ErrorIs(t, err, query.ErrInvalidExpression)
	})

	t.Run("Missing Parameter", func(t *testing.T) {
		cfg := query.Config{Target: "products"}
		cfg.Filter(query.Eq("id", query.Param("id")))
		_, err := store.Query(ctx, f.set, cfg)
		assert.ErrorIs(t, err, query.ErrInvalidExpression)
	})
}

func TestGormTenant(t *testing.T) {
	f := newFixture(t)
	store, err := datastore.NewGorm(datastore.GormConfig{DB: setupSQLite(t), TenantColumn: "tenant_id"})
	require.NoError(t, err)
	ctx := context.Background()

	globex := store.ForTenant("globex")
	assert.Equal(t, "globex", globex.TenantID())
	assert.Empty(t, store.TenantID())

	boxes, err := globex.Query(ctx, f.set, query.Config{Target: "products"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofa"}, names(t, f, boxes))

	n, err := store.Count(ctx, f.set, query.Config{Target: "products"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	// Inserted rows are stamped with the bound tenant.
	box := property.NewBox(f.set)
	require.NoError(t, box.Put(f.id, int64(10)))
	require.NoError(t, box.Put(f.name, "Desk"))
	res, err := globex.Execute(ctx, query.Operation{Kind: query.Insert, Target: "products", Value: box})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Affected)
	assert.Equal(t, int64(10), res.Keys["id"])

	cfg := query.Config{Target: "products"}
	cfg.Filter(query.Eq("tenant", "globex"))
	n, err = store.Count(ctx, f.set, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Deleting another tenant's row affects nothing.
	other := property.NewBox(f.set)
	require.NoError(t, other.Put(f.id, int64(1)))
	res, err = globex.Execute(ctx, query.Operation{Kind: query.Delete, Target: "products", Value: other})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Affected)
}

func TestGormExecute(t *testing.T) {
	f := newFixture(t)
	store, err := datastore.NewGorm(datastore.GormConfig{DB: setupSQLite(t)})
	require.NoError(t, err)
	ctx := context.Background()

	byID := func(id int64) *property.Box {
		cfg := query.Config{Target: "products"}
		cfg.Filter(query.Eq("id", id))
		boxes, err := store.Query(ctx, f.set, cfg)
		require.NoError(t, err)
		if len(boxes) == 0 {
			return nil
		}
		return boxes[0]
	}

	t.Run("Update", func(t *testing.T) {
		box := property.NewBox(f.set)
		require.NoError(t, box.Put(f.id, int64(2)))
		require.NoError(t, box.Put(f.price, 99.0))
		require.NoError(t, box.Put(f.active, true))

		res, err := store.Execute(ctx, query.Operation{Kind: query.Update, Target: "products", Value: box})
		require.NoError(t, err)
		assert.Equal(t, query.Update, res.Kind)
		assert.Equal(t, int64(1), res.Affected)

		got := byID(2)
		require.NotNil(t, got)
		price, _ := got.Value(f.price)
		active, _ := got.Value(f.active)
		assert.Equal(t, 99.0, price)
		assert.Equal(t, true, active)
	})

	t.Run("Save Inserts Then Updates", func(t *testing.T) {
		box := property.NewBox(f.set)
		require.NoError(t, box.Put(f.id, int64(20)))
		require.NoError(t, box.Put(f.name, "Shelf"))

		res, err := store.Execute(ctx, query.Operation{Kind: query.Save, Target: "products", Value: box})
		require.NoError(t, err)
		assert.Equal(t, query.Insert, res.Kind)

		require.NoError(t, box.Put(f.name, "Bookshelf"))
		res, err = store.Execute(ctx, query.Operation{Kind: query.Save, Target: "products", Value: box})
		require.NoError(t, err)
		assert.Equal(t, query.Update, res.Kind)

		name, _ := byID(20).Value(f.name)
		assert.Equal(t, "Bookshelf", name)
	})

	t.Run("Delete", func(t *testing.T) {
		box := property.NewBox(f.set)
		require.NoError(t, box.Put(f.id, int64(3)))
		res, err := store.Execute(ctx, query.Operation{Kind: query.Delete, Target: "products", Value: box})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Affected)
		assert.Nil(t, byID(3))
	})

	t.Run("Invalid Operations", func(t *testing.T) {
		_, err := store.Execute(ctx, query.Operation{Kind: query.Insert, Value: property.NewBox(f.set)})
		assert.ErrorIs(t, err, query.ErrInvalidExpression)
		assert.ErrorContains(t, err, "missing operation data target")

		_, err = store.Execute(ctx, query.Operation{Kind: query.Insert, Target: "products"})
		assert.ErrorContains(t, err, "missing operation PropertyBox value")

		_, err = store.Execute(ctx, query.Operation{Kind: query.Delete, Target: "products", Value: property.NewBox(f.set)})
		assert.ErrorIs(t, err, query.ErrInvalidExpression)
	})
}

func TestGormMySQLDialect(t *testing.T) {
	f := newFixture(t)
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	store, err := datastore.NewGorm(datastore.GormConfig{DB: db, TenantColumn: "tenant_id"})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "name", "price", "active", "created_at", "tenant_id"}).
		AddRow(int64(7), "Chair", 10.5, int64(1), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "acme")
	mock.ExpectQuery("SELECT `id`,`name`,`price`,`active`,`created_at`,`tenant_id` FROM `products` WHERE YEAR\\(`created_at`\\) > \\? AND `tenant_id` = \\? ORDER BY `name` DESC LIMIT \\?").
		WithArgs(int64(2023), "acme", 5).
		WillReturnRows(rows)

	cfg := query.Config{Target: "products"}
	cfg.Filter(query.Gt(query.Year("createdAt"), 2023)).SortBy("name", true).Restrict(5, 0)
	boxes, err := store.ForTenant("acme").Query(context.Background(), f.set, cfg)
	require.NoError(t, err)
	require.Len(t, boxes, 1)

	active, _ := boxes[0].Value(f.active)
	assert.Equal(t, true, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}
