package models

import (
	"time"

	"datapath/core/schema"

	"gorm.io/gorm"
)

// Category groups products.
type Category struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"size:120" datapath:"seq=1" validate:"len(value) > 0"`
	TenantID string `gorm:"size:64;index"`
}

// TableName implements gorm's tabler.
func (Category) TableName() string { return "categories" }

// Product is a sellable item.
type Product struct {
	ID         int64     `gorm:"primaryKey"`
	SKU        string    `gorm:"column:sku;size:64;uniqueIndex" datapath:"seq=1" validate:"len(value) > 0"`
	Name       string    `gorm:"size:255" datapath:"seq=2"`
	Price      float64   `validate:"value >= 0"`
	Active     bool      `datapath:"bool=numeric"`
	CategoryID int64     `gorm:"index"`
	Revision   int       `datapath:"version"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
	TenantID   string    `gorm:"size:64;index"`
	// Notes are kept in memory only.
	Notes string `gorm:"-"`
}

// TableName implements gorm's tabler.
func (Product) TableName() string { return "products" }

// All returns one value of every model.
func All() []any {
	return []any{&Category{}, &Product{}}
}

// Register publishes the models in src as "categories" and "products".
func Register(src *schema.ModelSource) error {
	if err := src.Register("categories", Category{}.TableName(), Category{}); err != nil {
		return err
	}
	return src.Register("products", Product{}.TableName(), Product{})
}

// Migrate creates or updates the model tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
