package reconcile

import (
	"context"
	"time"

	"datapath/core/schema"
)

// Result is the reconciliation output for one schema name.
type Result struct {
	// Name is the schema name, or the table name for tables without schema.
	Name string `json:"name"`

	// Target is the table the schema is stored in.
	Target string `json:"target,omitempty"`

	// ModelPresent indicates a Go model is registered under Name.
	ModelPresent bool `json:"model_present"`

	// StoragePresent indicates a definition is stored under Name.
	StoragePresent bool `json:"storage_present"`

	// DatabasePresent indicates the target table exists.
	DatabasePresent bool `json:"database_present"`

	// Mismatch describes each disagreement, e.g. "price: model=float64 storage=int64".
	Mismatch []string `json:"mismatch"`
}

// Spec defines the sources to reconcile. Any source may be nil.
type Spec struct {
	Model    schema.Source
	Storage  schema.Source
	Database schema.Source

	// CacheTTL is the time-to-live of the loaded indices. Zero disables
	// caching.
	CacheTTL time.Duration
}

// ActionType is the type of a repair action.
type ActionType string

const (
	// ActionPublish stores the definition of a model that storage lacks.
	ActionPublish ActionType = "publish_storage"
	// ActionMigrate creates the missing table of a model.
	ActionMigrate ActionType = "migrate_db"
)

// Action is a planned repair.
type Action struct {
	Type   ActionType `json:"type"`
	Key    string     `json:"key"`
	Reason string     `json:"reason"`
}

// Plan holds reconciliation results and the repairs they call for.
type Plan struct {
	Results []Result `json:"results"`
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
}

// Summary provides aggregate counts of a plan.
type Summary struct {
	TotalItems      int `json:"total_items"`
	MissingModel    int `json:"missing_model"`
	MissingStorage  int `json:"missing_storage"`
	MissingDatabase int `json:"missing_database"`
	Mismatches      int `json:"mismatches"`
	PublishActions  int `json:"publish_actions"`
	MigrateActions  int `json:"migrate_actions"`
}

// Options controls ApplyPlan.
type Options struct {
	// DryRun prevents execution of any action.
	DryRun bool

	// Confirmed must be set for actions to run.
	Confirmed bool
}

// Mutator executes repair actions.
type Mutator interface {
	// Publish stores the definition of the named model.
	Publish(ctx context.Context, name string) error
	// Migrate creates the table of the named model.
	Migrate(ctx context.Context, name string) error
}
