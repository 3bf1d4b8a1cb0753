package query

import "datapath/core/property"

// OperationKind is the kind of a CRUD operation.
type OperationKind string

const (
	Insert OperationKind = "insert"
	Update OperationKind = "update"
	Save   OperationKind = "save"
	Delete OperationKind = "delete"
)

// Operation is a write operation on one data target with a box value.
type Operation struct {
	Kind   OperationKind
	Target string
	Value  *property.Box
}

// OperationResult reports the outcome of an executed operation.
type OperationResult struct {
	Kind     OperationKind `json:"kind"`
	Affected int64         `json:"affected"`
	// Keys holds the identifier values of inserted rows, keyed by property name.
	Keys map[string]any `json:"keys,omitempty"`
}

// Validate checks that the operation can be executed. Update and delete need a
// value for every identifier property.
func (o Operation) Validate() error {
	switch o.Kind {
	case Insert, Update, Save, Delete:
	default:
		return invalid("unknown operation kind %q", o.Kind)
	}
	if o.Target == "" {
		return invalid("missing operation data target")
	}
	if o.Value == nil {
		return invalid("missing operation PropertyBox value")
	}
	if o.Kind == Update || o.Kind == Delete {
		ids := o.Value.Set().Identifiers()
		if len(ids) == 0 {
			return invalid("%s on %s requires identifier properties", o.Kind, o.Target)
		}
		for _, id := range ids {
			if v, ok := o.Value.Value(id); !ok || v == nil {
				return invalid("%s on %s: missing identifier %s", o.Kind, o.Target, id.Name())
			}
		}
	}
	return nil
}
