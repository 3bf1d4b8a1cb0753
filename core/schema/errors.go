package schema

import "errors"

// ErrSchemaNotFound is returned when no source knows a schema name.
var ErrSchemaNotFound = errors.New("schema not found")
