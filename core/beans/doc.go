// Package beans introspects Go structs into property sets.
//
// Every exported field becomes a property; nested structs become parent
// properties whose fields are addressed as "parent.child". Embedded structs are
// flattened. Field metadata is applied by an explicit, ordered list of
// PostProcessors, each declaring whether it applies to a field:
//
//	type Product struct {
//	    ID      int64   `gorm:"primaryKey;column:id"`
//	    Code    string  `datapath:"seq=1" validate:"len(value) > 0"`
//	    Price   float64 `datapath:"name=unit_price"`
//	    Version int     `datapath:"version"`
//	    Secret  string  `datapath:"-"`
//	}
//
//	set, err := beans.Introspect[Product](beans.Default)
//	box, err := set.ToBox(&product)
//
// Recognized datapath tag options: "-" (ignore), "name=<column>", "id",
// "version", "seq=<n>", "bool=numeric|string". The gorm "column" and
// "primaryKey" options are honored as well, so gorm models introspect without
// extra tags.
package beans
