// Package utils provides loose value conversion helpers shared by the property
// value converters and the datastore row mapping. Database drivers hand back
// integers, byte slices and strings for the same logical column depending on
// the dialect, so conversions accept any of them.
package utils
