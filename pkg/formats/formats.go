// Package formats provides parsers for the mesh description files consumed by
// the terrain viewer and the height-map converter.
package formats

// Note: the OBJ subset (v, vt, vn, f) is implemented in obj.go
