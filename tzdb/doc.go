// Package tzdb reads and writes the compiled zone database.
//
// A database is a directory tree where a zone name's "/"-separated segments
// map to nested path segments, each leaf holding one zone in a compact
// binary format. The package also compiles YAML zone source lists into a
// database, which is how tests and the CLI build fixtures.
package tzdb
