// Package postgres provides PostgreSQL implementations of the persistence
// interfaces defined in internal/store, together with the goose migrations
// that create their schema.
//
// List reads are compiled from a listquery.Query into parameterized SQL.
// Only fields declared in a table's column map can appear in the generated
// ORDER BY or WHERE clauses; every value is passed as a bind argument.
package postgres
