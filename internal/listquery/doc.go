// Package listquery turns raw list query parameters into a sanitized,
// owner-scoped description of a paginated read.
//
// The package is pure: it performs no I/O. A Resource declares which sort keys,
// search field and equality filters a list endpoint accepts; Build resolves
// client input against that declaration and returns a Query that a store can
// translate into SQL without ever interpolating client-supplied text. NewPage
// assembles the paginated response once the store has produced the rows and
// the total count.
package listquery
