// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. List reads take a listquery.Query, which
// implementations translate into their own query language.
package store
