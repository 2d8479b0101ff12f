// Package service contains the application use cases for accounts and
// tasks. Services coordinate the list query engine, the account lifecycle
// rules in internal/domain and the persistence interfaces in internal/store.
// They never depend on a concrete database implementation.
package service
