// Package mocks provides hand-written test doubles shared across packages.
//
// The store doubles are working in-memory implementations: they honour
// ownership, the status compare-and-set and the filters, search, ordering
// and paging of a listquery.Query, so services and handlers can be
// exercised end to end without a database. Every method can be overridden
// through its Fn field:
//
//	tasks := mocks.NewMockTaskStore()
//	tasks.CountFn = func(ctx context.Context, q listquery.Query) (int, error) {
//		return 0, errors.New("connection refused")
//	}
package mocks
