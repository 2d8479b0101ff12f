// Package testdb provides PostgreSQL helpers for integration tests.
//
// A database is taken from DATABASE_URL (or TASKR_TEST_DB_URL). When neither
// is set, a disposable postgres container is started once per test binary;
// if no container runtime is available the calling test is skipped.
//
// Tests normally run each case inside WithTx so that every change is rolled
// back:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		accounts := postgres.NewPostgresAccountStore(tx, nil)
//		...
//	})
package testdb
