// Package testutil provides rollback-scoped database fixtures for tests.
//
// A typical test provisions a migrated database once and opens a session per test:
//
//	tdb := testutil.NewDatabase(t)
//	tx := testutil.Session(t, tdb.DB)
//	repo := database.NewGormTeacherRepository(tx)
//
// Everything written through tx is rolled back when the test finishes.
package testutil
