// Package db opens and manages the PostgreSQL connection pool that backs
// file metadata, user accounts and the River job tables.
//
// [Connect] retries with linear backoff so the service survives a database
// that is still starting. [Migrate] applies embedded goose migrations
// through a database/sql bridge over the same pool. [Healthcheck] and
// [Shutdown] plug into the readiness probe and the shutdown hooks.
package db
