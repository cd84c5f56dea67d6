// Package repository persists users and file records.
//
// Postgres is the production store; its schema ships as embedded goose
// migrations applied by Migrate. MemoryFiles and MemoryUsers implement the
// same contracts in process for tests and the memory metadata driver.
package repository
