// Package repository is the Postgres side of the service catalog.
//
// It builds the SQL for listing, searching and ownership-guarded writes on
// the services table and runs it on the pgx pool, keeping SQL out of the
// service layer.
package repository
