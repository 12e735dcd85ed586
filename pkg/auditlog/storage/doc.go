// Package storage provides audit log storage backends.
//
// SQLiteStorage is the durable backend for production use; MemoryStorage
// backs tests and the "memory" backend in development.
package storage
