// Package queue persists transcription jobs in SQLite and exposes helpers
// for driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, heartbeat tracking, stuck-job recovery, and status transitions
// that mirror the public workflow enum. Jobs capture video metadata,
// chunking parameters, output paths, and progress so stages can coordinate
// without additional state; transcribed segments are persisted per chunk so
// an interrupted job resumes from the next chunk instead of starting over.
//
// The database is treated as transient storage for in-flight jobs rather
// than a long-term archive. Schema changes bump the version in schema.go;
// users clear the database to adopt the new schema.
package queue
