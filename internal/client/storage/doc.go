// Package storage is the durable key-value store of the client. Keys and
// values are strings; the session manager keeps the credential under
// KeyToken and the JSON profile under KeyUser.
//
// Two implementations share the Repository contract:
//
//   - SQLiteRepository: a single-table SQLite database (modernc.org/sqlite)
//     created by the embedded goose migrations, see Open.
//   - MemoryRepository: a mutex-guarded map, for tests and throwaway runs.
//
// SetMany and DeleteMany are atomic: either every key is written (removed)
// or none is. Get on an absent key returns ("", false, nil).
package storage
