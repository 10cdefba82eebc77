// Package survey collects and persists free-text survey responses.
//
// A [Store] appends and lists [Response] values. Three backends exist:
//
//   - [FileStore]: the human-readable append-only log, one block per
//     response, guarded by an advisory file lock
//   - [SQLiteStore]: a local SQLite database
//   - [MongoStore]: a MongoDB collection for shared deployments
//
// [Open] picks a backend from a DSN. [Corpus] joins stored responses into
// the text the word cloud is built from, and [ComputeStats] summarises them.
package survey
