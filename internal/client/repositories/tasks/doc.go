// Package tasks provides the client-side persistence layer for task records.
//
// # Overview
//
// The package defines a Repository interface with the storage contract every
// backend honours, and two implementations:
//
//   - FlatRepository: the whole task list as one JSON blob under a single
//     kv key; every mutation rewrites the blob.
//   - SQLiteRepository: an indexed SQLite store with tasks, content,
//     categories and settings tables and secondary indexes.
//
// # Contract
//
// Put is an upsert keyed by task id (last write wins). It fails with
// common.ErrContentOwned, writing nothing, when a content id already belongs
// to another task. GetAll returns a fully
// materialized snapshot in no particular order. Delete cascades to the task's
// content and is a no-op for unknown ids. Init is idempotent.
//
// Errors are returned as-is; swallowing and logging them is the job of the
// storage boundary (internal/client/storage).
//
// Typical Usage
//
//	repo := tasks.NewSQLiteRepository(db)
//	_ = repo.Init(ctx)
//	_ = repo.Put(ctx, &task)
//	all, _ := repo.GetAll(ctx)
//	_ = repo.Delete(ctx, task.ID)
package tasks
