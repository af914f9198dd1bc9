// Package store provides record storage backends for csvexport.
//
// # Overview
//
// A Store keeps raw records per content type and implements export.Source,
// so the exporter can read from it directly. Records are returned ordered by
// creation time, then ID, optionally bounded by a creation time and a limit.
//
// # Backends
//
//   - SQLiteStore: persistent storage through database/sql, using either the
//     cgo driver github.com/mattn/go-sqlite3 ("sqlite3") or the pure Go
//     driver modernc.org/sqlite ("sqlite")
//   - MemoryStore: in-memory storage for tests and demos
//
// Use Open to build the backend named by config.StorageConfig.
//
// # Record encoding
//
// Fields are stored as a JSON object whose key order is the record's field
// order. DecodeRecord and EncodeFields convert between that form and
// export.Record with github.com/valyala/fastjson, which keeps object key
// order. DecodeDocuments reads the JSON arrays accepted by the import
// command.
//
// # Example
//
//	s, err := store.Open(cfg.Storage)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	records, err := s.Records(ctx, "pages", export.Query{Limit: 100})
package store
