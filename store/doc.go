// Package store provides record access to a single DynamoDB table.
//
// A record is a flat map of scalar fields stored under a caller-supplied
// primary key. The package covers the four round trips a client of such a
// table needs, plus update, delete and filtered scans:
//
//   - [Connect] resolves region and credentials from the environment
//   - [Store.Put] and [Store.PutRecord] upsert a record
//   - [Store.Get] reads a record, reporting absence as found == false
//   - [Store.List] scans the whole table, following continuation keys
//   - [Store.ScanPage] reads one scan page and exposes its continuation key
//
// # Configuration
//
// Use [DefaultConfig] for the characters table (key "character_id").
// Increase ScanSegments to scan large tables in parallel:
//
//	cfg := store.DefaultConfig()
//	cfg.ScanSegments = 8
//	s, err := store.Connect(ctx, cfg)
//
// # Errors
//
// Every failed round trip is an [*Error] with a [Kind]:
//
//   - [KindMissingCredentials] - no credentials resolved ([ErrMissingCredentials])
//   - [KindTableNotFound] - the table does not exist ([ErrTableNotFound])
//   - [KindGeneric] - anything else the service or transport reported
//
// Use [KindOf] or errors.Is with the sentinels; the error text is not
// part of the contract.
package store
