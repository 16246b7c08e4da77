// Package store persists daybook records in a remote Postgres-backed
// REST service.
//
// Records are keyed by an owning identity plus a record id and indexed by
// date where applicable. The Service interface is what the application
// programs against; Client implements it over PostgREST-style row endpoints,
// building request bodies with sjson and decoding responses with gjson.
//
// Conflict resolution across devices is out of scope: writes are
// last-write-wins upserts.
package store
