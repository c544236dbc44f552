// Package source defines the port to the external raw-file storage
// collaborator.
//
// The pipeline never writes files; it resolves metadata during ingestion
// and fetches content inside the extraction worker. Two implementations are
// provided:
//
//   - source/local: a directory-backed store for development and demos,
//     with document IDs derived from relative file paths.
//   - source/mock: test doubles with injectable behavior.
package source
