// Package models defines the record shapes served by the songboard facade.
//
// Every record is produced by normalizing a raw catalog track once, in the services package,
// and lives for a single request/response cycle:
//   - [Song] : the flat song record with cover image URLs and artist/album identifiers
//   - [TrendingSong] : a [Song] with its 1-based rank in the popularity-sorted trending slice
//   - [Suggestion] : the reduced autocomplete shape (id, name, artist, medium cover)
//   - [ConnectionStatus] : the result of a catalog connectivity check
//
// Nullable upstream values (preview URL, cover images) are pointers so they encode as JSON null.
package models
