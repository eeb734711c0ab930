// Package portfolio manages the records behind a personal portfolio site:
// artwork pieces and travel entries, each of which may reference a media
// blob kept in an external object store.
//
// The Service keeps a record and its blob in agreement across create, update
// and delete. Blob storage failures abort a create (a record must never point
// at a missing blob) but are tolerated on delete (an orphaned blob only costs
// storage). Deletes report what happened to the blob through DeleteResult.
//
// Travel writes additionally uphold a singleton rule: at most one travel entry
// is flagged as currently in progress. Setting the flag on one entry clears it,
// and completes the status, on every other entry before the write commits.
//
// Repositories (memory, Postgres) and blob stores (memory, filesystem, S3) are
// provided under subpackages. Public media URLs are built and parsed by the
// urlstrategy package, and photo capture metadata is read by the exif package.
package portfolio
