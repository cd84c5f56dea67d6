// Package files is the upload, hierarchy and access-controlled retrieval
// engine. It validates uploads against the owner's folder tree, persists
// content through a blob store before writing metadata, dispatches
// thumbnail jobs for images, and gates reads on ownership or the public
// flag.
//
// Storage backends are injected: a [Repository] for metadata, a
// [BlobStore] over pkg/storage for content and an optional [Dispatcher]
// for background jobs.
package files
