// Package filesmanager is a multi-tenant file storage service.
//
// Users register, obtain a session token and upload files, images and
// folders. Records form a per-user folder tree, are listed twenty per page
// and can be published for anonymous download. Image uploads schedule a
// background job that renders thumbnails.
//
// This package is the HTTP framework the service is built on: a thin layer
// over chi with handlers that return errors, a pluggable error renderer,
// health endpoints and graceful shutdown. The domain lives under internal/:
//
//   - internal/files: upload, listing, publishing and content access
//   - internal/users and internal/auth: accounts and session tokens
//   - internal/repository: Postgres and in-memory stores
//   - internal/tasks: background jobs
//
// The server is assembled in cmd/filesmanager from environment
// configuration.
package filesmanager
