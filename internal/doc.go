// Package internal implements the HTTP application shell behind the root
// filesmanager package: a chi router adapter, the request Context, the
// HTTPError type and the signal-driven run loop with startup and shutdown
// hooks.
package internal
