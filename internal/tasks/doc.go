// Package tasks holds the background jobs run by the job manager: thumbnail
// rendering for uploaded images and the periodic sweep of abandoned upload
// temp files.
package tasks
