// Package store loads and saves the task list as a plain line file and
// writes YAML/JSON snapshots of it.
package store
