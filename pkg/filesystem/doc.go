// Package filesystem provides types.FS implementations: a thin wrapper over
// the OS filesystem for production, and an afero adapter so tests can run
// every command against an in-memory filesystem.
package filesystem
