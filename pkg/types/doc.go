// Package types defines the core types shared across fman: the filesystem
// abstraction, the Command contract, and the outcome/result model that
// records what a mutating operation did to each path it touched.
package types
