// Package file provides a TOML file credential store.
//
// The pair is written to ~/.oversight/credentials.toml with 0600
// permissions. Writes replace the file atomically, and Watch reports
// changes made by other processes so a long-running session can reload.
package file
