// Package bolt provides a bbolt-backed credential store.
//
// The credential pair is kept as a single JSON value in the "session"
// bucket of ~/.oversight/session.bolt. bbolt holds an exclusive file lock
// while the database is open, so only one process can use the store at a
// time; open it for the duration of a command and close it on exit.
package bolt
