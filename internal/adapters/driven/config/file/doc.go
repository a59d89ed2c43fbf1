// Package file provides the TOML-backed configuration store.
//
// Configuration lives in ~/.oversight/config.toml. Keys are addressed in
// dot notation ("api.base_url") and written back as nested tables:
//
//	[api]
//	base_url = "https://oversight.example.com/api/v1"
//	timeout = "10s"
//
//	[session]
//	store = "file"
package file
