// Package file persists labelkit configuration as a TOML file.
//
// The file lives at ~/.labelkit/config.toml unless another directory is
// given. Keys are addressed in dot notation ("server.url") and written
// as nested tables:
//
//	[server]
//	url = "https://annotate.example.com/v1"
//	token = "..."
//	timeout = 30
//
// The file holds the API token, so the directory is created 0700 and
// the file written 0600.
package file
