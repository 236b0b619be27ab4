// Package assets provides access to embedded static files.
package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed landing.html favicon.ico
var embedFS embed.FS

// GetFileSystem returns an http.FileSystem over the embedded assets.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(embedFS, ".")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// ReadFile returns the content of an embedded file by name.
func ReadFile(name string) ([]byte, error) {
	return embedFS.ReadFile(name)
}
