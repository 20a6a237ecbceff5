package assets

import (
	"embed"
	"io/fs"
)

//go:embed external
var externalFS embed.FS

// Embedded returns the asset pack compiled into the binary, rooted like the
// on-disk resources/external directory.
func Embedded() fs.FS {
	sub, err := fs.Sub(externalFS, "external")
	if err != nil {
		// fs.Sub only fails on an invalid literal path.
		panic(err)
	}
	return sub
}

// DefaultStore reads from the disk root first and falls back to the embedded
// pack, so a partially populated root still resolves every shipped asset.
func DefaultStore(root string) Store {
	if root == "" {
		return FSStore{FS: Embedded()}
	}
	return Layered{DirStore(root), FSStore{FS: Embedded()}}
}
