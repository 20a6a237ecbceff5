package prefabs

import (
	"embed"
	"strings"

	"github.com/milk9111/doodlai/assets"
)

//go:embed *.yaml
var specsFS embed.FS

// OverrideDir is searched before the specs built into the binary, so a scene
// can be edited without rebuilding.
var OverrideDir = "prefabs"

// Store serves spec files from OverrideDir, then from the embedded copies.
func Store() assets.Store {
	return assets.Layered{assets.DirStore(OverrideDir), assets.FSStore{FS: specsFS}}
}

// Load reads a spec file by name. A leading "prefabs/" is ignored.
func Load(name string) ([]byte, error) {
	return Store().ReadBytes(strings.TrimPrefix(name, "prefabs/"))
}
