package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// assets holds the rope and scene specs plus the plan scripts. Files under
// prefabs/ on disk shadow the embedded copies so hot reload sees edits.
//
//go:embed *.yaml scripts/*.tengo
var assets embed.FS

const (
	assetRoot  = "prefabs"
	scriptsDir = "scripts"
)

// Load reads a spec file by name; a leading "prefabs/" is accepted.
func Load(name string) ([]byte, error) {
	return readAsset(assetName(name))
}

// LoadScript reads a plan script. The name may carry any of the
// "prefabs/", "scripts/" prefixes; it always resolves under scripts/.
func LoadScript(name string) ([]byte, error) {
	rel := strings.TrimPrefix(assetName(name), scriptsDir+"/")
	return readAsset(path.Join(scriptsDir, rel))
}

func readAsset(name string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(assetRoot, filepath.FromSlash(name))); err == nil {
		return data, nil
	}
	return assets.ReadFile(name)
}

func assetName(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(name), assetRoot+"/")
}
