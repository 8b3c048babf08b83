package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var PrefabsFS embed.FS

// Load returns the named prefab, preferring an on-disk copy under prefabs/
// so specs can be tuned without rebuilding.
func Load(name string) ([]byte, error) {
	clean := CleanName(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := CleanName(name)
	info, err := os.Stat(diskPrefabPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// CleanName normalises a prefab reference to the name Load and Watcher use.
func CleanName(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	if !isSpecFile(s) {
		s += ".yaml"
	}
	return s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
