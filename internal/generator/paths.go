package generator

import (
	"path"
	"strings"
)

// outputPath maps a page identifier to its document name. The home page is
// always index.html.
func outputPath(pageID, homeID string) string {
	id := strings.Trim(strings.TrimSpace(pageID), "/")
	if id == "" || id == homeID {
		return "index.html"
	}
	if strings.HasSuffix(id, ".html") {
		return path.Clean(id)
	}
	return path.Clean(id + ".html")
}

func joinOutputPath(baseDir, rel string) string {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return rel
	}
	return path.Join(baseDir, rel)
}
