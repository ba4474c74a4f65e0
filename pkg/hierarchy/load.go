package hierarchy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/axlocator/pkg/core"
	"github.com/devicelab-dev/axlocator/pkg/logger"
)

// Load reads a snapshot file. The format follows the extension (.xml, .yaml,
// .yml, .json); other files are sniffed for a leading '<'.
func Load(path string) (*Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrHierarchyUnreadable.WithCause(err).WithDetails(map[string]interface{}{"path": path})
	}

	root, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, core.ErrHierarchyUnreadable.WithCause(err).WithDetails(map[string]interface{}{"path": path})
	}
	logger.Debug("loaded hierarchy %s (root %s, %s)", path, root.ID(), root.Role)
	return root, nil
}

// Parse decodes a snapshot. ext selects the format like Load; an empty ext sniffs.
func Parse(data []byte, ext string) (*Element, error) {
	switch strings.ToLower(ext) {
	case ".xml":
		return ParseXML(data)
	case ".yaml", ".yml", ".json":
		return ParseYAML(data)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")) {
		return ParseXML(data)
	}
	return ParseYAML(data)
}
