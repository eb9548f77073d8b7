// Package registryfile reads the definition files that list views and sinks.
// Files ending in .json are decoded as JSON; everything else is read as YAML.
package registryfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// Load decodes the file at path into dst. kind names the file in errors
// ("views", "sinks").
func Load(path, kind string, dst any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%s file path is empty", kind)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = sonic.ConfigStd.Unmarshal(raw, dst)
	} else {
		err = yaml.Unmarshal(raw, dst)
	}
	if err != nil {
		return fmt.Errorf("decode %s file %s: %w", kind, filepath.Base(path), err)
	}
	return nil
}
