package planet

import (
	"os"
	"path/filepath"
)

func writeJSONFixture(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}
