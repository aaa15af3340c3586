package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocumentExt is appended by SaveAs when a file name lacks it.
const DocumentExt = ".xml"

func withDocumentExt(path string) string {
	if strings.HasSuffix(strings.ToLower(path), DocumentExt) {
		return path
	}
	return path + DocumentExt
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory, so readers never see a half-written document.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
