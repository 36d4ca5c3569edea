// Package extraction unpacks bulk-import archives of detection output.
package extraction

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
)

// shouldIgnoreFile reports system and hidden files that archivers add.
func shouldIgnoreFile(name string) bool {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "._") {
		return true
	}
	if strings.EqualFold(base, "thumbs.db") {
		return true
	}
	return strings.HasPrefix(name, "__MACOSX/")
}

// IsImportDocument reports whether name is a JSON detection document.
func IsImportDocument(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json") && !shouldIgnoreFile(name)
}

// ExtractArchive extracts the JSON documents of a ZIP, TAR or other supported
// archive into a temporary directory. The caller removes destDir. Files are
// returned sorted by their path inside the archive.
func ExtractArchive(ctx context.Context, archivePath string) (files []string, destDir string, err error) {
	destDir, err = os.MkdirTemp("", "import-*")
	if err != nil {
		return nil, "", errors.Wrap(err, "could not create extraction directory")
	}

	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		os.RemoveAll(destDir)
		return nil, "", errors.Wrapf(err, "could not open archive %s", archivePath)
	}

	err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !IsImportDocument(name) {
			return nil
		}

		destPath := filepath.Join(destDir, filepath.FromSlash(name))
		if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return errors.Errorf("archive entry %q escapes the extraction directory", name)
		}
		if err := copyEntry(fsys, name, destPath); err != nil {
			return err
		}
		files = append(files, destPath)
		return nil
	})
	if err != nil {
		os.RemoveAll(destDir)
		return nil, "", errors.Wrap(err, "archive extraction failed")
	}

	sort.Strings(files)
	return files, destDir, nil
}

func copyEntry(fsys fs.FS, name, destPath string) error {
	reader, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, reader)
	return err
}
