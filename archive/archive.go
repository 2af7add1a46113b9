// Package archive bundles multiple inputs into one temporary zip so the
// delivery server only ever has a single resource to stream.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moyoez/qrdrop/tool"
)

// ShouldArchive reports whether the inputs need to be bundled: an explicit
// request, more than one path, or a directory.
func ShouldArchive(paths []string, zipFlag bool) (bool, error) {
	if zipFlag || len(paths) > 1 {
		return true, nil
	}
	info, err := os.Stat(paths[0])
	if err != nil {
		return false, fmt.Errorf("cannot read %s: %w", paths[0], err)
	}
	return info.IsDir(), nil
}

// Build packages the given files and directories into a zip archive in the
// temp directory, outside any served tree. Directory contents keep their
// relative structure under the directory's own name; plain files are stored
// under their base name. Build is synchronous: it either returns a complete
// archive or removes the partial file and reports the error.
func Build(paths []string) (string, error) {
	out, err := os.CreateTemp("", "qrdrop-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary archive: %w", err)
	}
	archivePath := out.Name()

	if err := writeArchive(out, paths); err != nil {
		out.Close()
		os.Remove(archivePath)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(archivePath)
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	return archivePath, nil
}

func writeArchive(out *os.File, paths []string) error {
	zw := zip.NewWriter(out)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			zw.Close()
			return fmt.Errorf("cannot read %s: %w", p, err)
		}
		if info.IsDir() {
			err = addDirectory(zw, p)
		} else {
			err = addFile(zw, p, filepath.Base(p))
		}
		if err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// addDirectory walks dir and stores every entry relative to dir's parent, so
// the archive unpacks into a folder named after the directory itself.
func addDirectory(zw *zip.Writer, dir string) error {
	parent := filepath.Dir(filepath.Clean(dir))
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		return addFile(zw, path, name)
	})
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return nil
}

// Remove deletes the temporary archive. Idempotent: a file already removed
// externally is not an error, so shutdown never fails here.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err == nil {
		tool.DefaultLogger.Debugf("Removed temporary archive %s", path)
	}
	return nil
}
