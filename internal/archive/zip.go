package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// writeZip compresses the contents of dir into outputPath. Member names are
// relative to dir so extraction yields the plugin layout with no wrapper
// directory. A partially written archive is removed on failure.
func writeZip(dir, outputPath string) (members int, err error) {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(outputPath)
		}
	}()
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		relPath, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		if relPath == "." {
			return nil
		}
		zipPath := filepath.ToSlash(relPath)

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		header, headerErr := zip.FileInfoHeader(info)
		if headerErr != nil {
			return fmt.Errorf("header for %s: %w", zipPath, headerErr)
		}

		if d.IsDir() {
			header.Name = zipPath + "/"
			if _, err := zipWriter.CreateHeader(header); err != nil {
				return fmt.Errorf("directory entry %s: %w", zipPath, err)
			}
			return nil
		}

		header.Name = zipPath
		header.Method = zip.Deflate
		w, createErr := zipWriter.CreateHeader(header)
		if createErr != nil {
			return fmt.Errorf("entry %s: %w", zipPath, createErr)
		}

		if info.Mode()&os.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, link)
			members++
			return err
		}

		f, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		_, copyErr := io.Copy(w, f)
		_ = f.Close()
		if copyErr != nil {
			return fmt.Errorf("write %s: %w", zipPath, copyErr)
		}
		members++
		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}
	return members, nil
}
