package hwpxfill

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadPart returns the decoded text of one part of an HWPX archive.
func ReadPart(path, part string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open archive %q: %w: %w", path, ErrSourceUnavailable, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != part {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open part %s in %q: %w", part, path, err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("read part %s in %q: %w", part, path, err)
		}
		return string(content), nil
	}
	return "", fmt.Errorf("part %s in %q: %w", part, path, ErrPartNotFound)
}

// ListParts returns the part names of an archive in stored order.
func ListParts(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w: %w", path, ErrSourceUnavailable, err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// WritePart replaces one part of the archive at path in place.
func WritePart(path, part, content string) error {
	return WritePartTo(path, path, part, content)
}

// WritePartTo writes a copy of the archive src to dst with part replaced by
// content. Every other entry is copied raw, keeping its compressed bytes and
// method. The copy goes to a temporary file next to dst and is renamed over
// dst only once fully written, so dst is never left half-written. src and dst
// may be the same path.
func WritePartTo(src, dst, part, content string) (err error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive %q: %w: %w", src, ErrSourceUnavailable, err)
	}
	defer zr.Close()

	found := false
	for _, f := range zr.File {
		if f.Name == part {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("part %s in %q: %w", part, src, ErrPartNotFound)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", dst, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if info, statErr := os.Stat(src); statErr == nil {
		_ = tmp.Chmod(info.Mode().Perm())
	}

	zw := zip.NewWriter(tmp)
	for _, f := range zr.File {
		if f.Name != part {
			if err = zw.Copy(f); err != nil {
				return fmt.Errorf("copy part %s: %w", f.Name, err)
			}
			continue
		}
		hdr := f.FileHeader
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     hdr.Name,
			Comment:  hdr.Comment,
			Method:   hdr.Method,
			Modified: hdr.Modified,
		})
		if err != nil {
			return fmt.Errorf("create part %s: %w", part, err)
		}
		if _, err = io.WriteString(w, content); err != nil {
			return fmt.Errorf("write part %s: %w", part, err)
		}
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("finish archive %q: %w", dst, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file %q: %w", tmpName, err)
	}
	zr.Close()
	if err = os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("replace %q: %w", dst, err)
	}
	return nil
}
