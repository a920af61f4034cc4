// Package storage keeps uploaded listing images on local disk.
package storage

import (
	"Neighborly/internal/imaging"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImageStore writes processed uploads into Dir. Stored files are served
// by the HTTP layer under URLPrefix.
type ImageStore struct {
	Dir       string
	URLPrefix string

	now func() time.Time
}

func NewImageStore(dir, urlPrefix string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}, nil
}

// Save validates and stores the image read from r, named
// <field>-<unixMillis><ext>, and returns its public URL. The original
// extension is kept when it matches the sniffed format.
func (s *ImageStore) Save(field, filename string, r io.Reader) (string, error) {
	res, err := imaging.Process(r)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%d%s", field, s.now().UnixMilli(), extFor(filename, res.Ext))

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(res.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.URLPrefix + "/" + name, nil
}

func extFor(filename, canonical string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == canonical:
		return ext
	case canonical == ".jpg" && ext == ".jpeg":
		return ext
	}
	return canonical
}
