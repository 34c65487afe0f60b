// Package upload writes user files below the configured upload directory and
// maps them to public URLs served under /uploads.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/api"
	"github.com/elskow/portfolio-cms/internal/apperror"
	"github.com/elskow/portfolio-cms/internal/config"
)

const MB = 1 << 20

// Rule constrains one kind of upload.
type Rule struct {
	// Field is the multipart field name, used in validation errors.
	Field string
	// Dir is the subdirectory below the upload root.
	Dir string
	// MaxSize is the largest accepted body in bytes.
	MaxSize int64
	// MIMEPrefix is matched against the sniffed content type, e.g. "image/".
	MIMEPrefix string
	// Name builds the stored file name from the detected extension.
	Name func(ext string) string
}

type File struct {
	URL  string `json:"url"`
	Name string `json:"filename"`
	MIME string `json:"mimetype"`
	Size int64  `json:"size"`
}

type Store struct {
	root     string
	maxWidth int
	log      *zap.Logger
}

func NewStore(cfg *config.ServerConfig, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: cfg.UploadDir, maxWidth: cfg.MaxImageWidth, log: log}, nil
}

// Root is the directory served at api.UploadsPath.
func (s *Store) Root() string {
	return s.root
}

// Save validates r against rule and writes it to <root>/<rule.Dir>/<name>.
// Images wider than the configured maximum are downscaled first.
func (s *Store) Save(r io.Reader, rule Rule) (*File, error) {
	data, err := io.ReadAll(io.LimitReader(r, rule.MaxSize+1))
	if err != nil {
		return nil, apperror.Internal("read upload", err)
	}
	if int64(len(data)) > rule.MaxSize {
		return nil, apperror.FieldInvalid(rule.Field,
			fmt.Sprintf("file must not exceed %dMB", rule.MaxSize/MB))
	}
	if len(data) == 0 {
		return nil, apperror.FieldInvalid(rule.Field, "file is empty")
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), rule.MIMEPrefix) {
		return nil, apperror.FieldInvalid(rule.Field,
			fmt.Sprintf("file type %s is not allowed", mt.String()))
	}

	if strings.HasPrefix(mt.String(), "image/") {
		data = s.downscale(data, mt.Extension())
	}

	name := rule.Name(mt.Extension())
	dir := filepath.Join(s.root, rule.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperror.Internal("create upload dir", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, apperror.Internal("write upload", err)
	}

	file := &File{
		URL:  path.Join(api.UploadsPath, rule.Dir, name),
		Name: name,
		MIME: mt.String(),
		Size: int64(len(data)),
	}
	s.log.Info("file stored", zap.String("url", file.URL), zap.Int64("size", file.Size))
	return file, nil
}

// downscale returns data unchanged when the image is narrow enough or in a
// format imaging cannot encode.
func (s *Store) downscale(data []byte, ext string) []byte {
	if s.maxWidth <= 0 {
		return data
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil || img.Bounds().Dx() <= s.maxWidth {
		return data
	}

	var buf bytes.Buffer
	resized := imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		s.log.Warn("image downscale failed, keeping original", zap.Error(err))
		return data
	}
	return buf.Bytes()
}

// DeleteByURL removes the file behind a public upload URL. Foreign URLs and
// files that are already gone are ignored.
func (s *Store) DeleteByURL(url string) error {
	prefix := api.UploadsPath + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	rel := path.Clean("/" + strings.TrimPrefix(url, prefix))
	target := filepath.Join(s.root, filepath.FromSlash(rel))

	err := os.Remove(target)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", url, err)
	}
	if err == nil {
		s.log.Info("file removed", zap.String("url", url))
	}
	return nil
}
