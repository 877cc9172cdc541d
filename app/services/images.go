package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// CategoryImageSizes maps the fixed derivative variants to their bounding
// width. "original" is stored as uploaded.
var CategoryImageSizes = map[string]int{
	"thumbnail": 150,
	"small":     300,
	"medium":    600,
	"large":     1200,
}

func AllowedImageExtension(filename string) bool {
	return allowedImageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ImageStore writes uploaded files under a configured directory with
// uuid-randomized names.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

func (s *ImageStore) Dir() string {
	return s.dir
}

func (s *ImageStore) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// SaveUpload validates the extension before anything touches the filesystem,
// then stores the file under a random name.
func (s *ImageStore) SaveUpload(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("file extension %q is not allowed", ext)
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(s.Path(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(s.Path(filename))
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return filename, nil
}

// Remove deletes a stored file. Missing files are not an error: listings may
// reference images that were cleaned up already.
func (s *ImageStore) Remove(filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("ImageStore: failed to remove %s: %v", filename, err)
	}
}

// VariantFilename builds the suffix-convention name for a derivative, e.g.
// "abc.jpg" + "thumbnail" -> "abc_thumbnail.jpg".
func VariantFilename(base, size string) string {
	if size == "" || size == "original" {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + size + ext
}

// SaveCategoryImage stores the original plus the four resized variants and
// returns the base filename.
func (s *ImageStore) SaveCategoryImage(src io.Reader, originalName string) (string, error) {
	base, err := s.SaveUpload(src, originalName)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(s.Path(base))
	if err != nil {
		s.Remove(base)
		return "", fmt.Errorf("failed to decode category image: %w", err)
	}

	for size, width := range CategoryImageSizes {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)
		if err := imaging.Save(resized, s.Path(VariantFilename(base, size))); err != nil {
			s.RemoveCategoryImage(base)
			return "", fmt.Errorf("failed to save %s variant: %w", size, err)
		}
	}

	return base, nil
}

// RemoveCategoryImage deletes the original and every derivative.
func (s *ImageStore) RemoveCategoryImage(base string) {
	if base == "" {
		return
	}
	s.Remove(base)
	for size := range CategoryImageSizes {
		s.Remove(VariantFilename(base, size))
	}
}
