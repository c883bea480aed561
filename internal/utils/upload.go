package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SaveUpload writes the uploaded file under uploadDir/subdir with a random
// filename and returns the public URL path. The file hits disk before any
// referencing DB row is committed; callers do the DB write afterwards.
func SaveUpload(c *fiber.Ctx, file *multipart.FileHeader, uploadDir, subdir, baseURL string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))

	dir := filepath.Join(uploadDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dst := filepath.Join(dir, filename)

	if err := c.SaveFile(file, dst); err != nil {
		return "", err
	}

	base := strings.TrimRight(baseURL, "/")
	return fmt.Sprintf("%s/uploads/%s/%s", base, subdir, filename), nil
}

func AllowedExt(filename string, allowed ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
