package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SanitizeFileName strips directory parts and characters unsafe in object keys
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

// NewObjectKey builds "{ownerID}/{uuid}/{fileName}"
func NewObjectKey(ownerID uint, fileName string) string {
	return fmt.Sprintf("%d/%s/%s", ownerID, uuid.NewString(), SanitizeFileName(fileName))
}

// RenameObjectKey keeps the key's directory and swaps the file name
func RenameObjectKey(key, newFileName string) string {
	return path.Join(path.Dir(key), SanitizeFileName(newFileName))
}

func contentDisposition(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
