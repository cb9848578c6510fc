// Package classify maps a path to a coarse preview category. It is a pure
// utility consumed by the presentation layer to pick a preview strategy and
// has no bearing on mutation correctness.
package classify

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Category is a coarse file class used to choose a preview strategy
type Category string

const (
	CategoryDirectory Category = "directory"
	CategoryText      Category = "text"
	CategoryImage     Category = "image"
	CategoryVideo     Category = "video"
	CategoryAudio     Category = "audio"
	CategoryArchive   Category = "archive"
	CategoryBinary    Category = "binary"
)

var archiveTypes = map[string]bool{
	"application/zip":              true,
	"application/x-tar":            true,
	"application/gzip":             true,
	"application/x-bzip2":          true,
	"application/x-xz":             true,
	"application/x-7z-compressed":  true,
	"application/x-rar-compressed": true,
	"application/vnd.rar":          true,
}

// Classify sniffs the file at path and returns its preview category.
// Unreadable or unrecognizable files classify as binary; callers fall back
// to a hex preview, never to an error.
func Classify(path string) Category {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return CategoryBinary
	}
	return fromMIME(mtype.String())
}

func fromMIME(mime string) Category {
	switch {
	case strings.HasPrefix(mime, "text/"):
		return CategoryText
	case strings.HasPrefix(mime, "image/"):
		return CategoryImage
	case strings.HasPrefix(mime, "video/"):
		return CategoryVideo
	case strings.HasPrefix(mime, "audio/"):
		return CategoryAudio
	case archiveTypes[strings.SplitN(mime, ";", 2)[0]]:
		return CategoryArchive
	default:
		return CategoryBinary
	}
}
