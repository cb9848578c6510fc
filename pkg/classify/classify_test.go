package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fman/pkg/classify"
)

// Minimal but valid magic numbers for sniffing
var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	zipHeader = []byte{'P', 'K', 0x03, 0x04}
	elfHeader = []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    classify.Category
	}{
		{"plain_text", []byte("hello, this is plain text\n"), classify.CategoryText},
		{"png_image", pngHeader, classify.CategoryImage},
		{"zip_archive", zipHeader, classify.CategoryArchive},
		{"elf_binary", elfHeader, classify.CategoryBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.name, tt.content)
			assert.Equal(t, tt.want, classify.Classify(path))
		})
	}
}

func TestClassifyUnreadableFallsBackToBinary(t *testing.T) {
	assert.Equal(t, classify.CategoryBinary, classify.Classify("/does/not/exist"))
}
