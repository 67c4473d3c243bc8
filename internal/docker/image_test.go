package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadDockerignore(t *testing.T) {
	t.Run("missing file yields no patterns", func(t *testing.T) {
		patterns, err := readDockerignore(t.TempDir())
		assert.NoError(t, err)
		assert.Nil(t, patterns)
	})

	t.Run("skips blanks and comments", func(t *testing.T) {
		dir := t.TempDir()
		content := "# build artifacts\n\n*.pyc\n__pycache__/\n\n# local state\n.env\n"
		err := os.WriteFile(filepath.Join(dir, ".dockerignore"), []byte(content), 0o644)
		assert.NoError(t, err)

		patterns, err := readDockerignore(dir)
		assert.NoError(t, err)
		assert.Equal(t, []string{"*.pyc", "__pycache__/", ".env"}, patterns)
	})
}
