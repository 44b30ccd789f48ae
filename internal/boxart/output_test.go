package boxart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retroconv/internal/fileutil"
)

func TestResolveUnsetTargetSuffixStyles(t *testing.T) {
	entry := fileutil.Entry{Path: filepath.Join("lib", "psx", "cover.jpg"), RelPath: "cover.jpg"}

	dest, err := OutputResolver{Suffix: SuffixSame}.Resolve(entry, OutputTarget{}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("lib", "psx", "cover.png"), dest)

	dest, err = OutputResolver{Suffix: SuffixResized}.Resolve(entry, OutputTarget{}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("lib", "psx", "cover-resized.png"), dest)
}

func TestResolveDirectoryMirrorsStructure(t *testing.T) {
	entry := fileutil.Entry{Path: filepath.Join("R", "sub", "a.jpg"), RelPath: filepath.Join("sub", "a.jpg")}
	target := OutputTarget{Kind: OutputDirectory, Path: "O"}

	dest, err := OutputResolver{}.Resolve(entry, target, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("O", "sub", "a.png"), dest)

	dest, err = OutputResolver{}.Resolve(entry, target, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("O", "a.png"), dest)
}

func TestResolveDirectoryIgnoresSuffixStyle(t *testing.T) {
	entry := fileutil.Entry{Path: "a.jpg", RelPath: "a.jpg"}
	dest, err := OutputResolver{Suffix: SuffixResized}.Resolve(entry, OutputTarget{Kind: OutputDirectory, Path: "O"}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("O", "a.png"), dest)
}

func TestResolveExplicitFile(t *testing.T) {
	entry := fileutil.Entry{Path: "a.jpg", RelPath: "a.jpg"}

	dest, err := OutputResolver{}.Resolve(entry, OutputTarget{Kind: OutputFile, Path: "boxart.PNG"}, false)
	require.NoError(t, err)
	assert.Equal(t, "boxart.PNG", dest)

	_, err = OutputResolver{}.Resolve(entry, OutputTarget{Kind: OutputFile, Path: "boxart.png"}, true)
	assert.ErrorIs(t, err, ErrAmbiguousOutput)

	_, err = OutputResolver{}.Resolve(entry, OutputTarget{Kind: OutputFile, Path: "boxart.jpg"}, false)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestResolveFlagsSourceCollision(t *testing.T) {
	entry := fileutil.Entry{Path: "cover.png", RelPath: "cover.png"}
	_, err := OutputResolver{Suffix: SuffixSame}.Resolve(entry, OutputTarget{}, false)
	assert.ErrorIs(t, err, errSameAsSource)
}

func TestParseOutputTarget(t *testing.T) {
	dir := t.TempDir()

	target, err := ParseOutputTarget("")
	require.NoError(t, err)
	assert.Equal(t, OutputUnset, target.Kind)

	target, err = ParseOutputTarget(dir)
	require.NoError(t, err)
	assert.Equal(t, OutputDirectory, target.Kind)

	target, err = ParseOutputTarget(filepath.Join(dir, "new") + string(os.PathSeparator))
	require.NoError(t, err)
	assert.Equal(t, OutputDirectory, target.Kind)
	assert.Equal(t, filepath.Join(dir, "new"), target.Path)

	target, err = ParseOutputTarget(filepath.Join(dir, "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, OutputFile, target.Kind)

	_, err = ParseOutputTarget(filepath.Join(dir, "cover.jpg"))
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestClassify(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"b.JPG", "a/c.webp", "notes.txt"} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	in, err := Classify(root, "")
	require.NoError(t, err)
	assert.Equal(t, InputDirectory, in.Kind)
	require.Len(t, in.Entries, 2)
	assert.Equal(t, filepath.Join("a", "c.webp"), in.Entries[0].RelPath)
	assert.Equal(t, "b.JPG", in.Entries[1].RelPath)

	in, err = Classify(filepath.Join(root, "notes.txt"), "")
	require.NoError(t, err)
	assert.Equal(t, InputNotImage, in.Kind)

	in, err = Classify(filepath.Join(root, "b.JPG"), "")
	require.NoError(t, err)
	assert.Equal(t, InputFile, in.Kind)
	require.Len(t, in.Entries, 1)
	assert.Equal(t, "b.JPG", in.Entries[0].RelPath)

	_, err = Classify(filepath.Join(root, "missing.jpg"), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseBackground(t *testing.T) {
	bg, err := ParseBackground("none")
	require.NoError(t, err)
	assert.True(t, bg.Transparent)
	assert.Equal(t, "#00000000", bg.Hex())

	bg, err = ParseBackground("Black")
	require.NoError(t, err)
	assert.False(t, bg.Transparent)
	assert.Equal(t, "#000000ff", bg.Hex())

	bg, err = ParseBackground("#f80")
	require.NoError(t, err)
	assert.Equal(t, "#ff8800ff", bg.Hex())

	bg, err = ParseBackground("#11223380")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), bg.Color.A)

	_, err = ParseBackground("#12345")
	assert.ErrorIs(t, err, ErrConfig)
	_, err = ParseBackground("notacolour")
	assert.ErrorIs(t, err, ErrConfig)
}
