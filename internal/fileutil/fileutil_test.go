package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestListFilesOrdersByFullRelativePath(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"a/x.jpg", "a-b.jpg", "B.png", "a/sub/z.jpg", "notes.txt"} {
		touch(t, filepath.Join(root, filepath.FromSlash(rel)))
	}

	match := func(p string) bool { return !strings.HasSuffix(p, ".txt") }
	entries, err := ListFiles(root, match, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, filepath.ToSlash(e.RelPath))
	}
	want := []string{"B.png", "a-b.jpg", "a/sub/z.jpg", "a/x.jpg"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !filepath.IsAbs(entries[0].Path) {
		t.Fatalf("expected absolute path, got %s", entries[0].Path)
	}
}

func TestListFilesSkipsExcludedDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "in.jpg"))
	touch(t, filepath.Join(root, "out", "in.png"))

	entries, err := ListFiles(root, nil, filepath.Join(root, "out"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].RelPath != "in.jpg" {
		t.Fatalf("expected only in.jpg, got %#v", entries)
	}
}

func TestHasExtIsCaseInsensitive(t *testing.T) {
	exts := map[string]struct{}{"jpg": {}}
	if !HasExt("COVER.JPG", exts) {
		t.Fatal("expected upper-case extension to match")
	}
	if HasExt("cover", exts) {
		t.Fatal("expected extensionless path not to match")
	}
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join("srv", "media")
	if !IsWithin(filepath.Join(root, "x"), root) {
		t.Fatal("expected child to be within root")
	}
	if IsWithin(filepath.Join("srv", "media-old"), root) {
		t.Fatal("expected sibling not to be within root")
	}
	if IsWithin(filepath.Join("srv", "..x"), filepath.Join("srv", "a")) {
		t.Fatal("expected unrelated path not to be within root")
	}
}

func TestReplaceFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest.png")
	touch(t, dest)

	tmp, err := TempSibling(dest, ".tmp-*")
	if err != nil {
		t.Fatalf("temp: %v", err)
	}
	if err := os.WriteFile(tmp, []byte("new"), 0o644); err != nil {
		t.Fatalf("write tmp: %v", err)
	}
	if err := ReplaceFile(tmp, dest); err != nil {
		t.Fatalf("replace: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("expected replaced content, got %q", data)
	}
	if Exists(tmp) {
		t.Fatal("expected temp file to be gone")
	}
}
