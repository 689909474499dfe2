package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestResolveAudioPath(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		wantErr bool
	}{
		{
			name:    "plain_file",
			rel:     "clip.mp3",
			wantErr: false,
		},
		{
			name:    "nested_file",
			rel:     "podcast/episode1.wav",
			wantErr: false,
		},
		{
			name:    "empty_path",
			rel:     "",
			wantErr: true,
		},
		{
			name:    "absolute_path",
			rel:     "/etc/passwd",
			wantErr: true,
		},
		{
			name:    "parent_traversal",
			rel:     "../secrets.txt",
			wantErr: true,
		},
		{
			name:    "hidden_traversal",
			rel:     "podcast/../../secrets.txt",
			wantErr: true,
		},
		{
			name:    "dot_segments_inside_root",
			rel:     "podcast/./episode1.wav",
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAudioPath("audio", tt.rel)
			if (err != nil) != tt.wantErr {
				t.Errorf("ResolveAudioPath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && !strings.HasPrefix(got, "audio"+string(filepath.Separator)) {
				t.Errorf("ResolveAudioPath() got = %v, want under audio root", got)
			}
		})
	}
}

func TestListFilesByExt(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, mod time.Time) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	base := time.Now().Add(-time.Hour)
	write("b.mp3", base.Add(2*time.Minute))
	write("a.MP3", base.Add(1*time.Minute))
	write("c.mp4", base.Add(3*time.Minute))
	write("ignore.txt", base)
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := ListFilesByExt(dir, ".mp3")
	if err != nil {
		t.Fatalf("ListFilesByExt() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListFilesByExt() returned %d files, want 2", len(got))
	}
	// Sorted oldest first.
	if got[0].Name != "a.MP3" || got[1].Name != "b.mp3" {
		t.Errorf("ListFilesByExt() order = %s, %s; want a.MP3, b.mp3", got[0].Name, got[1].Name)
	}

	both, err := ListFilesByExt(dir, ".mp3", ".mp4")
	if err != nil {
		t.Fatalf("ListFilesByExt() error = %v", err)
	}
	if len(both) != 3 {
		t.Errorf("ListFilesByExt() with two extensions returned %d files, want 3", len(both))
	}

	if _, err := ListFilesByExt(filepath.Join(dir, "missing"), ".mp3"); err == nil {
		t.Error("ListFilesByExt() expected error for missing directory")
	}
}

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(path, []byte("  hello transcript \n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTextFile(path)
	if err != nil {
		t.Fatalf("ReadTextFile() error = %v", err)
	}
	if got != "hello transcript" {
		t.Errorf("ReadTextFile() = %q, want %q", got, "hello transcript")
	}

	if _, err := ReadTextFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("ReadTextFile() expected error for missing file")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")

	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	fi, err := os.Stat(nested)
	if err != nil || !fi.IsDir() {
		t.Fatalf("EnsureDir() did not create directory: %v", err)
	}

	// Second call on an existing directory is a no-op.
	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}
