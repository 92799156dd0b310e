package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFile(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantMD5  string
		wantSHA1 string
	}{
		{
			name:     "known content",
			content:  "hello world",
			wantMD5:  "5eb63bbbe01eeed093cb22bb8f5acdc3",
			wantSHA1: "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
		},
		{
			name:     "empty file",
			content:  "",
			wantMD5:  "d41d8cd98f00b204e9800998ecf8427e",
			wantSHA1: "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "file.bin")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("writing fixture: %v", err)
			}

			sums, err := File(path)
			if err != nil {
				t.Fatalf("File() error = %v", err)
			}
			if sums.MD5 != tt.wantMD5 {
				t.Errorf("MD5 = %s, want %s", sums.MD5, tt.wantMD5)
			}
			if sums.SHA1 != tt.wantSHA1 {
				t.Errorf("SHA1 = %s, want %s", sums.SHA1, tt.wantSHA1)
			}
		})
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("File() on missing path returned nil error")
	}
}
