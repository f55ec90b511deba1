package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractCommand_WritesAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `<html><head><style>a{color:#1a73e8}</style></head><body></body></html>`)
	}))
	defer server.Close()

	outDir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"extract", server.URL, "--output_dir", outDir, "--qr_size", "240", "--timeout", "2"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one site directory, got %v (%v)", entries, err)
	}
	siteDir := filepath.Join(outDir, entries[0].Name())
	for _, name := range []string{"palette.json", "qr.png"} {
		if _, err := os.Stat(filepath.Join(siteDir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "palette (css): #1a73e8") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestExtractCommand_RejectsInvalidURL(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"extract", "example.com"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}
