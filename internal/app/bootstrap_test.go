package app

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"helperhub/internal/config"
	"helperhub/internal/infrastructure/storage"
	"helperhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func TestListenAddr(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "8080", want: ":8080"},
		{in: " :9000 ", want: ":9000"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ListenAddr(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ListenAddr(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ListenAddr(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ListenAddr(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMigrationsFSEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(MigrationsFS(""), ".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Name() == "V1__init.sql" {
			found = true
		}
	}
	if !found {
		t.Fatalf("V1__init.sql missing from embedded migrations")
	}
}

func TestMigrationsFSDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "V7__extra.sql"), []byte("SELECT 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := fs.ReadFile(MigrationsFS(dir), "V7__extra.sql")
	if err != nil {
		t.Fatalf("read dir migration: %v", err)
	}
	if string(b) != "SELECT 1;" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestMountLocalFilesServesUploads(t *testing.T) {
	dir := t.TempDir()
	blobs, err := storage.NewLocalStorage(dir, "")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	img := []byte("\x89PNG\r\n\x1a\nfake-image")
	url, err := blobs.Upload(context.Background(), usecase.ProfileImagePrefix+"/"+uuid.NewString(), "image/png", bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	app := fiber.New()
	if !mountLocalFiles(app, config.StorageConfig{Type: "local", LocalPath: dir}) {
		t.Fatalf("local storage without a public base url must be served")
	}

	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || !bytes.Equal(body, img) {
		t.Fatalf("GET %s = %d %q", url, resp.StatusCode, body)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/"+usecase.ProfileImagePrefix+"/"+uuid.NewString(), nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("missing image: expected 404, got %d", resp.StatusCode)
	}

	if mountLocalFiles(fiber.New(), config.StorageConfig{Type: "local", LocalPath: dir, PublicBaseURL: "https://cdn.example.com"}) {
		t.Fatalf("a public base url serves images elsewhere")
	}
}
