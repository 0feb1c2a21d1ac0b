package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voicedash/internal/apperr"
)

const sample = `{"stt":[{"name":"OpenAI","value":"openai","models":[{"name":"Whisper","value":"whisper-1","languages":[{"name":"English","value":"en"},{"name":"French","value":"fr"}]}]}]}`

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{"valid", sample, ""},
		{"extra fields ignored", `{"version":2,"stt":[{"name":"A","value":"a","icon":"x","models":[]}]}`, ""},
		{"empty provider list", `{"stt":[]}`, ""},
		{"not json", `{"stt":`, "$"},
		{"root array", `[]`, "$"},
		{"missing stt", `{}`, "stt"},
		{"stt not array", `{"stt":{}}`, "stt"},
		{"provider not object", `{"stt":[1]}`, "stt.0"},
		{"missing name", `{"stt":[{"value":"a","models":[]}]}`, "stt.0.name"},
		{"numeric value", `{"stt":[{"name":"A","value":1,"models":[]}]}`, "stt.0.value"},
		{"empty value", `{"stt":[{"name":"A","value":"","models":[]}]}`, "stt.0.value"},
		{"missing models", `{"stt":[{"name":"A","value":"a"}]}`, "stt.0.models"},
		{"duplicate provider", `{"stt":[{"name":"A","value":"a","models":[]},{"name":"B","value":"a","models":[]}]}`, "stt.1.value"},
		{"missing languages", `{"stt":[{"name":"A","value":"a","models":[{"name":"M","value":"m"}]}]}`, "stt.0.models.0.languages"},
		{"duplicate model", `{"stt":[{"name":"A","value":"a","models":[{"name":"M","value":"m","languages":[]},{"name":"N","value":"m","languages":[]}]}]}`, "stt.0.models.1.value"},
		{"language missing value", `{"stt":[{"name":"A","value":"a","models":[{"name":"M","value":"m","languages":[{"name":"English"}]}]}]}`, "stt.0.models.0.languages.0.value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.doc))
			if tt.wantPath == "" {
				if err != nil {
					t.Fatalf("Parse() error = %v", err)
				}
				if c == nil {
					t.Fatal("Parse() returned nil catalog")
				}
				return
			}

			var se *ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("Parse() error = %v, want *ShapeError", err)
			}
			if se.Path != tt.wantPath {
				t.Errorf("ShapeError.Path = %q, want %q", se.Path, tt.wantPath)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	if p, ok := c.Provider("openai"); !ok || p.Name != "OpenAI" {
		t.Errorf("Provider(openai) = %v, %v", p, ok)
	}
	if _, ok := c.Provider("OpenAI"); ok {
		t.Error("lookups must be by value, not name")
	}
	if _, ok := c.Provider(""); ok {
		t.Error("Provider(\"\") should not match")
	}
	if m, ok := c.Model("openai", "whisper-1"); !ok || len(m.Languages) != 2 {
		t.Errorf("Model() = %v, %v", m, ok)
	}
	if l, ok := c.Language("openai", "whisper-1", "fr"); !ok || l.Name != "French" {
		t.Errorf("Language() = %v, %v", l, ok)
	}
	if _, ok := c.Language("openai", "whisper-1", "de"); ok {
		t.Error("Language(de) should not exist")
	}

	var nilCatalog *Catalog
	if _, ok := nilCatalog.Provider("openai"); ok {
		t.Error("nil catalog should have no providers")
	}
}

func TestBundledCatalogIsValid(t *testing.T) {
	c, err := Load(context.Background(), EmbeddedSource{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := c.Language("openai", "whisper-1", "fr"); !ok {
		t.Error("bundled catalog should offer openai/whisper-1/fr")
	}
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"stt":[{"name":"x"}]}`), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		src  Source
	}{
		{"missing file", FileSource{Path: filepath.Join(dir, "nope.json")}},
		{"malformed file", FileSource{Path: bad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.src)
			if !errors.Is(err, apperr.ErrCatalogUnavailable) {
				t.Errorf("Load() error = %v, want CatalogUnavailable", err)
			}
		})
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stt.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sample))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("ok", func(t *testing.T) {
		src := NewSource(srv.URL+"/stt.json", 5*time.Second)
		if _, ok := src.(HTTPSource); !ok {
			t.Fatalf("NewSource() = %T, want HTTPSource", src)
		}
		c, err := Load(context.Background(), src)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(c.Providers) != 1 {
			t.Errorf("providers = %d, want 1", len(c.Providers))
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := Load(context.Background(), NewSource(srv.URL+"/missing", 5*time.Second))
		if !errors.Is(err, apperr.ErrCatalogUnavailable) {
			t.Errorf("Load() error = %v, want CatalogUnavailable", err)
		}
	})
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"", "catalog.EmbeddedSource"},
		{"https://example.com/stt.json", "catalog.HTTPSource"},
		{"/etc/voicedash/stt.json", "catalog.FileSource"},
		{"ftp://example.com/stt.json", "catalog.FileSource"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got := typeName(NewSource(tt.location, time.Second))
			if got != tt.want {
				t.Errorf("NewSource(%q) = %s, want %s", tt.location, got, tt.want)
			}
		})
	}
}

func TestRemoteHost(t *testing.T) {
	tests := []struct {
		location string
		wantHost string
		wantOK   bool
	}{
		{"https://cdn.example.com/stt.json", "cdn.example.com", true},
		{"http://localhost:8080/stt.json", "localhost:8080", true},
		{"http://192.168.1.1:3000/stt.json", "192.168.1.1:3000", true},
		{"", "", false},
		{"https://", "", false},
		{"catalog/stt.json", "", false},
		{"/etc/voicedash/stt.json", "", false},
		{"ftp://files.example.com/stt.json", "", false},
		{"file:///path/to/stt.json", "", false},
		{"not a url at all", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			host, ok := RemoteHost(tt.location)
			if host != tt.wantHost || ok != tt.wantOK {
				t.Errorf("RemoteHost(%q) = (%q, %v), want (%q, %v)", tt.location, host, ok, tt.wantHost, tt.wantOK)
			}
		})
	}
}

func typeName(s Source) string {
	switch s.(type) {
	case EmbeddedSource:
		return "catalog.EmbeddedSource"
	case HTTPSource:
		return "catalog.HTTPSource"
	case FileSource:
		return "catalog.FileSource"
	}
	return "unknown"
}
