package sentiment

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleLexicon = "# comment line\n" +
	"good\t1.9\t0.5\t[2,1,2]\n" +
	"bad\t-2.5\t0.6\t[-3,-2,-2]\n" +
	"INJURED\t-1.7\n" +
	"malformed-no-valence\n" +
	"notanumber\tabc\n"

func writeLexicon(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vader_lexicon.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write lexicon: %v", err)
	}
	return path
}

func TestLoadLexicon(t *testing.T) {
	lex, err := LoadLexicon(writeLexicon(t, sampleLexicon))
	if err != nil {
		t.Fatalf("LoadLexicon failed: %v", err)
	}

	if len(lex) != 3 {
		t.Errorf("expected 3 entries, got %d", len(lex))
	}
	if lex["good"] != 1.9 {
		t.Errorf("good = %f, want 1.9", lex["good"])
	}
	if lex["bad"] != -2.5 {
		t.Errorf("bad = %f, want -2.5", lex["bad"])
	}
	// Tokens are lowercased on load.
	if lex["injured"] != -1.7 {
		t.Errorf("injured = %f, want -1.7", lex["injured"])
	}
}

func TestLoadLexiconEmpty(t *testing.T) {
	if _, err := LoadLexicon(writeLexicon(t, "# only comments\n")); err == nil {
		t.Error("expected error for lexicon with no entries")
	}
}

func TestLoadLexiconMissingFile(t *testing.T) {
	if _, err := LoadLexicon(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing lexicon file")
	}
}

type countingDownloads struct{ n int }

func (c *countingDownloads) LexiconDownloadsInc() { c.n++ }

func TestProvisionerEnsureDownloads(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(sampleLexicon))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "data", "vader_lexicon.txt")
	counter := &countingDownloads{}
	p := NewProvisioner(srv.URL, path, 5*time.Second)
	p.SetMetrics(counter)

	lex, err := p.Ensure()
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if len(lex) == 0 {
		t.Fatal("expected parsed lexicon entries")
	}
	if hits != 1 {
		t.Errorf("expected 1 download, got %d", hits)
	}
	if counter.n != 1 {
		t.Errorf("expected 1 download counted, got %d", counter.n)
	}

	// Second call serves from the cached file.
	if _, err := p.Ensure(); err != nil {
		t.Fatalf("cached Ensure failed: %v", err)
	}
	if hits != 1 {
		t.Errorf("cached Ensure should not re-download, got %d hits", hits)
	}
}

func TestProvisionerEnsureDownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvisioner(srv.URL, filepath.Join(t.TempDir(), "vader_lexicon.txt"), 5*time.Second)
	if _, err := p.Ensure(); err == nil {
		t.Error("expected error when the lexicon source is down")
	}
}
