// Package sentiment scores Premier League news coverage against the
// VADER lexicon and attributes page-level polarity to the players
// mentioned on each page.
package sentiment

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Lexicon maps lowercase tokens to mean sentiment valence.
type Lexicon map[string]float64

// DownloadMetrics is the subset of metrics the provisioner reports.
type DownloadMetrics interface {
	LexiconDownloadsInc()
}

// Provisioner fetches and caches the lexicon file. It is the
// resource-provisioning step of every run: a failed download aborts the
// run before the bot logic executes.
type Provisioner struct {
	url     string
	path    string
	rest    *resty.Client
	metrics DownloadMetrics
}

func NewProvisioner(url, path string, timeout time.Duration) *Provisioner {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(30 * time.Second)
	}
	return &Provisioner{url: url, path: path, rest: r}
}

// SetMetrics enables download counting.
func (p *Provisioner) SetMetrics(m DownloadMetrics) {
	p.metrics = m
}

// Ensure makes the lexicon available at the configured path,
// downloading it when no cached copy exists, and returns the parsed
// lexicon.
func (p *Provisioner) Ensure() (Lexicon, error) {
	if _, err := os.Stat(p.path); os.IsNotExist(err) {
		if err := p.download(); err != nil {
			return nil, err
		}
	}
	return LoadLexicon(p.path)
}

func (p *Provisioner) download() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create lexicon dir: %w", err)
	}

	resp, err := p.rest.R().Get(p.url)
	if err != nil {
		return fmt.Errorf("lexicon download failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("lexicon download: status %d", resp.StatusCode())
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, resp.Body(), 0o644); err != nil {
		return fmt.Errorf("write lexicon: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("install lexicon: %w", err)
	}

	if p.metrics != nil {
		p.metrics.LexiconDownloadsInc()
	}
	log.Info().Str("path", p.path).Int("bytes", len(resp.Body())).Msg("lexicon downloaded")
	return nil
}

// LoadLexicon parses a VADER lexicon file: one token per line,
// tab separated, valence in the second column.
func LoadLexicon(path string) (Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	lex := make(Lexicon)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		valence, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue // skip malformed rows
		}
		lex[strings.ToLower(fields[0])] = valence
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	if len(lex) == 0 {
		return nil, fmt.Errorf("lexicon at %s is empty", path)
	}
	return lex, nil
}
