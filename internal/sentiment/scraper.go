package sentiment

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
)

// ScrapeMetrics is the subset of metrics the scraper reports.
type ScrapeMetrics interface {
	ScrapeErrorsInc()
}

// Scraper fetches configured news pages and credits each page's
// compound polarity to every player name mentioned on it. Failures
// degrade to missing scores, never to a failed run.
type Scraper struct {
	sources []string
	rest    *resty.Client
	policy  *bluemonday.Policy
	metrics ScrapeMetrics
}

func NewScraper(sources []string, timeout time.Duration, m ScrapeMetrics) *Scraper {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(25 * time.Second)
	}
	return &Scraper{
		sources: sources,
		rest:    r,
		policy:  bluemonday.StrictPolicy(),
		metrics: m,
	}
}

// Scores returns accumulated compound sentiment per lowercase player
// name for every name mentioned in at least one source. The analyzer
// is passed per call because the lexicon is provisioned per run.
func (s *Scraper) Scores(names []string, analyzer *Analyzer) map[string]float64 {
	scores := make(map[string]float64)
	for _, url := range s.sources {
		text, err := s.fetchText(url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("news source skipped")
			if s.metrics != nil {
				s.metrics.ScrapeErrorsInc()
			}
			continue
		}

		compound := analyzer.Compound(text)
		low := " " + strings.ToLower(text) + " "
		for _, name := range names {
			if strings.Contains(low, " "+strings.ToLower(name)+" ") {
				scores[strings.ToLower(name)] += compound
			}
		}
	}
	return scores
}

// fetchText downloads a page and strips all markup down to plain text.
func (s *Scraper) fetchText(url string) (string, error) {
	resp, err := s.rest.R().Get(url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &statusError{url: url, status: resp.StatusCode()}
	}
	return s.policy.Sanitize(string(resp.Body())), nil
}

type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return "unexpected status " + http.StatusText(e.status) + " from " + e.url
}
