package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry)

	m.RunsTotal.Inc()
	m.RunSuccesses.Inc()
	m.DependencyFailures.Inc()
	m.TransfersTotal.Inc()
	m.BankTenths.Set(15)
	m.HoursToDeadline.Set(11.5)

	if got := testutil.ToFloat64(m.RunsTotal); got != 1 {
		t.Errorf("runs_total = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.RunSuccesses); got != 1 {
		t.Errorf("run_successes_total = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.BankTenths); got != 15 {
		t.Errorf("bank_tenths = %f, want 15", got)
	}
	if got := testutil.ToFloat64(m.HoursToDeadline); got != 11.5 {
		t.Errorf("hours_to_deadline = %f, want 11.5", got)
	}
}

func TestWrapper(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	w := NewWrapper(m)

	w.TransfersTotal().Inc()
	w.PicksPosted().Inc()
	w.PicksPosted().Inc()
	w.BankTenths().Set(42)
	w.HoursToDeadline().Set(3)
	w.FetchLatency().Observe(0.25)
	w.ScrapeErrorsInc()
	w.LexiconDownloadsInc()

	if got := testutil.ToFloat64(m.TransfersTotal); got != 1 {
		t.Errorf("transfers_posted_total = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.PicksPosted); got != 2 {
		t.Errorf("picks_posted_total = %f, want 2", got)
	}
	if got := testutil.ToFloat64(m.BankTenths); got != 42 {
		t.Errorf("bank_tenths = %f, want 42", got)
	}
	if got := testutil.ToFloat64(m.ScrapeErrors); got != 1 {
		t.Errorf("scrape_errors_total = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.LexiconDownloads); got != 1 {
		t.Errorf("lexicon_downloads_total = %f, want 1", got)
	}
}
