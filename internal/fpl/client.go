package fpl

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122 Safari/537.36"

// ErrSessionInvalid is returned when the authenticated endpoints reject
// the session cookie, typically because the login has expired.
var ErrSessionInvalid = fmt.Errorf("fpl: session invalid or expired")

// Client talks to the official FPL web endpoints. Authentication is
// cookie based: Login posts the account credentials and the resty
// cookie jar carries the session on subsequent calls.
type Client struct {
	email, password string
	loginURL, base  string
	teamID          int
	rest            *resty.Client
}

func NewClient(email, password, loginURL, base string, teamID int, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(30 * time.Second) // default fallback
	}
	r.SetHeader("User-Agent", userAgent)
	r.SetHeader("Origin", base)
	r.SetHeader("Referer", base+"/")
	return &Client{email, password, loginURL, base, teamID, r}
}

// Login establishes the cookie session against the accounts endpoint.
func (c *Client) Login() error {
	resp, err := c.rest.R().
		SetFormData(map[string]string{
			"login":        c.email,
			"password":     c.password,
			"app":          "plfpl-web",
			"redirect_uri": c.base + "/a/login",
		}).
		Post(c.loginURL)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("login rejected: status %d", resp.StatusCode())
	}

	log.Debug().Int("status", resp.StatusCode()).Msg("fpl login completed")
	return nil
}

// Bootstrap fetches the public bootstrap-static dataset.
func (c *Client) Bootstrap() (*Bootstrap, error) {
	var bs Bootstrap
	resp, err := c.rest.R().
		SetResult(&bs).
		Get(c.base + "/api/bootstrap-static/")
	if err != nil {
		return nil, fmt.Errorf("bootstrap request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("bootstrap: status %d", resp.StatusCode())
	}
	return &bs, nil
}

// MyTeam fetches the authenticated team state: picks, bank and
// transfer allowance.
func (c *Client) MyTeam() (*MyTeam, error) {
	var team MyTeam
	resp, err := c.rest.R().
		SetResult(&team).
		Get(fmt.Sprintf("%s/api/my-team/%d/", c.base, c.teamID))
	if err != nil {
		return nil, fmt.Errorf("my-team request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusForbidden {
		return nil, ErrSessionInvalid
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("my-team: status %d", resp.StatusCode())
	}
	return &team, nil
}

// PostTransfers submits a transfer payload.
func (c *Client) PostTransfers(p TransferPayload) error {
	resp, err := c.rest.R().
		SetHeader("Content-Type", "application/json").
		SetBody(p).
		Post(fmt.Sprintf("%s/api/my-team/%d/transfers/", c.base, c.teamID))
	if err != nil {
		return fmt.Errorf("transfers request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("transfers: status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 600))
	}

	log.Info().
		Int("event", p.Event).
		Int("transfers", len(p.Transfers)).
		Bool("unlimited", len(p.Squad) > 0).
		Msg("transfers posted")
	return nil
}

// PostPicks submits a picks payload (lineup, captain, vice).
func (c *Client) PostPicks(p PicksPayload) error {
	resp, err := c.rest.R().
		SetHeader("Content-Type", "application/json").
		SetBody(p).
		Post(fmt.Sprintf("%s/api/my-team/%d/", c.base, c.teamID))
	if err != nil {
		return fmt.Errorf("picks request failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("picks: status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 600))
	}

	log.Info().
		Int("event", p.EntryHistory.Event).
		Int("picks", len(p.Picks)).
		Msg("picks posted")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
