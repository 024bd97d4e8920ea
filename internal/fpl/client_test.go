package fpl

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("manager@example.com", "secret", srv.URL+"/accounts/login/", srv.URL, 42, 5*time.Second)
}

func TestLogin(t *testing.T) {
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/login/" {
			http.NotFound(w, r)
			return
		}
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"login":    r.PostForm.Get("login"),
			"password": r.PostForm.Get("password"),
			"app":      r.PostForm.Get("app"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.Login())

	assert.Equal(t, "manager@example.com", gotForm["login"])
	assert.Equal(t, "secret", gotForm["password"])
	assert.Equal(t, "plfpl-web", gotForm["app"])
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := newTestClient(srv).Login()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestBootstrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/bootstrap-static/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Bootstrap{
			Events: []Event{{ID: 1, IsNext: true, DeadlineTime: "2025-08-15T17:30:00Z"}},
			Elements: []Element{
				{ID: 10, WebName: "Salah", Team: 1, ElementType: 3, NowCost: 130, EPNext: "7.1"},
			},
			Teams: []Team{{ID: 1, Name: "Liverpool", ShortName: "LIV"}},
		})
	}))
	defer srv.Close()

	bs, err := newTestClient(srv).Bootstrap()
	require.NoError(t, err)
	require.Len(t, bs.Elements, 1)
	assert.Equal(t, "Salah", bs.Elements[0].WebName)
	assert.Equal(t, 7.1, bs.Elements[0].EPNextF())

	ev, ok := bs.NextEvent()
	require.True(t, ok)
	assert.Equal(t, 1, ev.ID)
}

func TestMyTeam(t *testing.T) {
	limit := 1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/my-team/42/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(MyTeam{
			Picks:     []Pick{{Element: 10, Position: 1, SellingPrice: 45}},
			Transfers: TransferState{Bank: 15, Limit: &limit},
		})
	}))
	defer srv.Close()

	team, err := newTestClient(srv).MyTeam()
	require.NoError(t, err)
	require.Len(t, team.Picks, 1)
	assert.Equal(t, 15, team.Transfers.Bank)
	assert.Equal(t, 1, team.Transfers.FreeLeft())
}

func TestMyTeamSessionInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).MyTeam()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionInvalid))
}

func TestPostTransfers(t *testing.T) {
	var got TransferPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/my-team/42/transfers/", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := TransferPayload{
		Entry: 42,
		Event: 5,
		Transfers: []TransferItem{
			{ElementOut: 10, ElementIn: 20, PurchasePrice: 55, SellingPrice: 50},
		},
		Confirmed: true,
	}
	require.NoError(t, newTestClient(srv).PostTransfers(payload))

	assert.Equal(t, 42, got.Entry)
	require.Len(t, got.Transfers, 1)
	assert.Equal(t, 20, got.Transfers[0].ElementIn)
}

func TestPostPicksError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors":["deadline passed"]}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).PostPicks(PicksPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "deadline passed")
}

func TestTransferPayloadSquadOmitted(t *testing.T) {
	// Weekly transfer submissions must not carry the unlimited-window
	// squad fields.
	raw, err := json.Marshal(TransferPayload{Entry: 42, Event: 5, Transfers: []TransferItem{}})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "squad")
	assert.NotContains(t, string(raw), "captain")
}
