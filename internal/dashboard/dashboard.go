// Package dashboard serves a small web view of the bot's run status:
// last outcome, next scheduled run, team state and recent run history,
// streamed live over WebSocket.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/bot"
	"github.com/Raahin414/fpl-autonomous-bot/internal/runner"
	"github.com/Raahin414/fpl-autonomous-bot/internal/storage"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Status is one snapshot pushed to dashboard clients.
type Status struct {
	Timestamp   time.Time           `json:"timestamp"`
	LastOutcome string              `json:"lastOutcome"`
	LastError   string              `json:"lastError,omitempty"`
	LastRun     time.Time           `json:"lastRun"`
	NextRun     time.Time           `json:"nextRun"`
	Team        bot.Snapshot        `json:"team"`
	RecentRuns  []storage.RunRecord `json:"recentRuns"`
}

// Dashboard streams run status over HTTP and WebSocket.
type Dashboard struct {
	runner      *runner.Runner
	weekly      *bot.Weekly
	store       *storage.Store
	server      *http.Server
	upgrader    websocket.Upgrader
	clients     map[*websocket.Conn]bool
	clientsMu   sync.RWMutex
	stopChannel chan struct{}
	isRunning   bool
	mu          sync.RWMutex
}

func New(r *runner.Runner, w *bot.Weekly, store *storage.Store, port int) *Dashboard {
	d := &Dashboard{
		runner:      r,
		weekly:      w,
		store:       store,
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:     make(map[*websocket.Conn]bool),
		stopChannel: make(chan struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc("/", d.handleIndex).Methods("GET")
	router.HandleFunc("/api/status", d.handleStatusAPI).Methods("GET")
	router.HandleFunc("/ws", d.handleWebSocket).Methods("GET")

	d.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return d
}

// Start starts the dashboard server and the status broadcaster.
func (d *Dashboard) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isRunning {
		return fmt.Errorf("dashboard is already running")
	}

	go d.broadcaster()

	go func() {
		log.Info().Str("address", d.server.Addr).Msg("starting dashboard server")
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("dashboard server failed")
		}
	}()

	d.isRunning = true
	return nil
}

// Stop shuts the dashboard down and disconnects all clients.
func (d *Dashboard) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isRunning {
		return nil
	}

	close(d.stopChannel)

	d.clientsMu.Lock()
	for client := range d.clients {
		client.Close()
	}
	d.clients = make(map[*websocket.Conn]bool)
	d.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown dashboard server")
		return err
	}

	d.isRunning = false
	return nil
}

// broadcaster pushes a status snapshot to every client periodically.
func (d *Dashboard) broadcaster() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.broadcast(d.collectStatus())
		case <-d.stopChannel:
			return
		}
	}
}

func (d *Dashboard) collectStatus() Status {
	status := Status{
		Timestamp:   time.Now().UTC(),
		LastOutcome: "never-run",
		NextRun:     d.runner.NextRun(),
		Team:        d.weekly.LastSnapshot(),
	}

	if last, ok := d.runner.LastResult(); ok {
		status.LastOutcome = string(last.Outcome)
		status.LastRun = last.FinishedAt
		if last.Err != nil {
			status.LastError = last.Err.Error()
		}
	}

	if d.store != nil {
		if runs, err := d.store.RecentRuns(10); err == nil {
			status.RecentRuns = runs
		}
	}
	return status
}

func (d *Dashboard) broadcast(status Status) {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()

	data, err := json.Marshal(status)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal status for broadcast")
		return
	}

	for client := range d.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(d.clients, client)
		}
	}
}

func (d *Dashboard) handleStatusAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d.collectStatus())
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	d.clientsMu.Lock()
	d.clients[conn] = true
	d.clientsMu.Unlock()

	if data, err := json.Marshal(d.collectStatus()); err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	d.clientsMu.Lock()
	delete(d.clients, conn)
	d.clientsMu.Unlock()
}

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	t, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	t.Execute(w, nil)
}

const indexTemplate = `
<!DOCTYPE html>
<html>
<head>
    <title>FPL Bot - Run Status</title>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
        .container { max-width: 900px; margin: 0 auto; }
        .header { background: linear-gradient(135deg, #38003c 0%, #00ff85 100%); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
        .header h1 { margin: 0; text-align: center; }
        .card { background: white; border-radius: 10px; padding: 20px; margin-bottom: 20px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
        .metric { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #eee; }
        .metric:last-child { border-bottom: none; }
        .metric-label { font-weight: 500; color: #666; }
        .metric-value { font-weight: bold; color: #333; }
        .ok { color: #28a745; }
        .bad { color: #dc3545; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        th { background-color: #f8f9fa; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>FPL Bot</h1></div>
        <div class="card">
            <div class="metric"><span class="metric-label">Last Outcome</span><span class="metric-value" id="last-outcome">--</span></div>
            <div class="metric"><span class="metric-label">Last Run</span><span class="metric-value" id="last-run">--</span></div>
            <div class="metric"><span class="metric-label">Next Run</span><span class="metric-value" id="next-run">--</span></div>
            <div class="metric"><span class="metric-label">Gameweek</span><span class="metric-value" id="gameweek">--</span></div>
            <div class="metric"><span class="metric-label">Hours To Deadline</span><span class="metric-value" id="hours">--</span></div>
            <div class="metric"><span class="metric-label">Bank</span><span class="metric-value" id="bank">--</span></div>
            <div class="metric"><span class="metric-label">Last Plan</span><span class="metric-value" id="plan">--</span></div>
        </div>
        <div class="card">
            <h3>Recent Runs</h3>
            <table>
                <thead><tr><th>Started</th><th>Trigger</th><th>Outcome</th><th>Error</th></tr></thead>
                <tbody id="runs-body"><tr><td colspan="4">No runs yet</td></tr></tbody>
            </table>
        </div>
    </div>
    <script>
        const ws = new WebSocket('ws://' + location.host + '/ws');
        ws.onmessage = function(event) { update(JSON.parse(event.data)); };
        ws.onclose = function() { setTimeout(() => location.reload(), 5000); };

        function update(data) {
            const outcome = document.getElementById('last-outcome');
            outcome.textContent = data.lastOutcome;
            outcome.className = 'metric-value ' + (data.lastOutcome === 'success' ? 'ok' : 'bad');
            document.getElementById('last-run').textContent = data.lastRun ? new Date(data.lastRun).toLocaleString() : '--';
            document.getElementById('next-run').textContent = data.nextRun ? new Date(data.nextRun).toLocaleString() : '--';
            document.getElementById('gameweek').textContent = data.team.gameweek || '--';
            document.getElementById('hours').textContent = data.team.hoursToDeadline ? data.team.hoursToDeadline.toFixed(1) : '--';
            document.getElementById('bank').textContent = data.team.bankTenths ? '£' + (data.team.bankTenths / 10).toFixed(1) + 'm' : '--';
            document.getElementById('plan').textContent = data.team.planKind || '--';

            const tbody = document.getElementById('runs-body');
            tbody.innerHTML = '';
            if (!data.recentRuns || data.recentRuns.length === 0) {
                tbody.innerHTML = '<tr><td colspan="4">No runs yet</td></tr>';
                return;
            }
            for (const run of data.recentRuns) {
                const row = document.createElement('tr');
                row.innerHTML = '<td>' + new Date(run.startedAt).toLocaleString() + '</td>' +
                    '<td>' + run.trigger + '</td>' +
                    '<td class="' + (run.outcome === 'success' ? 'ok' : 'bad') + '">' + run.outcome + '</td>' +
                    '<td>' + (run.error || '') + '</td>';
                tbody.appendChild(row);
            }
        }
    </script>
</body>
</html>
`
