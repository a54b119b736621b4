package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/court-ledger/internal/club"
	"github.com/mauv0809/court-ledger/internal/config"
	"github.com/mauv0809/court-ledger/internal/database"
	"github.com/mauv0809/court-ledger/internal/ledger"
	"github.com/mauv0809/court-ledger/internal/metrics"
	"github.com/mauv0809/court-ledger/internal/notifier"
	"github.com/mauv0809/court-ledger/internal/pairing"
	"github.com/mauv0809/court-ledger/internal/processor"
	"github.com/mauv0809/court-ledger/internal/pubsub"
	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/mauv0809/court-ledger/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

// setupTestServer initializes a new server with an in-memory database, a local
// pubsub client and the given notifier. The processor clock is fixed to
// 2024-03-15.
func setupTestServer(t *testing.T, notif notifier.Notifier, slackSigningSecret string) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	players := club.New(db)
	sessions := session.New(db)
	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	local := pubsub.NewLocal()

	proc := processor.New(players, sessions, notif, metricsSvc, metrics.NewUsageStore(db), local, config.LedgerConfig{
		DefaultPerMatchReward: 10,
	}).WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	})
	local.Subscribe(pubsub.EventSessionClosed, proc.HandleSessionClosed)

	server := NewServer(players, sessions, metricsHandler, cfg, notif, proc)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, teardown
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req, err := http.NewRequest("POST", targetURL, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))

	return req
}

// do serves a JSON request through the router.
func do(t *testing.T, server *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// seedSession creates a session on 2024-03-10 with a 50 service fee, one
// registered player (Alice) and one temporary participant (Guest).
func seedSession(t *testing.T, server *Server) (sess session.Session, alice, guest session.Participant) {
	t.Helper()

	rr := do(t, server, "POST", "/players", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rr.Code)
	player := decode[club.Player](t, rr)

	rr = do(t, server, "POST", "/sessions", map[string]any{"date": "2024-03-10", "serviceFee": 50})
	require.Equal(t, http.StatusCreated, rr.Code)
	sess = decode[session.Session](t, rr)

	rr = do(t, server, "POST", "/sessions/"+sess.ID+"/participants", map[string]any{"playerId": player.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	alice = decode[session.Participant](t, rr)

	rr = do(t, server, "POST", "/sessions/"+sess.ID+"/participants", map[string]any{"name": "Guest"})
	require.Equal(t, http.StatusCreated, rr.Code)
	guest = decode[session.Participant](t, rr)

	return sess, alice, guest
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	rr := do(t, server, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestPlayersHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	rr := do(t, server, "POST", "/players", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusCreated, rr.Code)
	alice := decode[club.Player](t, rr)
	assert.Equal(t, "Alice", alice.Name)

	t.Run("lists players", func(t *testing.T) {
		rr := do(t, server, "GET", "/players", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		players := decode[[]club.Player](t, rr)
		require.Len(t, players, 1)
		assert.Equal(t, alice.ID, players[0].ID)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		rr := do(t, server, "POST", "/players", map[string]string{"name": "  "})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/players", strings.NewReader("{"))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("deletes a player", func(t *testing.T) {
		rr := do(t, server, "DELETE", "/players/"+alice.ID, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = do(t, server, "DELETE", "/players/"+alice.ID, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSessionHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	sess, alice, guest := seedSession(t, server)
	assert.Equal(t, 10.0, sess.PerMatchReward, "default reward applies")
	assert.Equal(t, 0.0, alice.Fee)
	assert.Equal(t, 50.0, guest.Fee, "temporary fee defaults to the service fee")

	t.Run("rejects an invalid date", func(t *testing.T) {
		rr := do(t, server, "POST", "/sessions", map[string]any{"date": "10/03/2024"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("finds the session by date", func(t *testing.T) {
		rr := do(t, server, "GET", "/sessions?date=2024-03-10", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, sess.ID, decode[session.Session](t, rr).ID)

		rr = do(t, server, "GET", "/sessions?date=2024-01-01", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("lists sessions in a range", func(t *testing.T) {
		rr := do(t, server, "GET", "/sessions?from=2024-03-01&to=2024-03-31", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]session.Session](t, rr), 1)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		rr := do(t, server, "GET", "/sessions/missing", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		rr = do(t, server, "GET", "/sessions/missing/participants", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("adding the same player twice conflicts", func(t *testing.T) {
		rr := do(t, server, "POST", "/sessions/"+sess.ID+"/participants", map[string]any{"playerId": alice.PlayerID})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown player is rejected", func(t *testing.T) {
		rr := do(t, server, "POST", "/sessions/"+sess.ID+"/participants", map[string]any{"playerId": "ghost"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("master keeps the registry name", func(t *testing.T) {
		assert.Equal(t, "Alice", alice.Name)
	})

	t.Run("temporary participants need a name", func(t *testing.T) {
		rr := do(t, server, "POST", "/sessions/"+sess.ID+"/participants", map[string]any{"name": ""})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service fee change cascades to temporaries", func(t *testing.T) {
		rr := do(t, server, "PATCH", "/sessions/"+sess.ID, map[string]any{"serviceFee": 60})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 60.0, decode[session.Session](t, rr).ServiceFee)

		rr = do(t, server, "GET", "/sessions/"+sess.ID+"/participants", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		for _, p := range decode[[]session.Participant](t, rr) {
			if p.IsMaster() {
				assert.Equal(t, 0.0, p.Fee)
			} else {
				assert.Equal(t, 60.0, p.Fee)
			}
		}
	})

	t.Run("bulk fee update", func(t *testing.T) {
		rr := do(t, server, "PATCH", "/sessions/"+sess.ID+"/participants", map[string]any{"fee": 70})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, map[string]int64{"updated": 1}, decode[map[string]int64](t, rr))

		rr = do(t, server, "PATCH", "/sessions/"+sess.ID+"/participants", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = do(t, server, "PATCH", "/sessions/"+sess.ID+"/participants", map[string]any{"fee": -1})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateParticipantHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	sess, alice, guest := seedSession(t, server)
	target := func(p session.Participant) string {
		return "/sessions/" + sess.ID + "/participants/" + p.ID
	}

	tests := []struct {
		name   string
		p      session.Participant
		body   map[string]any
		status int
		check  func(t *testing.T, p session.Participant)
	}{
		{"win", alice, map[string]any{"action": "win"}, http.StatusOK, func(t *testing.T, p session.Participant) {
			assert.Equal(t, 1, p.Wins)
		}},
		{"loss", alice, map[string]any{"action": "loss"}, http.StatusOK, func(t *testing.T, p session.Participant) {
			assert.Equal(t, 1, p.Losses)
		}},
		{"set wins", guest, map[string]any{"action": "set_wins", "value": 4}, http.StatusOK, func(t *testing.T, p session.Participant) {
			assert.Equal(t, 4, p.Wins)
		}},
		{"set losses", guest, map[string]any{"action": "set_losses", "value": 2}, http.StatusOK, func(t *testing.T, p session.Participant) {
			assert.Equal(t, 2, p.Losses)
		}},
		{"set fee", guest, map[string]any{"action": "set_fee", "value": 25.5}, http.StatusOK, func(t *testing.T, p session.Participant) {
			assert.Equal(t, 25.5, p.Fee)
		}},
		{"set paid", guest, map[string]any{"action": "set_paid", "value": true}, http.StatusOK, func(t *testing.T, p session.Participant) {
			assert.True(t, p.Paid)
		}},
		{"negative wins", guest, map[string]any{"action": "set_wins", "value": -1}, http.StatusBadRequest, nil},
		{"fractional losses", guest, map[string]any{"action": "set_losses", "value": 1.5}, http.StatusBadRequest, nil},
		{"negative fee", guest, map[string]any{"action": "set_fee", "value": -5}, http.StatusBadRequest, nil},
		{"paid needs a boolean", guest, map[string]any{"action": "set_paid", "value": "yes"}, http.StatusBadRequest, nil},
		{"missing value", guest, map[string]any{"action": "set_wins"}, http.StatusBadRequest, nil},
		{"unknown action", guest, map[string]any{"action": "draw"}, http.StatusBadRequest, nil},
		{"unknown participant", session.Participant{ID: "missing"}, map[string]any{"action": "win"}, http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, server, "PATCH", target(tt.p), tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			if tt.check != nil {
				tt.check(t, decode[session.Participant](t, rr))
			}
		})
	}

	t.Run("participant of another session is not found", func(t *testing.T) {
		rr := do(t, server, "POST", "/sessions", map[string]any{"date": "2024-03-11"})
		require.Equal(t, http.StatusCreated, rr.Code)
		other := decode[session.Session](t, rr)

		rr = do(t, server, "PATCH", "/sessions/"+other.ID+"/participants/"+guest.ID, map[string]any{"action": "win"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
		rr = do(t, server, "DELETE", "/sessions/"+other.ID+"/participants/"+guest.ID, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("summary reflects the edits", func(t *testing.T) {
		rr := do(t, server, "GET", "/sessions/"+sess.ID+"/summary", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		report := decode[ledger.SessionReport](t, rr)
		assert.Equal(t, 5, report.Summary.TotalWins)
		assert.Equal(t, 3, report.Summary.TotalLosses)
		// Alice: (1-1)*10 = 0. Guest: 25.5 + (2-4)*10 = 5.5.
		assert.Equal(t, 5.5, report.Summary.TotalReceivable)
		assert.Equal(t, 1, report.Summary.PaidCount)
	})

	t.Run("deletes a participant", func(t *testing.T) {
		rr := do(t, server, "DELETE", target(guest), nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		rr = do(t, server, "DELETE", target(guest), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestScheduleHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, teardown := setupTestServer(t, mockNotifier, "")
	defer teardown()

	sess, _, _ := seedSession(t, server)
	for _, name := range []string{"Bea", "Carl"} {
		rr := do(t, server, "POST", "/sessions/"+sess.ID+"/participants", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	t.Run("balanced with a seed", func(t *testing.T) {
		rr := do(t, server, "GET", "/sessions/"+sess.ID+"/schedule?mode=balanced&seed=7", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		plan := decode[pairing.Plan](t, rr)
		assert.Equal(t, pairing.ModeBalanced, plan.Mode)
		assert.Len(t, plan.Pairs, 2)
		assert.Len(t, plan.Matches, 1)
		assert.Empty(t, mockNotifier.SendScheduleCalls, "not posted without post=true")
	})

	t.Run("posts to slack", func(t *testing.T) {
		rr := do(t, server, "GET", "/sessions/"+sess.ID+"/schedule?post=true&dry_run=true", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, mockNotifier.SendScheduleCalls, 1)
		assert.Equal(t, sess.ID, mockNotifier.SendScheduleCalls[0].Session.ID)
		assert.True(t, mockNotifier.SendScheduleCalls[0].DryRun)
	})

	t.Run("rejects bad parameters", func(t *testing.T) {
		rr := do(t, server, "GET", "/sessions/"+sess.ID+"/schedule?mode=fair", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		rr = do(t, server, "GET", "/sessions/"+sess.ID+"/schedule?seed=-1", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		rr = do(t, server, "GET", "/sessions/missing/schedule", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCloseSessionHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, teardown := setupTestServer(t, mockNotifier, "")
	defer teardown()

	sess, _, _ := seedSession(t, server)

	rr := do(t, server, "POST", "/sessions/"+sess.ID+"/close?dry_run=true", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, mockNotifier.SendSessionReportCalls, 1, "local pubsub delivers the event in-process")
	assert.Equal(t, sess.ID, mockNotifier.SendSessionReportCalls[0].Session.ID)

	rr = do(t, server, "POST", "/sessions/missing/close", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, server, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[map[string]int](t, rr)
	assert.Equal(t, 1, stats[metrics.KeySessionsClosed])
	assert.Equal(t, 1, stats[metrics.KeySessionsCreated])
}

func TestSessionClosedPushHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, teardown := setupTestServer(t, mockNotifier, "")
	defer teardown()

	sess, _, _ := seedSession(t, server)

	push := func(event pubsub.SessionClosedEvent) *httptest.ResponseRecorder {
		data, err := msgpack.Marshal(event)
		require.NoError(t, err)
		var envelope pubsub.PushRequest
		envelope.Subscription = "projects/test/subscriptions/session-closed"
		envelope.Message.Data = base64.StdEncoding.EncodeToString(data)
		return do(t, server, "POST", "/pubsub/session-closed", envelope)
	}

	rr := push(pubsub.SessionClosedEvent{SessionID: sess.ID, ClosedAt: time.Now().Unix()})
	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, mockNotifier.SendSessionReportCalls, 1)

	rr = push(pubsub.SessionClosedEvent{SessionID: "missing"})
	assert.Equal(t, http.StatusOK, rr.Code, "events for unknown sessions are acknowledged")
	assert.Len(t, mockNotifier.SendSessionReportCalls, 1)

	req, err := http.NewRequest("POST", "/pubsub/session-closed", strings.NewReader(`{"message":{"data":"%%%"}}`))
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaderboardHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	sess, alice, _ := seedSession(t, server)
	rr := do(t, server, "PATCH", "/sessions/"+sess.ID+"/participants/"+alice.ID, map[string]any{"action": "set_wins", "value": 3})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, server, "PATCH", "/sessions/"+sess.ID+"/participants/"+alice.ID, map[string]any{"action": "set_losses", "value": 2})
	require.Equal(t, http.StatusOK, rr.Code)

	t.Run("current month", func(t *testing.T) {
		rr := do(t, server, "GET", "/leaderboard", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		entries := decode[[]ranking.Entry](t, rr)
		require.Len(t, entries, 1, "temporary participants are not ranked")
		assert.Equal(t, "Alice", entries[0].Name)
		assert.Equal(t, 60.0, entries[0].WinRate)
		assert.Equal(t, ranking.TierDiamond, entries[0].Tier)
	})

	t.Run("other month is empty", func(t *testing.T) {
		rr := do(t, server, "GET", "/leaderboard?month=2&year=2024", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, decode[[]ranking.Entry](t, rr))
	})

	t.Run("invalid month", func(t *testing.T) {
		rr := do(t, server, "GET", "/leaderboard?month=13", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("chart", func(t *testing.T) {
		rr := do(t, server, "GET", "/leaderboard/chart.png", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))
	})
}

func TestPostLeaderboardHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, teardown := setupTestServer(t, mockNotifier, "")
	defer teardown()

	rr := do(t, server, "POST", "/leaderboard/post?dry_run=true", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, mockNotifier.SendLeaderboardCalls, 1)
}

func TestReportsHandlers(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	sess, _, _ := seedSession(t, server)

	tests := []struct {
		name     string
		target   string
		status   int
		sessions int
	}{
		{"all", "/reports/all", http.StatusOK, 1},
		{"daily", "/reports/daily?date=2024-03-10", http.StatusOK, 1},
		{"daily by start date", "/reports/daily?startDate=2024-03-10", http.StatusOK, 1},
		{"daily by start date elsewhere", "/reports/daily?startDate=2024-03-11", http.StatusOK, 0},
		{"daily defaults to today", "/reports/daily", http.StatusOK, 0},
		{"range", "/reports/range?startDate=2024-03-01&endDate=2024-03-31", http.StatusOK, 1},
		{"range outside", "/reports/range?startDate=2024-04-01&endDate=2024-04-30", http.StatusOK, 0},
		{"range without bounds", "/reports/range", http.StatusBadRequest, 0},
		{"range reversed", "/reports/range?startDate=2024-03-31&endDate=2024-03-01", http.StatusBadRequest, 0},
		{"unknown type", "/reports/weekly", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, server, "GET", tt.target, nil)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			set := decode[processor.ReportSet](t, rr)
			require.Len(t, set.Reports, tt.sessions)
			if tt.sessions > 0 {
				assert.Equal(t, sess.ID, set.Reports[0].Session.ID)
				assert.Equal(t, 50.0, set.TotalReceivable)
			}
		})
	}

	t.Run("export", func(t *testing.T) {
		rr := do(t, server, "GET", "/reports/all/export.xlsx", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "report-all.xlsx")
		assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

		rr = do(t, server, "GET", "/stats", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, decode[map[string]int](t, rr)[metrics.KeyReportsExported])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock(), "")
	defer teardown()

	sess, alice, _ := seedSession(t, server)
	rr := do(t, server, "PATCH", "/sessions/"+sess.ID+"/participants/"+alice.ID, map[string]any{"action": "win"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, server, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ledger_results_recorded_total 1")
}

func TestLeaderboardCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatLeaderboardResponseFunc = func(entries []ranking.Entry, period ranking.Period) (any, error) {
		return slack.Message{Msg: slack.Msg{Text: fmt.Sprintf("leaderboard %d", len(entries))}}, nil
	}
	mockNotifier.FormatPlayerStatsResponseFunc = func(entry *ranking.Entry, period ranking.Period) (any, error) {
		return slack.Message{Msg: slack.Msg{Text: "stats " + entry.Name}}, nil
	}
	mockNotifier.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		return slack.Message{Msg: slack.Msg{Text: "not found " + query}}, nil
	}
	server, teardown := setupTestServer(t, mockNotifier, testSlackSigningSecret)
	defer teardown()

	sess, alice, _ := seedSession(t, server)
	rr := do(t, server, "PATCH", "/sessions/"+sess.ID+"/participants/"+alice.ID, map[string]any{"action": "win"})
	require.Equal(t, http.StatusOK, rr.Code)

	send := func(req *http.Request) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("returns the leaderboard without text", func(t *testing.T) {
		rr := send(createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "leaderboard 1", decode[slack.Message](t, rr).Text)
	})

	t.Run("handles found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "ali")
		rr := send(createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "stats Alice", decode[slack.Message](t, rr).Text)
	})

	t.Run("handles not found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Zed")
		rr := send(createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "not found Zed", decode[slack.Message](t, rr).Text)
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")
		assert.Equal(t, http.StatusUnauthorized, send(req).Code)
	})

	t.Run("rejects request signed with another secret", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, "other-secret")
		assert.Equal(t, http.StatusUnauthorized, send(req).Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")
		assert.Equal(t, http.StatusUnauthorized, send(req).Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))
		assert.Equal(t, http.StatusUnauthorized, send(req).Code)
	})
}

func TestLeaderboardCommandHandler_SlackDisabled(t *testing.T) {
	server, teardown := setupTestServer(t, nil, "")
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, "")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
