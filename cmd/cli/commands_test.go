package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionBody(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		rest    []string
		want    map[string]any
		wantErr bool
	}{
		{"win", "win", nil, map[string]any{"action": "win"}, false},
		{"loss", "loss", nil, map[string]any{"action": "loss"}, false},
		{"set wins", "set_wins", []string{"4"}, map[string]any{"action": "set_wins", "value": 4.0}, false},
		{"set fee", "set_fee", []string{"12.5"}, map[string]any{"action": "set_fee", "value": 12.5}, false},
		{"set paid", "set_paid", []string{"true"}, map[string]any{"action": "set_paid", "value": true}, false},
		{"win with a value", "win", []string{"1"}, nil, true},
		{"set wins without a value", "set_wins", nil, nil, true},
		{"set losses not a number", "set_losses", []string{"many"}, nil, true},
		{"set paid not a bool", "set_paid", []string{"maybe"}, nil, true},
		{"unknown action", "draw", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := actionBody(tt.action, tt.rest)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type capturedRequest struct {
	method string
	path   string
	body   map[string]any
}

func runCLI(t *testing.T, args ...string) capturedRequest {
	t.Helper()
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		if r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got.body))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rootCmd.SetArgs(append(args, "--host", srv.URL))
	require.NoError(t, rootCmd.Execute())
	return got
}

func TestParticipantCommands(t *testing.T) {
	t.Run("score sends the action", func(t *testing.T) {
		got := runCLI(t, "score", "s1", "p1", "set_paid", "true")
		assert.Equal(t, http.MethodPatch, got.method)
		assert.Equal(t, "/sessions/s1/participants/p1", got.path)
		assert.Equal(t, map[string]any{"action": "set_paid", "value": true}, got.body)
	})

	t.Run("join adds a guest", func(t *testing.T) {
		got := runCLI(t, "join", "s1", "--name", "Guest", "--fee", "20")
		assert.Equal(t, http.MethodPost, got.method)
		assert.Equal(t, "/sessions/s1/participants", got.path)
		assert.Equal(t, map[string]any{"name": "Guest", "fee": 20.0}, got.body)
	})

	t.Run("set-fees updates every temporary", func(t *testing.T) {
		got := runCLI(t, "set-fees", "s1", "70")
		assert.Equal(t, http.MethodPatch, got.method)
		assert.Equal(t, "/sessions/s1/participants", got.path)
		assert.Equal(t, map[string]any{"fee": 70.0}, got.body)
	})

	t.Run("remove-participant deletes", func(t *testing.T) {
		got := runCLI(t, "remove-participant", "s1", "p1")
		assert.Equal(t, http.MethodDelete, got.method)
		assert.Equal(t, "/sessions/s1/participants/p1", got.path)
	})
}
