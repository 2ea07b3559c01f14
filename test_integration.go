// Manual end to end check: boots the match server on a loopback port,
// starts a match through the HTTP API, follows it over the websocket feed
// and prints the archive standings once it finishes.
//
// Run it with `go run test_integration.go`. It is not part of the test
// suite.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/config"
	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := config.Init(""); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8091
	cfg.Server.MoveIntervalMs = 20
	// Random matches often never converge; the budget guarantees the feed
	// reports the match over well inside the watch timeout.
	cfg.Sim.MaxMoves = 400
	cfg.Archive.Enabled = true
	cfg.Archive.Path = filepath.Join(os.TempDir(), "colorwar_integration.db")
	defer os.Remove(cfg.Archive.Path)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Run(ctx)
	}()

	// Give the listener time to come up.
	time.Sleep(200 * time.Millisecond)
	base := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)

	matchID, err := createMatch(base)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create match")
	}
	logger.Info().Str("match_id", matchID).Msg("Match created, watching the feed")

	snap, err := watchMatch(base, matchID, 30*time.Second)
	if err != nil {
		logger.Fatal().Err(err).Msg("Feed ended before the match did")
	}
	winner := "nobody"
	if snap.Status.Winner != game.NoWinner {
		winner = snap.Players[snap.Status.Winner].Color
	}
	logger.Info().
		Int("turns", snap.Turn).
		Str("winner", winner).
		Msg("Match finished")

	if err := printStandings(base); err != nil {
		logger.Fatal().Err(err).Msg("Failed to read standings")
	}

	cancel()
	if err := <-serverDone; err != nil {
		logger.Fatal().Err(err).Msg("Server stopped with error")
	}
	logger.Info().Msg("Done")
}

func createMatch(base string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"colors": []string{"red", "green", "blue"},
		"seed":   time.Now().UnixNano(),
	})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(base+"/api/matches", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create match: status %d", resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// watchMatch follows the websocket feed until a snapshot reports the match
// over, and returns that snapshot.
func watchMatch(base, matchID string, timeout time.Duration) (*game.Snapshot, error) {
	wsURL := fmt.Sprintf("ws%s/api/matches/%s/live", base[len("http"):], matchID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	for {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}

		var frame struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, err
		}
		if frame.Type != "snapshot" {
			continue
		}

		var snap game.Snapshot
		if err := json.Unmarshal(frame.Data, &snap); err != nil {
			return nil, err
		}
		if snap.Status.Over {
			return &snap, nil
		}
	}
}

func printStandings(base string) error {
	resp, err := http.Get(base + "/api/archive/standings")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("standings: status %d", resp.StatusCode)
	}

	var standings []struct {
		Color  string `json:"color"`
		Played int    `json:"played"`
		Won    int    `json:"won"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&standings); err != nil {
		return err
	}

	fmt.Println("standings:")
	for _, row := range standings {
		fmt.Printf("  %-8s played %d, won %d\n", row.Color, row.Played, row.Won)
	}
	return nil
}
