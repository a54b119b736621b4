package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(openSessionCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(participantsCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(setFeesCmd)
	rootCmd.AddCommand(removeParticipantCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)

	openSessionCmd.Flags().Float64("fee", -1, "Service fee; the server default when negative")
	openSessionCmd.Flags().Float64("reward", -1, "Per-match reward; the server default when negative")
	scheduleCmd.Flags().String("mode", "random", "Pairing mode: random or balanced")
	scheduleCmd.Flags().Bool("post", false, "Post the schedule to Slack")
	joinCmd.Flags().String("player", "", "Id of a registered player")
	joinCmd.Flags().String("name", "", "Name of a temporary participant")
	joinCmd.Flags().Float64("fee", -1, "Fee of a temporary participant; the service fee when negative")
	joinCmd.MarkFlagsOneRequired("player", "name")
	joinCmd.MarkFlagsMutuallyExclusive("player", "name")
	leaderboardCmd.Flags().Int("month", 0, "Month (1-12); current month when 0")
	leaderboardCmd.Flags().Int("year", 0, "Year; current year when 0")
	for _, c := range []*cobra.Command{reportCmd, exportCmd} {
		c.Flags().String("date", "", "Date of a daily report (YYYY-MM-DD)")
		c.Flags().String("start", "", "Start date of a range report")
		c.Flags().String("end", "", "End date of a range report")
	}
	exportCmd.Flags().StringP("output", "o", "report.xlsx", "File to write the workbook to")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get the lifetime usage counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players", nil)
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player [name]",
	Short: "Register a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/players", map[string]string{"name": args[0]})
	},
}

var openSessionCmd = &cobra.Command{
	Use:   "open-session [date]",
	Short: "Open a session on the given date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"date": args[0]}
		if fee, _ := cmd.Flags().GetFloat64("fee"); fee >= 0 {
			body["serviceFee"] = fee
		}
		if reward, _ := cmd.Flags().GetFloat64("reward"); reward >= 0 {
			body["perMatchReward"] = reward
		}
		return performRequest(http.MethodPost, "/sessions", body)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [session-id]",
	Short: "Generate the match schedule of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		mode, _ := cmd.Flags().GetString("mode")
		q.Set("mode", mode)
		if post, _ := cmd.Flags().GetBool("post"); post {
			q.Set("post", "true")
		}
		return performRequest(http.MethodGet, "/sessions/"+args[0]+"/schedule?"+q.Encode(), nil)
	},
}

var participantsCmd = &cobra.Command{
	Use:   "participants [session-id]",
	Short: "List the participants of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sessions/"+args[0]+"/participants", nil)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join [session-id]",
	Short: "Add a registered player (--player) or a guest (--name) to a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{}
		if id, _ := cmd.Flags().GetString("player"); id != "" {
			body["playerId"] = id
		}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			body["name"] = name
		}
		if fee, _ := cmd.Flags().GetFloat64("fee"); fee >= 0 {
			body["fee"] = fee
		}
		return performRequest(http.MethodPost, "/sessions/"+args[0]+"/participants", body)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score [session-id] [participant-id] [win|loss|set_wins|set_losses|set_fee|set_paid] [value]",
	Short: "Record a result or edit a participant",
	Long: `Applies one action to a participant. win and loss take no value,
set_wins, set_losses and set_fee take a number, set_paid takes true or false.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := actionBody(args[2], args[3:])
		if err != nil {
			return err
		}
		return performRequest(http.MethodPatch, "/sessions/"+args[0]+"/participants/"+args[1], body)
	},
}

var setFeesCmd = &cobra.Command{
	Use:   "set-fees [session-id] [fee]",
	Short: "Set the fee of every temporary participant of a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fee, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid fee %q: %w", args[1], err)
		}
		return performRequest(http.MethodPatch, "/sessions/"+args[0]+"/participants", map[string]any{"fee": fee})
	},
}

var removeParticipantCmd = &cobra.Command{
	Use:   "remove-participant [session-id] [participant-id]",
	Short: "Remove a participant from a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/sessions/"+args[0]+"/participants/"+args[1], nil)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [session-id]",
	Short: "Show the settlement sheet of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/sessions/"+args[0]+"/summary", nil)
	},
}

var closeCmd = &cobra.Command{
	Use:   "close [session-id]",
	Short: "Close a session and post its report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/sessions/"+args[0]+"/close", nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the monthly leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if month, _ := cmd.Flags().GetInt("month"); month != 0 {
			q.Set("month", fmt.Sprint(month))
		}
		if year, _ := cmd.Flags().GetInt("year"); year != 0 {
			q.Set("year", fmt.Sprint(year))
		}
		return performRequest(http.MethodGet, "/leaderboard?"+q.Encode(), nil)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [daily|range|all]",
	Short: "Show the reports of the selected sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/reports/"+args[0]+"?"+reportQuery(cmd).Encode(), nil)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [daily|range|all]",
	Short: "Download the reports as an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		resp, err := http.Get(buildURL("/reports/" + args[0] + "/export.xlsx?" + reportQuery(cmd).Encode()))
		if err != nil {
			return fmt.Errorf("failed to make request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, body)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		n, err := io.Copy(f, resp.Body)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", n, output)
		return nil
	},
}

// actionBody builds the PATCH body of a participant action.
func actionBody(action string, rest []string) (map[string]any, error) {
	body := map[string]any{"action": action}
	switch action {
	case "win", "loss":
		if len(rest) > 0 {
			return nil, fmt.Errorf("%s takes no value", action)
		}
	case "set_wins", "set_losses", "set_fee":
		if len(rest) != 1 {
			return nil, fmt.Errorf("%s needs a number", action)
		}
		v, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: %w", rest[0], action, err)
		}
		body["value"] = v
	case "set_paid":
		if len(rest) != 1 {
			return nil, fmt.Errorf("set_paid needs true or false")
		}
		v, err := strconv.ParseBool(rest[0])
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for set_paid: %w", rest[0], err)
		}
		body["value"] = v
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
	return body, nil
}

func reportQuery(cmd *cobra.Command) url.Values {
	q := url.Values{}
	if v, _ := cmd.Flags().GetString("date"); v != "" {
		q.Set("date", v)
	}
	if v, _ := cmd.Flags().GetString("start"); v != "" {
		q.Set("startDate", v)
	}
	if v, _ := cmd.Flags().GetString("end"); v != "" {
		q.Set("endDate", v)
	}
	return q
}

func buildURL(endpoint string) string {
	u := host + endpoint
	if dryRun {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		u += sep + "dry_run=true"
	}
	return u
}

func performRequest(method, endpoint string, body any) error {
	target := buildURL(endpoint)
	fmt.Printf("Making request to %s %s\n", method, target)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
