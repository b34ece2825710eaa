package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// cmdAttempt handles attempt subcommands
func cmdAttempt(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'pacer start' first)")
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: pacer attempt <start|run|hint|complete|abandon|show> ...")
	}

	switch args[0] {
	case "start":
		if len(args) < 3 {
			return fmt.Errorf("usage: pacer attempt start <user> <module-id>")
		}
		return cmdAttemptStart(args[1], args[2])
	case "run":
		if len(args) < 2 {
			return fmt.Errorf("usage: pacer attempt run <attempt-id> [error ...]")
		}
		return cmdAttemptRun(args[1], args[2:])
	case "hint":
		if len(args) < 2 {
			return fmt.Errorf("usage: pacer attempt hint <attempt-id>")
		}
		return cmdAttemptHint(args[1])
	case "complete":
		if len(args) < 3 {
			return fmt.Errorf("usage: pacer attempt complete <attempt-id> <score> [--fail]")
		}
		return cmdAttemptComplete(args[1], args[2], len(args) > 3 && args[3] == "--fail")
	case "abandon":
		if len(args) < 2 {
			return fmt.Errorf("usage: pacer attempt abandon <attempt-id>")
		}
		return cmdAttemptAbandon(args[1])
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: pacer attempt show <attempt-id>")
		}
		return cmdAttemptShow(args[1])
	default:
		return fmt.Errorf("unknown attempt command: %s", args[0])
	}
}

func cmdAttemptStart(userID, moduleID string) error {
	payload, _ := json.Marshal(map[string]string{
		"user_id":   userID,
		"module_id": moduleID,
	})
	resp, err := http.Post(daemonAddr+"/v1/attempts", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("start attempt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("module %s not found", moduleID)
	}
	if resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}

	var body struct {
		Attempt struct {
			ID string `json:"id"`
		} `json:"attempt"`
		Difficulty float64 `json:"difficulty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Attempt:    %s\n", body.Attempt.ID)
	fmt.Printf("Difficulty: %s %.2f\n", renderProgressBar(body.Difficulty, 20), body.Difficulty)
	return nil
}

func cmdAttemptRun(id string, errs []string) error {
	payload, _ := json.Marshal(map[string]any{"errors": errs})
	resp, err := http.Post(daemonAddr+"/v1/attempts/"+id+"/runs", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var attempt struct {
		RunCount   int `json:"run_count"`
		ErrorCount int `json:"error_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&attempt); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	fmt.Printf("Recorded run %d (%d error(s) so far)\n", attempt.RunCount, attempt.ErrorCount)
	return nil
}

func cmdAttemptHint(id string) error {
	resp, err := http.Post(daemonAddr+"/v1/attempts/"+id+"/hints", "application/json", nil)
	if err != nil {
		return fmt.Errorf("record hint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var attempt struct {
		HintCount int `json:"hint_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&attempt); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	fmt.Printf("Recorded hint %d\n", attempt.HintCount)
	return nil
}

func cmdAttemptComplete(id, scoreArg string, failed bool) error {
	score, err := strconv.ParseFloat(scoreArg, 64)
	if err != nil {
		return fmt.Errorf("invalid score %q (expected 0..1)", scoreArg)
	}

	payload, _ := json.Marshal(map[string]any{
		"score":   score,
		"success": !failed,
	})
	resp, err := http.Post(daemonAddr+"/v1/attempts/"+id+"/complete", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("complete attempt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	return printAdjustment(resp.Body)
}

func cmdAttemptAbandon(id string) error {
	resp, err := http.Post(daemonAddr+"/v1/attempts/"+id+"/abandon", "application/json", nil)
	if err != nil {
		return fmt.Errorf("abandon attempt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	fmt.Println("Attempt abandoned.")
	return printAdjustment(resp.Body)
}

func cmdAttemptShow(id string) error {
	resp, err := http.Get(daemonAddr + "/v1/attempts/" + id)
	if err != nil {
		return fmt.Errorf("get attempt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("attempt %s not found", id)
	}

	var attempt struct {
		ID         string  `json:"id"`
		UserID     string  `json:"user_id"`
		ModuleID   string  `json:"module_id"`
		Status     string  `json:"status"`
		RunCount   int     `json:"run_count"`
		HintCount  int     `json:"hint_count"`
		ErrorCount int     `json:"error_count"`
		Score      float64 `json:"score"`
		Success    bool    `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&attempt); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Attempt: %s\n", attempt.ID)
	fmt.Printf("User:    %s\n", attempt.UserID)
	fmt.Printf("Module:  %s\n", attempt.ModuleID)
	fmt.Printf("Status:  %s\n", attempt.Status)
	fmt.Printf("Runs:    %d (%d error(s))\n", attempt.RunCount, attempt.ErrorCount)
	fmt.Printf("Hints:   %d\n", attempt.HintCount)
	if attempt.Status == "completed" {
		fmt.Printf("Score:   %.2f (success: %t)\n", attempt.Score, attempt.Success)
	}
	return nil
}

// printAdjustment renders the controller's response to a finished attempt
func printAdjustment(body io.Reader) error {
	var adj struct {
		Previous float64 `json:"previous"`
		New      float64 `json:"new"`
		Reason   string  `json:"reason"`
		Zone     string  `json:"zone"`
	}
	if err := json.NewDecoder(body).Decode(&adj); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Zone:       %s\n", adj.Zone)
	fmt.Printf("Reason:     %s\n", adj.Reason)
	fmt.Printf("Difficulty: %.2f → %.2f %s\n", adj.Previous, adj.New, renderProgressBar(adj.New, 20))
	return nil
}

// apiError extracts the daemon's error message from a failed response
func apiError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	if body.Details != "" {
		return fmt.Errorf("%s: %s", body.Error, body.Details)
	}
	return fmt.Errorf("%s", body.Error)
}
