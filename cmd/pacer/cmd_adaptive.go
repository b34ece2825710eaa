package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// cmdDifficulty shows the current difficulty for a user/module pair
func cmdDifficulty(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pacer difficulty <user> <module-id>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'pacer start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/users/" + url.PathEscape(args[0]) + "/difficulty/" + escapePath(args[1]))
	if err != nil {
		return fmt.Errorf("get difficulty: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		UserID     string  `json:"user_id"`
		ModuleID   string  `json:"module_id"`
		Difficulty float64 `json:"difficulty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	bar := renderProgressBar(body.Difficulty, 20)
	fmt.Printf("%s / %s\n", body.UserID, body.ModuleID)
	fmt.Printf("Difficulty: %s %.2f\n", bar, body.Difficulty)
	return nil
}

// cmdPredict predicts the starting difficulty for a user/module pair
func cmdPredict(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pacer predict <user> <module-id>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'pacer start' first)")
	}

	payload, _ := json.Marshal(map[string]string{
		"user_id":   args[0],
		"module_id": args[1],
	})
	resp, err := http.Post(daemonAddr+"/v1/predictions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("module %s not found", args[1])
	}

	var body struct {
		SkillLevel string  `json:"skill_level"`
		Difficulty float64 `json:"difficulty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	bar := renderProgressBar(body.Difficulty, 20)
	fmt.Printf("Skill level: %s\n", body.SkillLevel)
	fmt.Printf("Predicted:   %s %.2f\n", bar, body.Difficulty)
	return nil
}

// cmdHistory shows the adjustment history for a user/module pair
func cmdHistory(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pacer history <user> <module-id>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'pacer start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/users/" + url.PathEscape(args[0]) + "/history/" + escapePath(args[1]))
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Adjustments []struct {
			Previous  float64   `json:"previous"`
			New       float64   `json:"new"`
			Reason    string    `json:"reason"`
			Zone      string    `json:"zone"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"adjustments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(body.Adjustments) == 0 {
		fmt.Println("No adjustments yet.")
		return nil
	}

	fmt.Printf("Adjustment History: %s / %s\n", args[0], args[1])
	fmt.Println("==================")
	for _, adj := range body.Adjustments {
		fmt.Printf("%s  %.2f → %.2f  %-10s (%s)\n",
			adj.CreatedAt.Local().Format("2006-01-02 15:04"),
			adj.Previous, adj.New, adj.Reason, adj.Zone)
	}
	return nil
}

// cmdModel shows a user's learner trait model
func cmdModel(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pacer model <user>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'pacer start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/users/" + url.PathEscape(args[0]) + "/model")
	if err != nil {
		return fmt.Errorf("get model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		fmt.Printf("No model for %s yet. Traits build up as observations arrive.\n", args[0])
		return nil
	}

	var model struct {
		UserID               string    `json:"user_id"`
		LearningSpeed        float64   `json:"learning_speed"`
		Persistence          float64   `json:"persistence"`
		FrustrationTolerance float64   `json:"frustration_tolerance"`
		PreferredDifficulty  float64   `json:"preferred_difficulty"`
		UpdatedAt            time.Time `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&model); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Learner Model: %s\n", model.UserID)
	fmt.Println("=============")
	fmt.Printf("Learning speed:        %s %.2f\n", renderProgressBar(model.LearningSpeed, 20), model.LearningSpeed)
	fmt.Printf("Persistence:           %s %.2f\n", renderProgressBar(model.Persistence, 20), model.Persistence)
	fmt.Printf("Frustration tolerance: %s %.2f\n", renderProgressBar(model.FrustrationTolerance, 20), model.FrustrationTolerance)
	fmt.Printf("Preferred difficulty:  %s %.2f\n", renderProgressBar(model.PreferredDifficulty, 20), model.PreferredDifficulty)
	fmt.Printf("Updated:               %s\n", model.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// cmdProgress shows a user's progress report
func cmdProgress(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pacer progress <user>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'pacer start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/users/" + url.PathEscape(args[0]) + "/progress")
	if err != nil {
		return fmt.Errorf("get progress: %w", err)
	}
	defer resp.Body.Close()

	var report struct {
		Observations int     `json:"observations"`
		Adjustments  int     `json:"adjustments"`
		AvgScore     float64 `json:"avg_score"`
		Struggling   int     `json:"struggling_modules"`
		Excelling    int     `json:"excelling_modules"`
		Model        *struct {
			LearningSpeed        float64 `json:"learning_speed"`
			Persistence          float64 `json:"persistence"`
			FrustrationTolerance float64 `json:"frustration_tolerance"`
			PreferredDifficulty  float64 `json:"preferred_difficulty"`
		} `json:"model"`
		Modules []struct {
			ModuleID     string  `json:"module_id"`
			Difficulty   float64 `json:"difficulty"`
			Observations int     `json:"observations"`
			AvgScore     float64 `json:"avg_score"`
			Zone         string  `json:"zone"`
			Trend        string  `json:"trend"`
		} `json:"modules"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Progress Report: %s\n", args[0])
	fmt.Println("================")
	fmt.Printf("Observations:  %d\n", report.Observations)
	fmt.Printf("Adjustments:   %d\n", report.Adjustments)
	fmt.Printf("Average score: %.2f\n", report.AvgScore)
	fmt.Printf("Struggling:    %d module(s)\n", report.Struggling)
	fmt.Printf("Excelling:     %d module(s)\n", report.Excelling)

	if report.Model != nil {
		fmt.Println("\nLearner Traits")
		fmt.Println("--------------")
		fmt.Printf("Learning speed:        %s %.2f\n", renderProgressBar(report.Model.LearningSpeed, 20), report.Model.LearningSpeed)
		fmt.Printf("Persistence:           %s %.2f\n", renderProgressBar(report.Model.Persistence, 20), report.Model.Persistence)
		fmt.Printf("Frustration tolerance: %s %.2f\n", renderProgressBar(report.Model.FrustrationTolerance, 20), report.Model.FrustrationTolerance)
		fmt.Printf("Preferred difficulty:  %s %.2f\n", renderProgressBar(report.Model.PreferredDifficulty, 20), report.Model.PreferredDifficulty)
	}

	if len(report.Modules) > 0 {
		fmt.Println("\nModules")
		fmt.Println("-------")
		for _, m := range report.Modules {
			bar := renderProgressBar(m.Difficulty, 20)
			fmt.Printf("%-28s %s %.2f  avg %.2f  %-8s %s\n",
				m.ModuleID, bar, m.Difficulty, m.AvgScore, m.Zone, m.Trend)
		}
	}
	return nil
}
