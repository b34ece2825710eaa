package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// cmdModule handles module subcommands
func cmdModule(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'pacer start' first)")
	}

	subCmd := "list"
	if len(args) > 0 {
		subCmd = args[0]
	}

	switch subCmd {
	case "list", "":
		return cmdModuleList()
	case "info":
		if len(args) < 2 {
			return fmt.Errorf("usage: pacer module info <module-id>")
		}
		return cmdModuleInfo(args[1])
	default:
		return fmt.Errorf("unknown module command: %s (valid: list, info)", subCmd)
	}
}

func cmdModuleList() error {
	resp, err := http.Get(daemonAddr + "/v1/modules")
	if err != nil {
		return fmt.Errorf("list modules: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Modules []struct {
			ID               string  `json:"id"`
			Title            string  `json:"title"`
			SkillLevel       string  `json:"skill_level"`
			ComplexityFactor float64 `json:"complexity_factor"`
		} `json:"modules"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(body.Modules) == 0 {
		fmt.Println("No modules found. Run 'pacer init' to install the starter catalog.")
		return nil
	}

	fmt.Println("Available Modules")
	fmt.Println("=================")
	for _, m := range body.Modules {
		fmt.Printf("%-28s %-12s complexity %.1f  %s\n", m.ID, m.SkillLevel, m.ComplexityFactor, m.Title)
	}
	return nil
}

func cmdModuleInfo(id string) error {
	resp, err := http.Get(daemonAddr + "/v1/modules/" + escapePath(id))
	if err != nil {
		return fmt.Errorf("get module: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("module %s not found", id)
	}

	var m struct {
		ID               string   `json:"id"`
		Title            string   `json:"title"`
		Description      string   `json:"description"`
		SkillLevel       string   `json:"skill_level"`
		ComplexityFactor float64  `json:"complexity_factor"`
		Objectives       []string `json:"objectives"`
		Prerequisites    []string `json:"prerequisites"`
		MaxHints         int      `json:"max_hints"`
		ExpectedDuration string   `json:"expected_duration"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Module:      %s\n", m.ID)
	fmt.Printf("Title:       %s\n", m.Title)
	if m.Description != "" {
		fmt.Printf("Description: %s\n", m.Description)
	}
	fmt.Printf("Skill:       %s\n", m.SkillLevel)
	fmt.Printf("Complexity:  %.1f\n", m.ComplexityFactor)
	fmt.Printf("Max hints:   %d\n", m.MaxHints)
	if m.ExpectedDuration != "" && m.ExpectedDuration != "0s" {
		fmt.Printf("Duration:    %s\n", m.ExpectedDuration)
	}
	if len(m.Objectives) > 0 {
		fmt.Println("Objectives:")
		for _, o := range m.Objectives {
			fmt.Printf("  - %s\n", o)
		}
	}
	if len(m.Prerequisites) > 0 {
		fmt.Printf("Requires:    %s\n", strings.Join(m.Prerequisites, ", "))
	}
	return nil
}

// escapePath escapes a module ID for use in a URL path while keeping
// its slashes as separators.
func escapePath(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
