package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/pacer/internal/config"
)

const starterManifest = `id: lionagi-v1
name: LionAGI Fundamentals
version: "1.0"
description: Core orchestration concepts, paced adaptively
modules:
  - id: lionagi-v1/branches
    title: Working with Branches
    description: Create a branch, send messages, inspect the conversation
    skill_level: beginner
    complexity_factor: 0.8
    max_hints: 3
    expected_duration: 15m
  - id: lionagi-v1/operate
    title: Structured Operations
    description: Drive a model toward typed, validated outputs
    skill_level: intermediate
    complexity_factor: 1.0
    max_hints: 3
    expected_duration: 25m
  - id: lionagi-v1/tools
    title: Tool Integration
    description: Register tools and let the model invoke them
    skill_level: advanced
    complexity_factor: 1.2
    max_hints: 4
    expected_duration: 30m
`

// cmdInit performs first-time setup
func cmdInit() error {
	fmt.Println("Pacer - First-Time Setup")
	fmt.Println("========================")
	fmt.Println()

	// 1. Create directory structure
	fmt.Print("Creating ~/.pacer directory structure... ")
	pacerDir, err := config.EnsurePacerDir()
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	fmt.Println("✓")

	// 2. Create default config if it doesn't exist
	configPath := filepath.Join(pacerDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Print("Creating default configuration... ")
		if err := config.SaveLocalConfig(config.DefaultLocalConfig()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Println("✓")
	} else {
		fmt.Println("Configuration already exists ✓")
	}

	// 3. Seed a starter catalog if none is present
	catalogDir := filepath.Join(pacerDir, "catalog")
	entries, _ := os.ReadDir(catalogDir)
	if len(entries) == 0 {
		fmt.Print("Installing starter module catalog... ")
		manifestPath := filepath.Join(catalogDir, "lionagi-v1.yaml")
		if err := os.WriteFile(manifestPath, []byte(starterManifest), 0644); err != nil {
			return fmt.Errorf("write starter catalog: %w", err)
		}
		fmt.Println("✓")
	} else {
		fmt.Println("Module catalog already present ✓")
	}

	fmt.Println()
	fmt.Println("Setup complete. Run 'pacer start' to launch the daemon.")
	return nil
}

// cmdConfig shows the current configuration
func cmdConfig() error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("Pacer Configuration")

	fmt.Println("Daemon:")
	fmt.Printf("  bind: %s:%d\n", cfg.Daemon.Bind, cfg.Daemon.Port)
	fmt.Printf("  log_level: %s\n", cfg.Daemon.LogLevel)

	fmt.Println("\nAdaptive:")
	fmt.Printf("  min_difficulty: %.2f\n", cfg.Adaptive.MinDifficulty)
	fmt.Printf("  max_difficulty: %.2f\n", cfg.Adaptive.MaxDifficulty)

	fmt.Println("\nStorage:")
	fmt.Printf("  backend: %s\n", cfg.Storage.Backend)
	if cfg.Storage.Path != "" {
		fmt.Printf("  path: %s\n", cfg.Storage.Path)
	}

	fmt.Println("\nQueue:")
	fmt.Printf("  enabled: %t\n", cfg.Queue.Enabled)
	if cfg.Queue.Enabled {
		fmt.Printf("  url: %s\n", cfg.Queue.URL)
	}

	pacerDir, _ := config.PacerDir()
	fmt.Printf("\nConfig path: %s/config.yaml\n", pacerDir)
	return nil
}
