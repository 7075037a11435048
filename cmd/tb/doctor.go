package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/config"
	"github.com/toolbelt-dev/toolbelt/internal/db"
	"github.com/toolbelt-dev/toolbelt/internal/registry"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check system prerequisites and configuration",
		Long:  "Runs diagnostic checks on Toolbelt prerequisites: config, external binaries, the pueue daemon, the activity store, and the tool manifest.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.toolbelt/config.json)")
	return cmd
}

type checkResult struct {
	name   string
	status string // "PASS", "FAIL", "WARN"
	detail string
}

func runDoctor(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Toolbelt Doctor")
	fmt.Fprintln(out, "===============")

	var results []checkResult

	// 1. Config
	cfg, cfgResult := checkConfig(configPath)
	results = append(results, cfgResult)

	// 2. Binaries
	for _, bin := range []string{"gh", "ast-grep", "pexpect-cli", "pueue"} {
		results = append(results, checkBinary(bin))
	}

	// 3. pueue daemon
	results = append(results, checkPueueDaemon())

	// 4. Password command
	if cfg != nil {
		results = append(results, checkPasswordCommand(cfg))
	} else {
		results = append(results, checkResult{"Password command", "FAIL", "skipped (no config)"})
	}

	// 5. Activity store
	if cfg != nil {
		results = append(results, checkStore(cfg))
	} else {
		results = append(results, checkResult{"Activity store", "FAIL", "skipped (no config)"})
	}

	// 6. Tool manifest
	results = append(results, checkManifest())

	// Print results.
	passed, failed, warned := 0, 0, 0
	for _, r := range results {
		printCheckResult(out, r)
		switch r.status {
		case "PASS":
			passed++
		case "FAIL":
			failed++
		case "WARN":
			warned++
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed, %d warning\n", passed, failed, warned)

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func printCheckResult(out io.Writer, r checkResult) {
	fmt.Fprintf(out, "[%s] %s: %s\n", r.status, r.name, r.detail)
}

func checkConfig(path string) (*config.Config, checkResult) {
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, checkResult{"Config file", "FAIL", err.Error()}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, checkResult{"Config file", "FAIL", fmt.Sprintf("%s: %v", path, err)}
	}
	return cfg, checkResult{"Config file", "PASS", path}
}

func checkBinary(name string) checkResult {
	label := binaryLabel(name)

	path, err := exec.LookPath(name)
	if err != nil {
		switch name {
		case "gh":
			return checkResult{label, "WARN", "not found (ghsearch falls back to --api with a token)"}
		case "pexpect-cli", "pueue":
			return checkResult{label, "WARN", "not found (session commands need this)"}
		}
		return checkResult{label, "FAIL", "not found in PATH"}
	}

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return checkResult{label, "PASS", "found (version unknown)"}
	}

	version := strings.TrimSpace(strings.Split(string(out), "\n")[0])
	return checkResult{label, "PASS", version}
}

func binaryLabel(name string) string {
	switch name {
	case "gh":
		return "GitHub CLI"
	case "ast-grep":
		return "ast-grep"
	case "pexpect-cli":
		return "pexpect-cli"
	case "pueue":
		return "pueue"
	}
	return name
}

func checkPueueDaemon() checkResult {
	if _, err := exec.LookPath("pueue"); err != nil {
		return checkResult{"pueue daemon", "WARN", "skipped (pueue not installed)"}
	}
	if err := exec.Command("pueue", "status").Run(); err != nil {
		return checkResult{"pueue daemon", "WARN", "not running (start it with 'pueued -d')"}
	}
	return checkResult{"pueue daemon", "PASS", "running"}
}

func checkPasswordCommand(cfg *config.Config) checkResult {
	parts := strings.Fields(cfg.PasswordCommand)
	if len(parts) == 0 {
		return checkResult{"Password command", "WARN", "not configured (searches prompt for a token)"}
	}
	if _, err := exec.LookPath(parts[0]); err != nil {
		return checkResult{"Password command", "WARN", fmt.Sprintf("%s not found in PATH", parts[0])}
	}
	return checkResult{"Password command", "PASS", cfg.PasswordCommand}
}

func checkStore(cfg *config.Config) checkResult {
	if cfg.Storage.Driver == "sqlite" {
		if _, err := os.Stat(cfg.Storage.Path); os.IsNotExist(err) {
			return checkResult{"Activity store", "WARN", fmt.Sprintf("%s does not exist yet (run 'tb db init')", cfg.Storage.Path)}
		}
	}

	gdb, err := db.Open(cfg.Storage)
	if err != nil {
		return checkResult{"Activity store", "FAIL", err.Error()}
	}

	for _, model := range db.AllModels() {
		if !gdb.Migrator().HasTable(model) {
			return checkResult{"Activity store", "WARN", "schema incomplete (run 'tb db init')"}
		}
	}
	return checkResult{"Activity store", "PASS", storeLocation(cfg)}
}

func checkManifest() checkResult {
	manifest, err := registry.Load()
	if err != nil {
		return checkResult{"Tool manifest", "FAIL", err.Error()}
	}
	return checkResult{"Tool manifest", "PASS", fmt.Sprintf("%d tools", len(manifest.Tools))}
}
