package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mindbot/monitor/internal/api"
	"github.com/mindbot/monitor/internal/app"
	"github.com/mindbot/monitor/internal/geo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL  string
	intervalS  int
	capacity   int
	lat        float64
	lng        float64
	dbPath     string
	logFile    string
	adminToken string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindbot-monitor",
		Short: "Terminal client for the MindBot health monitoring backend",
		Long: `MindBot Monitor connects to a MindBot backend, polls live vitals,
evaluates alerts, and provides an assistant chat and SOS flow.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:5000", "Backend base URL")
	rootCmd.Flags().IntVarP(&intervalS, "interval", "i", 5, "Vitals polling interval in seconds (minimum 1)")
	rootCmd.Flags().IntVar(&capacity, "capacity", app.DefaultBufferSize, "Pulse trend buffer capacity")
	rootCmd.Flags().Float64Var(&lat, "lat", 0, "Fixed latitude for SOS (skips location lookup)")
	rootCmd.Flags().Float64Var(&lng, "lng", 0, "Fixed longitude for SOS (skips location lookup)")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to the local SQLite store")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write diagnostic logs to this file")

	addStatsCmd(rootCmd)
	addExportCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMonitor(cmd *cobra.Command) error {
	if intervalS < 1 {
		intervalS = 1
	}

	logger, err := buildLogger()
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logger.Sync()

	locator := geo.NewResolver(nil)
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
		locator = geo.NewResolver(geo.Static(geo.Point{Lat: lat, Lng: lng}))
	}

	m := app.New(app.Config{
		Client:       api.New(serverURL),
		Locator:      locator,
		Logger:       logger,
		DBPath:       dbPath,
		PollInterval: time.Duration(intervalS) * time.Second,
		BufferSize:   capacity,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run monitor: %w", err)
	}
	return nil
}

// buildLogger writes to the log file when one is given; the TUI owns
// the terminal, so there is no console sink.
func buildLogger() (*zap.Logger, error) {
	if logFile == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{logFile}
	cfg.ErrorOutputPaths = []string{logFile}
	return cfg.Build()
}

func resolveToken() (string, error) {
	if adminToken != "" {
		return adminToken, nil
	}
	if env := os.Getenv("MINDBOT_ADMIN_TOKEN"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("admin token required: set --token or MINDBOT_ADMIN_TOKEN")
}

// addStatsCmd adds a 'stats' subcommand that prints aggregate usage
// numbers from the backend admin API.
func addStatsCmd(rootCmd *cobra.Command) {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate monitoring statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := resolveToken()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			stats, err := api.New(serverURL).AdminStats(ctx, token)
			if err != nil {
				return fmt.Errorf("failed to fetch stats: %w", err)
			}

			cmd.Println(fmt.Sprintf("Total users:        %d", stats.TotalUsers))
			cmd.Println(fmt.Sprintf("Emergencies:        %d", stats.Emergencies))
			cmd.Println(fmt.Sprintf("Average risk score: %.2f", stats.AverageRiskScore))
			return nil
		},
	}

	statsCmd.Flags().StringVar(&adminToken, "token", "", "Admin API token")
	rootCmd.AddCommand(statsCmd)
}

// addExportCmd adds an 'export' subcommand that downloads the session
// data export.
func addExportCmd(rootCmd *cobra.Command) {
	var output string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download the session data export",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := resolveToken()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			data, err := api.New(serverURL).AdminExport(ctx, token)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			cmd.Println(fmt.Sprintf("Export saved to %s (%d bytes)", output, len(data)))
			return nil
		},
	}

	exportCmd.Flags().StringVar(&adminToken, "token", "", "Admin API token")
	exportCmd.Flags().StringVarP(&output, "output", "o", "mindbot-export.csv", "Output file path")
	rootCmd.AddCommand(exportCmd)
}
