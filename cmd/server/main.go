package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studydesk/backend/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "studydesk",
	Short: "Exam practice API",
	Long:  "studydesk serves question practice, quiz sessions, error review, a notebook and a progress dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (defaults to ./config.yaml when present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
