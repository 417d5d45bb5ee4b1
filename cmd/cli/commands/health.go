package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// GetHealthCmd returns the health command
func GetHealthCmd() *cobra.Command {
	return healthCmd
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the API server's health",
	RunE: func(_ *cobra.Command, _ []string) error {
		health, err := apiClient.HealthCheck(context.Background())
		if err != nil {
			return fmt.Errorf("error checking health: %w", err)
		}
		fmt.Printf("server status: %s\n", health["status"])
		return nil
	},
}
