// Package commands implements the QuickJob operator CLI.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftworks/quickjob/pkg/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagUserID        = "user-id"
)

// environment variable names
const (
	envServerAddress = "QUICKJOB_SERVER_ADDRESS"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// actingUserID is stamped into the identity header of every request.
	actingUserID uint
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.UserID = actingUserID

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", client.DefaultBaseURL,
		"Address of the QuickJob API server (env: QUICKJOB_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().UintVarP(&actingUserID, flagUserID, "u", 0,
		"Acting user ID for requests")

	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetApplicationsCmd())
	RootCmd.AddCommand(GetSessionsCmd())
	RootCmd.AddCommand(GetHealthCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "quickjob",
	Short: "QuickJob CLI - A command line interface for the QuickJob API",
	Long:  `QuickJob CLI is a command line tool for inspecting and driving the job application workflow through the QuickJob API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		return initClient()
	},
}
