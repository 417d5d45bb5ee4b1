package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// applicationOutput represents the filtered output for an application
type applicationOutput struct {
	ID       uint   `json:"id"`
	PublicID string `json:"public_id"`
	JobID    uint   `json:"job_id"`
	Status   string `json:"status"`
}

// GetApplicationsCmd returns the applications command tree
func GetApplicationsCmd() *cobra.Command {
	return applicationsCmd
}

func init() {
	applicationsCmd.AddCommand(listApplicationsCmd)
	applicationsCmd.AddCommand(applyCmd)

	listApplicationsCmd.Flags().UintP("job-id", "j", 0, "List a job's applications instead of the acting user's")

	applyCmd.Flags().UintP("job-id", "j", 0, "Job ID to apply to")
	_ = applyCmd.MarkFlagRequired("job-id")
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "Inspect and file job applications",
}

var listApplicationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("job-id")

		apps, err := apiClient.ListApplications(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching applications: %w", err)
		}

		output := make([]applicationOutput, len(apps))
		for i, app := range apps {
			output[i] = applicationOutput{
				ID:       app.ID,
				PublicID: app.PublicID.String(),
				JobID:    app.JobID,
				Status:   app.Status.String(),
			}
		}

		pretty, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting output: %w", err)
		}
		fmt.Println(string(pretty))
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "File an application for a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("job-id")

		app, err := apiClient.Apply(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error filing application: %w", err)
		}

		fmt.Printf("application %d filed for job %d (%s)\n", app.ID, app.JobID, app.Status)
		return nil
	},
}
