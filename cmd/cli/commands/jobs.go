package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	District    string `json:"district"`
	State       string `json:"state"`
	SalaryRange string `json:"salary_range"`
	Active      bool   `json:"active"`
}

// jobListOutput represents the filtered output for a list of jobs
type jobListOutput struct {
	Jobs []jobOutput `json:"jobs"`
}

// GetJobsCmd returns the jobs command tree
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)

	listJobsCmd.Flags().StringP("district", "d", "", "Filter jobs by district")
	listJobsCmd.Flags().String("state", "", "Filter jobs by state")

	getJobCmd.Flags().UintP("id", "i", 0, "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect job postings",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List open jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		district, _ := cmd.Flags().GetString("district")
		state, _ := cmd.Flags().GetString("state")

		jobs, err := apiClient.ListOpenJobs(context.Background(), district, state)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		output := jobListOutput{Jobs: make([]jobOutput, len(jobs))}
		for i, job := range jobs {
			output.Jobs[i] = jobOutput{
				ID:          job.ID,
				Title:       job.Title,
				District:    job.District,
				State:       job.State,
				SalaryRange: job.SalaryRange,
				Active:      job.IsActive,
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

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a job by ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetUint("id")

		job, err := apiClient.GetJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}

		pretty, err := json.MarshalIndent(job, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting output: %w", err)
		}
		fmt.Println(string(pretty))
		return nil
	},
}
