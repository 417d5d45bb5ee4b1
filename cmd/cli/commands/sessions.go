package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// GetSessionsCmd returns the sessions command tree
func GetSessionsCmd() *cobra.Command {
	return sessionsCmd
}

func init() {
	sessionsCmd.AddCommand(acceptCmd)
	sessionsCmd.AddCommand(startCmd)
	sessionsCmd.AddCommand(completeCmd)
	sessionsCmd.AddCommand(verifyCmd)
	sessionsCmd.AddCommand(reissueCmd)

	for _, c := range []*cobra.Command{acceptCmd, startCmd, completeCmd, verifyCmd, reissueCmd} {
		c.Flags().UintP("application-id", "a", 0, "Application ID")
		_ = c.MarkFlagRequired("application-id")
	}
	startCmd.Flags().String("otp", "", "Start code received from the employer")
	_ = startCmd.MarkFlagRequired("otp")
	verifyCmd.Flags().String("otp", "", "Completion code received from the employee")
	_ = verifyCmd.MarkFlagRequired("otp")
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Drive the OTP-gated work session flow",
}

var acceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept an application (employer)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		appID, _ := cmd.Flags().GetUint("application-id")

		result, err := apiClient.Accept(context.Background(), appID)
		if err != nil {
			return fmt.Errorf("error accepting application: %w", err)
		}

		fmt.Printf("application %d accepted; start code %s expires %s\n",
			result.ApplicationID, result.OTP, result.OTPExpiresAt.Format("15:04:05"))
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Redeem a start code (employee)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		appID, _ := cmd.Flags().GetUint("application-id")
		otp, _ := cmd.Flags().GetString("otp")

		result, err := apiClient.StartWork(context.Background(), appID, otp)
		if err != nil {
			return fmt.Errorf("error starting work: %w", err)
		}

		if result.AlreadyStarted {
			fmt.Printf("work on application %d was already started at %s\n",
				result.ApplicationID, result.WorkStartTime.Format("15:04:05"))
			return nil
		}
		fmt.Printf("work on application %d started at %s\n",
			result.ApplicationID, result.WorkStartTime.Format("15:04:05"))
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Initiate completion (employee)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		appID, _ := cmd.Flags().GetUint("application-id")

		result, err := apiClient.InitiateCompletion(context.Background(), appID)
		if err != nil {
			return fmt.Errorf("error initiating completion: %w", err)
		}

		fmt.Printf("application %d worked %d minutes; completion code %s expires %s\n",
			result.ApplicationID, result.WorkDurationMinutes, result.OTP,
			result.OTPExpiresAt.Format("15:04:05"))
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify completion and settle wages (employer)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		appID, _ := cmd.Flags().GetUint("application-id")
		otp, _ := cmd.Flags().GetString("otp")

		summary, err := apiClient.VerifyCompletion(context.Background(), appID, otp)
		if err != nil {
			return fmt.Errorf("error verifying completion: %w", err)
		}

		fmt.Printf("application %d completed: %d minutes at %.2f/h = %.2f\n",
			summary.ApplicationID, summary.WorkDurationMinutes, summary.HourlyRate,
			summary.CalculatedWages)
		return nil
	},
}

var reissueCmd = &cobra.Command{
	Use:   "reissue",
	Short: "Request a new start code (employee)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		appID, _ := cmd.Flags().GetUint("application-id")

		result, err := apiClient.RequestNewOtp(context.Background(), appID)
		if err != nil {
			return fmt.Errorf("error requesting new code: %w", err)
		}

		fmt.Printf("new start code %s for application %d expires %s\n",
			result.OTP, result.ApplicationID, result.OTPExpiresAt.Format("15:04:05"))
		return nil
	},
}
