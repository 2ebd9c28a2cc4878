package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with your mobile number and print a session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		mobile, _ := cmd.Flags().GetString("mobile")
		mobile = strings.TrimSpace(mobile)
		client := newClient()

		deviceID, err := client.SendOTP(cmd.Context(), mobile)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stderr, "Enter the OTP sent to your phone: ")
		otp, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && otp == "" {
			return fmt.Errorf("failed to read OTP: %w", err)
		}

		token, err := client.VerifyOTP(cmd.Context(), mobile, strings.TrimSpace(otp), deviceID)
		if err != nil {
			return err
		}

		fmt.Println(token)
		logger.Info("logged in, pass the token with --token or FOODSPEND_SWIGGY_TOKEN")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("mobile", "", "10-digit mobile number")
	_ = loginCmd.MarkFlagRequired("mobile")
	rootCmd.AddCommand(loginCmd)
}
