package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anirudhv/accredauth"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in with the two-step OTP flow",
	Long: `Submits the email and password to the auth service, then prompts for the
one-time code. On success the session is persisted; run "accredauth whoami"
to inspect it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		email := args[0]
		reader := bufio.NewReader(cmd.InOrStdin())

		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		password, err := readLine(reader)
		if err != nil {
			return err
		}

		if _, err := client.RequestOTP(cmd.Context(), email, password); err != nil {
			return loginError(err)
		}

		fmt.Fprint(cmd.OutOrStdout(), "One-time code: ")
		otp, err := readLine(reader)
		if err != nil {
			return err
		}

		if _, err := client.VerifyOTP(cmd.Context(), email, otp); err != nil {
			return loginError(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", client.Identity().User)
		return nil
	},
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// loginError prefers the user-facing message over the raw error chain.
func loginError(err error) error {
	if msg := accredauth.UserMessage(err); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
