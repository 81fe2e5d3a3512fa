package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <user-code>",
	Short: "Sign in and save the session",
	Long: `Sign in against the auth endpoint and save the session to disk.

The password is read from the MEDILINK_PASSWORD environment variable when
set, otherwise from standard input. Subsequent serve runs and CLI commands
reuse the saved session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return login(args[0])
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func login(userCode string) error {
	_, store, err := newStore()
	if err != nil {
		return err
	}

	password := os.Getenv("MEDILINK_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	session, err := store.SignIn(context.Background(), userCode, password)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s (user %d)\n", session.Username, session.AppUserID)
	if len(session.Roles) > 0 {
		fmt.Printf("Roles: %s\n", strings.Join(session.Roles, ", "))
	}
	return nil
}
