package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return whoami()
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func whoami() error {
	cfg, store, err := newStore()
	if err != nil {
		return err
	}

	session := store.CurrentUser()
	if session == nil {
		fmt.Println("Not signed in")
		return nil
	}

	fmt.Printf("User:           %s (user %d)\n", session.Username, session.AppUserID)
	if len(session.Roles) > 0 {
		fmt.Printf("Roles:          %s\n", strings.Join(session.Roles, ", "))
	}
	fmt.Printf("Refresh expiry: %s\n", session.RefreshTokenExpiryTime)
	fmt.Printf("Session file:   %s\n", cfg.GetSessionFile())
	return nil
}
