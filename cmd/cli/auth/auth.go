package auth

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fmoreau/taskdeck/cmd/cli/client"
	"github.com/fmoreau/taskdeck/cmd/cli/config"
)

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, login, and manage the CLI session",
	}

	authCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd(), meCmd())
	rootCmd.AddCommand(authCmd)
}

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func registerCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Message string   `json:"message"`
				User    userView `json:"user"`
			}
			payload := map[string]string{"name": name, "email": email, "password": password}
			if err := client.DoAndSaveSession(http.MethodPost, "/auth/register", payload, &out); err != nil {
				return err
			}
			fmt.Printf("%s (logged in as %s)\n", out.Message, out.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and cache the session token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Message string   `json:"message"`
				User    userView `json:"user"`
			}
			payload := map[string]string{"email": email, "password": password}
			if err := client.DoAndSaveSession(http.MethodPost, "/auth/login", payload, &out); err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", out.Message, out.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the cached session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Best effort: the server only clears the cookie anyway.
			_ = client.Do(http.MethodPost, "/auth/logout", nil, nil, false)
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the currently logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				User userView `json:"user"`
			}
			if err := client.Do(http.MethodGet, "/auth/me", nil, &out, true); err != nil {
				return err
			}
			fmt.Printf("%s <%s> (id %s)\n", out.User.Name, out.User.Email, out.User.ID)
			return nil
		},
	}
}
