// Package main implements the motivatr CLI: a terminal board plus plain
// subcommands against a running motivatrd server.
package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fyrsmithlabs/motivatr/internal/tui"
	"github.com/fyrsmithlabs/motivatr/pkg/client"
)

var (
	serverURL string
	userEmail string
	version   = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "motivatr",
	Short: "CLI and terminal board for the motivatr server",
	Long: `motivatr is a command-line interface for a running motivatrd server.
It provides a terminal task board plus plain subcommands for scripting.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "motivatrd server URL")
	rootCmd.PersistentFlags().StringVarP(&userEmail, "user", "u", os.Getenv("MOTIVATR_USER"), "user email (defaults to $MOTIVATR_USER)")
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
}

func api() *client.Client {
	return client.New(serverURL)
}

func requireUser() error {
	if userEmail == "" {
		return fmt.Errorf("no user set: pass --user or set MOTIVATR_USER")
	}
	return nil
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive task board",
	Long: `Open the full-screen terminal board.

Examples:
  motivatr board --user ada@example.com
  MOTIVATR_USER=ada@example.com motivatr board`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		model := tui.NewModel(api(), userEmail)
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current and longest streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		s, err := api().Streak(cmd.Context(), userEmail)
		if err != nil {
			return err
		}

		fmt.Printf("Current streak: %d days\n", s.Current)
		fmt.Printf("Longest streak: %d days\n", s.Longest)
		if !s.LastActiveDate.IsZero() {
			fmt.Printf("Last active:    %s\n", s.LastActiveDate.Format("Mon Jan 2 2006"))
		}

		days := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
		var week []string
		for i, done := range s.WeeklyProgress {
			mark := "○"
			if done {
				mark = "●"
			}
			week = append(week, mark+days[i])
		}
		fmt.Printf("This week:      %s\n", strings.Join(week, " "))
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check motivatrd server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := api().Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}
		fmt.Printf("%s: %s\n", h.Service, h.Status)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		password, err := readPassword()
		if err != nil {
			return err
		}

		u, err := api().Signup(cmd.Context(), name, args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("user %s created\n", u.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and print an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}

		res, err := api().Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", res.User.Email)
		fmt.Println(res.Token)
		return nil
	},
}

func init() {
	signupCmd.Flags().String("name", "", "display name")
}

// readPassword prompts on the terminal without echo, falling back to stdin
// for piped input.
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	var pw string
	if _, err := fmt.Fscanln(os.Stdin, &pw); err != nil {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return pw, nil
}

func formatDue(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("Jan 2 15:04")
}
