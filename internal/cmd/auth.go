package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/etravel/internal/api"
	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the planning backend",
	Long: `Sign in and store the session token for later runs.

The password is read without echo when stdin is a terminal, otherwise the
first line of stdin is used.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var loginEmail string

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.client.Health(cmd.Context()); err != nil {
		r.logger.Warn("backend unreachable", "url", r.client.BaseURL(), "error", err)
		return errors.New(r.t("error.backend_unreachable", i18n.Vars{"url": r.client.BaseURL()}))
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	email := strings.TrimSpace(loginEmail)
	if email == "" {
		fmt.Fprintf(out, "%s: ", r.t("auth.email", nil))
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	password, err := readPassword(cmd, in, r.t("auth.password", nil))
	if err != nil {
		return err
	}

	resp, err := r.client.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
	if err != nil {
		r.logger.Warn("login failed", "error", err)
		return errors.New(r.locale.Error(err))
	}
	if err := r.sessions.Save(cmd.Context(), session.Session{Token: resp.Token, Email: resp.Email}); err != nil {
		return errors.Wrap(err, "failed to store session")
	}

	fmt.Fprintln(out, r.t("auth.signed_in_as", i18n.Vars{"email": resp.Email}))
	return nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ", prompt)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.planner.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.t("auth.logged_out", nil))
	return nil
}
