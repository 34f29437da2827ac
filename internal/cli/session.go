// Package cli implements the suckdsa terminal client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kartik99Lm10/SuckDSA/internal/client"
)

const defaultServer = "http://localhost:8001"

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// openController is a test seam; the default persists the token in SQLite.
var openController = func(ctx context.Context, server, sessionPath string) (*client.Controller, func(), error) {
	store, err := client.OpenSQLiteTokenStore(ctx, sessionPath)
	if err != nil {
		return nil, nil, err
	}
	ctrl := client.NewController(server, store, client.Options{})
	return ctrl, func() { _ = store.Close() }, nil
}

// AddPersistentFlags registers the flags shared by every subcommand.
func AddPersistentFlags(root *cobra.Command) {
	server := os.Getenv("SUCKDSA_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().String("server", server, "SuckDSA API base URL")
	root.PersistentFlags().String("session", "", "Session database path (default ~/.suckdsa/session.db)")
}

func defaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".suckdsa", "session.db"), nil
}

// controllerFor opens the controller and, when restore is set, restores the stored session.
func controllerFor(cmd *cobra.Command, restore bool) (*client.Controller, func(), error) {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = defaultServer
	}
	sessionPath, _ := cmd.Flags().GetString("session")
	if sessionPath == "" {
		p, err := defaultSessionPath()
		if err != nil {
			return nil, nil, err
		}
		sessionPath = p
	}

	ctrl, closeFn, err := openController(cmd.Context(), server, sessionPath)
	if err != nil {
		return nil, nil, err
	}
	if restore {
		if err := ctrl.Init(cmd.Context()); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return ctrl, closeFn, nil
}

func requireLogin(ctrl *client.Controller) error {
	if !ctrl.IsAuthenticated() {
		return exitError(exitNotLoggedIn, "not logged in, run `suckdsa login` first")
	}
	return nil
}

// passwordFlag returns --password, prompting without echo when it is absent.
func passwordFlag(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func printResult(w io.Writer, res client.Result) error {
	if !res.Success {
		return exitError(exitActionFailed, "%s", res.Message)
	}
	fmt.Fprintln(w, res.Message)
	return nil
}
