package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartik99Lm10/SuckDSA/internal/client"
)

// NewChatCmd creates the "chat" subcommand. Without a message argument it
// reads one message per line from stdin and keeps the same session.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the DSA mentor a question",
		RunE:  runChat,
	}
	cmd.Flags().String("session-id", "", "Continue an existing chat session")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	sessionID, _ := cmd.Flags().GetString("session-id")
	ctrl, closeFn, err := controllerFor(cmd, true)
	if err != nil {
		return err
	}
	defer closeFn()
	if err := requireLogin(ctrl); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		reply, err := ctrl.Chat(cmd.Context(), strings.Join(args, " "), sessionID)
		if err != nil {
			return chatError(err)
		}
		fmt.Fprintln(out, reply.Response)
		fmt.Fprintf(out, "\nsession: %s\n", reply.SessionID)
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}
		reply, err := ctrl.Chat(cmd.Context(), line, sessionID)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), chatError(err).Error())
			continue
		}
		sessionID = reply.SessionID
		fmt.Fprintf(out, "%s\n\n", reply.Response)
	}
	if sessionID != "" {
		fmt.Fprintf(out, "\nsession: %s\n", sessionID)
	}
	return scanner.Err()
}

func chatError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return exitError(exitActionFailed, "%s", apiErr.Message)
	}
	return err
}

// NewHistoryCmd creates the "history" subcommand.
func NewHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <session-id>",
		Short: "Print the messages of a chat session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, closeFn, err := controllerFor(cmd, true)
			if err != nil {
				return err
			}
			defer closeFn()
			if err := requireLogin(ctrl); err != nil {
				return err
			}

			items, err := ctrl.History(cmd.Context(), args[0])
			if err != nil {
				return chatError(err)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No messages in this session.")
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "[%s] you: %s\n", item.Timestamp.Format("2006-01-02 15:04"), item.Message)
				fmt.Fprintf(out, "mentor: %s\n\n", item.Response)
			}
			return nil
		},
	}
}

// NewTopicsCmd creates the "topics" subcommand.
func NewTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the DSA topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, closeFn, err := controllerFor(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			topics, err := ctrl.Topics(cmd.Context())
			if err != nil {
				return chatError(err)
			}
			for _, t := range topics {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-22s %-13s %s\n", t.Icon, t.Name, t.Difficulty, t.Description)
			}
			return nil
		},
	}
}
