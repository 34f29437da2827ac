package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartik99Lm10/SuckDSA/internal/client"
)

// newTestRoot creates a fresh command tree per test.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "suckdsa",
		SilenceUsage: true,
	}
	AddPersistentFlags(root)
	root.AddCommand(NewRegisterCmd())
	root.AddCommand(NewVerifyCmd())
	root.AddCommand(NewResendCmd())
	root.AddCommand(NewLoginCmd())
	root.AddCommand(NewLogoutCmd())
	root.AddCommand(NewWhoamiCmd())
	root.AddCommand(NewChatCmd())
	root.AddCommand(NewHistoryCmd())
	root.AddCommand(NewTopicsCmd())
	return root
}

func executeCommand(root *cobra.Command, stdin string, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

type apiStub struct {
	chats []map[string]string
}

func (s *apiStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	user := map[string]any{"id": "u-1", "name": "Asha", "email": "asha@example.com", "isVerified": true}
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			reply(w, http.StatusUnauthorized, map[string]any{"error": "Wrong password!"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"message": "Login successful!", "token": "tok-1", "user": user})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"message": "OTP sent!", "email": "asha@example.com", "nextStep": "verify-otp"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			reply(w, http.StatusForbidden, map[string]any{"error": "Invalid token!"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"user": user})
	})
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.chats = append(s.chats, body)
		reply(w, http.StatusOK, map[string]any{"response": "roast: " + body["message"], "session_id": "sess-1"})
	})
	mux.HandleFunc("GET /api/topics", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []map[string]any{{"name": "Arrays", "difficulty": "Beginner", "icon": "📊"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// withMemorySession swaps the SQLite-backed controller for one sharing a memory store.
func withMemorySession(t *testing.T) *client.MemoryTokenStore {
	t.Helper()
	store := client.NewMemoryTokenStore()
	prev := openController
	openController = func(_ context.Context, server, _ string) (*client.Controller, func(), error) {
		return client.NewController(server, store, client.Options{}), func() {}, nil
	}
	t.Cleanup(func() { openController = prev })
	return store
}

func stubPassword(t *testing.T, password string) {
	t.Helper()
	prev := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(password + "\n"), nil }
	t.Cleanup(func() { readPassword = prev })
}

func TestLoginPromptsForPassword(t *testing.T) {
	store := withMemorySession(t)
	stubPassword(t, "secret1")
	srv := (&apiStub{}).server(t)

	stdout, stderr, err := executeCommand(newTestRoot(), "", "login", "--server", srv.URL, "--email", "asha@example.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Login successful!")
	assert.Contains(t, stderr, "Password:")

	token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestLoginFailureExitCode(t *testing.T) {
	withMemorySession(t)
	srv := (&apiStub{}).server(t)

	_, _, err := executeCommand(newTestRoot(), "", "login", "--server", srv.URL, "--email", "asha@example.com", "--password", "nope")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitActionFailed, exitErr.Code)
	assert.Equal(t, "Wrong password!", exitErr.Message)
}

func TestRegisterPrintsVerifyHint(t *testing.T) {
	withMemorySession(t)
	srv := (&apiStub{}).server(t)

	stdout, _, err := executeCommand(newTestRoot(), "", "register", "--server", srv.URL,
		"--name", "Asha", "--email", "asha@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OTP sent!")
	assert.Contains(t, stdout, "suckdsa verify --email asha@example.com")
}

func TestWhoamiRequiresLogin(t *testing.T) {
	withMemorySession(t)
	srv := (&apiStub{}).server(t)

	_, _, err := executeCommand(newTestRoot(), "", "whoami", "--server", srv.URL)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitNotLoggedIn, exitErr.Code)
}

func TestWhoamiAndLogout(t *testing.T) {
	store := withMemorySession(t)
	require.NoError(t, store.Save(context.Background(), "tok-1"))
	srv := (&apiStub{}).server(t)

	stdout, _, err := executeCommand(newTestRoot(), "", "whoami", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Asha <asha@example.com>")

	stdout, _, err = executeCommand(newTestRoot(), "", "logout", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged out.")
	token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestChatInteractiveKeepsSession(t *testing.T) {
	store := withMemorySession(t)
	require.NoError(t, store.Save(context.Background(), "tok-1"))
	api := &apiStub{}
	srv := api.server(t)

	stdout, _, err := executeCommand(newTestRoot(), "what is a stack\n\nand a queue\n/quit\n", "chat", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "roast: what is a stack")
	assert.Contains(t, stdout, "session: sess-1")

	require.Len(t, api.chats, 2)
	assert.Empty(t, api.chats[0]["session_id"])
	assert.Equal(t, "sess-1", api.chats[1]["session_id"])
}

func TestChatSingleMessage(t *testing.T) {
	store := withMemorySession(t)
	require.NoError(t, store.Save(context.Background(), "tok-1"))
	srv := (&apiStub{}).server(t)

	stdout, _, err := executeCommand(newTestRoot(), "", "chat", "--server", srv.URL, "explain", "heaps")
	require.NoError(t, err)
	assert.Contains(t, stdout, "roast: explain heaps")
}

func TestTopics(t *testing.T) {
	withMemorySession(t)
	srv := (&apiStub{}).server(t)

	stdout, _, err := executeCommand(newTestRoot(), "", "topics", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Arrays")
	assert.Contains(t, stdout, "Beginner")
}

func TestHistoryRequiresArg(t *testing.T) {
	withMemorySession(t)
	_, _, err := executeCommand(newTestRoot(), "", "history")
	require.Error(t, err)
}
