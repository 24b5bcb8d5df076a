package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/postrai/postr/internal/api"
	"github.com/postrai/postr/internal/forms"
	"github.com/postrai/postr/internal/notes"
	"github.com/postrai/postr/internal/session"
	"github.com/postrai/postr/internal/tui"
)

// envDocumentIDs overrides the built-in working set, comma separated.
const envDocumentIDs = "POSTR_DOCS"

var defaultDocumentIDs = []string{
	"doc-transformers-2017",
	"doc-resnet-2015",
	"doc-bert-2018",
	"doc-gan-2014",
}

var (
	flagBaseURL     string
	flagDocs        string
	flagNoAltScreen bool
	flagVerbose     bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "postr",
		Short: "Turn research papers into academic posters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
	root.PersistentFlags().StringVar(&flagBaseURL, "api", "", "backend base URL (overrides "+api.EnvBaseURL+")")
	root.PersistentFlags().StringVar(&flagDocs, "docs", "", "comma separated document ids to browse")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log at debug level")
	root.Flags().BoolVar(&flagNoAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	root.AddCommand(loginCmd())
	root.AddCommand(logoutCmd())
	root.AddCommand(whoamiCmd())
	root.AddCommand(topicsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI() error {
	logger, closeLog, err := fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := session.Open()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	program := tea.NewProgram(
		tui.New(tui.Config{
			API:         newClient(logger),
			Session:     store,
			Notes:       notes.NewBook(notesPath()),
			DocumentIDs: documentIDs(),
			Log:         logger,
		}),
		programOptions()...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func programOptions() []tea.ProgramOption {
	if flagNoAltScreen {
		return nil
	}
	return []tea.ProgramOption{tea.WithAltScreen()}
}

func loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Authenticate and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			form := forms.Login{Email: email, Password: password}
			if errs := form.Validate(); len(errs) > 0 {
				return errs
			}

			store, err := session.Open()
			if err != nil {
				return err
			}
			user, err := newClient(stderrLogger()).Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := store.SetUser(user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", user.FullName(), user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.Open()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.Open()
			if err != nil {
				return err
			}
			user, err := store.Current()
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in. Run postr login first.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.FullName(), user.Email)
			return nil
		},
	}
}

func topicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Manage research topics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireUser()
			if err != nil {
				return err
			}
			resp, err := newClient(stderrLogger()).GetUserTopics(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			if len(resp.Topics) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No topics yet.")
				return nil
			}
			for _, name := range resp.Topics {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add [topic]...",
		Short: "Add topics to your list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireUser()
			if err != nil {
				return err
			}
			resp, err := newClient(stderrLogger()).AddUserTopics(cmd.Context(), user.ID, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d, skipped %d.\n", resp.TotalAdded, resp.Skipped)
			return nil
		},
	})

	return cmd
}

func requireUser() (*api.User, error) {
	store, err := session.Open()
	if err != nil {
		return nil, err
	}
	user, err := store.Current()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("not signed in, run postr login first")
	}
	return user, nil
}

func newClient(logger api.Logger) *api.Client {
	base := strings.TrimRight(flagBaseURL, "/")
	if base == "" {
		hostname, _ := os.Hostname()
		base = api.ResolveBaseURL(hostname)
	}
	return api.New(api.Config{BaseURL: base, Logger: logger})
}

func documentIDs() []string {
	raw := flagDocs
	if raw == "" {
		raw = os.Getenv(envDocumentIDs)
	}
	if raw == "" {
		return defaultDocumentIDs
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return defaultDocumentIDs
	}
	return ids
}

// fileLogger sends log lines to a file so they never tear the TUI render.
func fileLogger() (*logrus.Logger, func(), error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	logDir := filepath.Join(dir, "postr")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(logDir, "postr.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if flagVerbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger, func() { _ = file.Close() }, nil
}

func stderrLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if flagVerbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

func notesPath() string {
	if dir := os.Getenv("POSTR_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "notes.json")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "notes.json"
	}
	return filepath.Join(dir, "postr", "notes.json")
}
