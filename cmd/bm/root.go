package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/nikbrunner/bm/internal/logging"
	"github.com/nikbrunner/bm/internal/model"
	"github.com/nikbrunner/bm/internal/router"
	"github.com/nikbrunner/bm/internal/sets"
	"github.com/nikbrunner/bm/internal/storage"
	"github.com/nikbrunner/bm/internal/tree"
	"github.com/nikbrunner/bm/internal/tui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options holds the global flags.
type options struct {
	verbosity  int
	configPath string
	dataDir    string
	backend    string
}

// env is everything a command needs to run set operations.
type env struct {
	cfg     *storage.Config
	backend *storage.Backend
	tree    *tree.Persisted
	manager *sets.Manager
	router  *router.Router
}

func (e *env) Close() error {
	return e.backend.Close()
}

// openEnv loads the config, applies flag overrides and opens storage.
func openEnv(opts *options) (*env, error) {
	cfg, err := storage.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}

	backend, err := storage.Open(*cfg)
	if err != nil {
		return nil, err
	}

	t, err := tree.Open(backend.Tree)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	setsLog := logging.For("sets")
	routerLog := logging.For("router")
	manager := sets.NewManager(sets.ManagerParams{
		Tree:        t,
		KV:          backend.KV,
		Logger:      &setsLog,
		BarID:       model.BarID,
		OtherID:     model.OtherID,
		RootName:    cfg.RootFolderName,
		DefaultName: cfg.DefaultSetName,
	})

	log.Debug().
		Str("backend", cfg.Backend).
		Str("dataDir", cfg.DataDir).
		Msg("Storage opened")

	return &env{
		cfg:     cfg,
		backend: backend,
		tree:    t,
		manager: manager,
		router:  router.New(manager, &routerLog),
	}, nil
}

// interactive reports whether both ends of the terminal are a TTY.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "bm",
		Short: "Manage bookmark sets",
		Long: `bm keeps several named sets of bookmarks and swaps one of them into
the bookmark bar at a time. Run without arguments for the interactive UI.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")
	flags.StringVar(&opts.configPath, "config", storage.DefaultConfigFilePath(), "Path to the config file")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Override the data directory")
	flags.StringVar(&opts.backend, "backend", "", "Override the storage backend (json or sqlite)")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newCreateCmd(opts))
	rootCmd.AddCommand(newSwitchCmd(opts))
	rootCmd.AddCommand(newDeleteCmd(opts))
	rootCmd.AddCommand(newRenameCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// runTUI runs the full interactive UI. Logs go to a file while the UI
// owns the terminal.
func runTUI(opts *options) error {
	logFile, err := logging.SetupFile(opts.verbosity, storage.DefaultLogFilePath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	confirm := e.cfg.ShouldConfirmDelete()
	app := tui.NewApp(tui.AppParams{
		Router:  e.router,
		Confirm: &confirm,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}
