package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	serveradapter "github.com/evanschultz/tavla/internal/adapters/server"
	"github.com/evanschultz/tavla/internal/adapters/storage/jsonfile"
	"github.com/evanschultz/tavla/internal/adapters/storage/sqlite"
	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/config"
	"github.com/evanschultz/tavla/internal/domain"
	"github.com/evanschultz/tavla/internal/platform"
	"github.com/evanschultz/tavla/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// version stores a package-level helper value.
var version = "dev"

// defaultAppName names the binary, its data dirs and its log files.
const defaultAppName = "tavla"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP+MCP serve flow.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

// main handles main.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root := newRootCommand(os.Stdout, os.Stderr)
	if err := fang.Execute(ctx, root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// newRootCommand builds the cobra command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := &rootOptions{appName: defaultAppName, devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("TAVLA_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TAVLA_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "tavla",
		Short:         "A three-column terminal task board",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd.Context(), opts, "tui", stderr, func(ctx context.Context, rt *commandRuntime) error {
				return runTUI(ctx, rt)
			})
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to the board store for the configured backend")
	root.PersistentFlags().StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	root.PersistentFlags().BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts, stdout),
		newExportCommand(opts, stdout, stderr),
		newImportCommand(opts, stderr),
		newServeCommand(opts, stderr),
	)
	return root
}

// newPathsCommand prints the resolved on-disk locations.
func newPathsCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			paths, err := platform.DefaultPathsWithOptions(platform.Options{
				AppName: opts.appName,
				DevMode: opts.devMode,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "db: %s\n", paths.DBPath)
			_, _ = fmt.Fprintf(stdout, "json: %s\n", paths.JSONPath)
			return nil
		},
	}
}

// newExportCommand writes the persisted board as a snapshot.
func newExportCommand(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	var (
		outPath string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the persisted board as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd.Context(), opts, "export", stderr, func(ctx context.Context, rt *commandRuntime) error {
				return runExport(ctx, rt.svc, outPath, format, stdout)
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

// newImportCommand replaces the persisted board from a snapshot file.
func newImportCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the persisted board from a JSON or YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return fmt.Errorf("--in is required")
			}
			return runCommand(cmd.Context(), opts, "import", stderr, func(ctx context.Context, rt *commandRuntime) error {
				return runImport(ctx, rt.svc, inPath)
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot file")
	return cmd
}

// newServeCommand exposes the persisted board over MCP.
func newServeCommand(opts *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		httpBind    string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve read-only MCP board tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd.Context(), opts, "serve", stderr, func(ctx context.Context, rt *commandRuntime) error {
				return serveCommandRunner(ctx, serveradapter.Config{
					HTTPBind:      httpBind,
					MCPEndpoint:   mcpEndpoint,
					ServerName:    opts.appName,
					ServerVersion: version,
				}, serveradapter.Dependencies{
					Board:  rt.svc,
					Logger: rt.logger,
				})
			})
		},
	}
	cmd.Flags().StringVar(&httpBind, "http", "127.0.0.1:8080", "HTTP listen address")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp-endpoint", "/mcp", "MCP streamable HTTP endpoint")
	return cmd
}

// commandRuntime holds the resolved config, logger, store and service for one command.
type commandRuntime struct {
	cfg        config.Config
	configPath string
	logger     *sessionLogger
	store      boardStore
	svc        *app.Service
}

// boardStore is a repository that owns a closable handle.
type boardStore interface {
	app.Repository
	Close() error
}

// runCommand resolves the runtime, runs one command flow and logs its outcome.
func runCommand(ctx context.Context, opts *rootOptions, command string, stderr io.Writer, flow func(context.Context, *commandRuntime) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := openRuntime(opts, command, stderr)
	if err != nil {
		return err
	}
	defer rt.close(stderr)

	rt.logger.Info("command flow start")
	if err := flow(ctx, rt); err != nil {
		rt.logger.Error("command flow failed", "err", err)
		return fmt.Errorf("run %s command: %w", command, err)
	}
	rt.logger.Info("command flow complete")
	return nil
}

// openRuntime loads config, configures logging and opens the board store.
func openRuntime(opts *rootOptions, command string, stderr io.Writer) (*commandRuntime, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TAVLA_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	if dbPath == "" {
		dbPath = strings.TrimSpace(os.Getenv("TAVLA_DB_PATH"))
	}

	cfg, err := config.Load(configPath, config.Default(paths.DBPath, paths.JSONPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbPath != "" {
		applyStorePathOverride(&cfg.Storage, dbPath)
	}

	devLog := ""
	if opts.devMode && cfg.Logging.DevFile.Enabled {
		devLog = devLogPath(cfg.Logging.DevFile.Dir, cfg.Storage.Path(), opts.appName, time.Now())
	}
	base, err := newSessionLogger(stderr, opts.appName, cfg.Logging.Level, devLog)
	if err != nil {
		return nil, fmt.Errorf("configure session logger: %w", err)
	}
	if command == "tui" {
		// the board owns the terminal; events go to the dev file only
		base.MuteConsole(true)
	}
	logger := base.With("command", command, "backend", cfg.Storage.Backend, "store_path", cfg.Storage.Path())

	logger.Info("configuration loaded", "config_path", configPath, "data_dir", paths.DataDir, "dev_mode", opts.devMode, "log_level", cfg.Logging.Level)
	if path := logger.DevLogPath(); path != "" {
		logger.Debug("dev file logging enabled", "path", path)
	}

	store, err := openStore(cfg.Storage, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	svc := app.NewService(store, logger, time.Now, app.ServiceConfig{
		Titles: domain.BoardTitles{
			Todo:  cfg.Board.TodoTitle,
			Doing: cfg.Board.DoingTitle,
			Done:  cfg.Board.DoneTitle,
		},
	})
	logger.Debug("application service initialized", "titles", fmt.Sprintf("%s/%s/%s", cfg.Board.TodoTitle, cfg.Board.DoingTitle, cfg.Board.DoneTitle))

	return &commandRuntime{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		store:      store,
		svc:        svc,
	}, nil
}

// close releases the store and the log sinks.
func (rt *commandRuntime) close(stderr io.Writer) {
	if closeErr := rt.store.Close(); closeErr != nil {
		rt.logger.Warn("store close failed", "err", closeErr)
	}
	if closeErr := rt.logger.Close(); closeErr != nil {
		_, _ = fmt.Fprintf(stderr, "warning: close dev log: %v\n", closeErr)
	}
}

// applyStorePathOverride points the configured backend at path.
func applyStorePathOverride(storage *config.StorageConfig, path string) {
	if storage.Backend == config.BackendJSON {
		storage.JSONPath = path
		return
	}
	storage.SQLitePath = path
}

// openStore opens the repository for the configured backend.
func openStore(storage config.StorageConfig, logger *sessionLogger) (boardStore, error) {
	var (
		store boardStore
		err   error
	)
	switch storage.Backend {
	case config.BackendJSON:
		store, err = jsonfile.Open(storage.Path())
	default:
		store, err = sqlite.Open(storage.Path(), sqlite.WithIDGenerator(uuid.NewString))
	}
	if err != nil {
		logger.Error("board store open failed", "err", err)
		return nil, fmt.Errorf("open %s store: %w", storage.Backend, err)
	}
	logger.Info("board store ready")
	return store, nil
}

// runTUI loads the board and runs the interactive program. The board is saved
// by the exit command; a program that ends any other way is saved here.
func runTUI(ctx context.Context, rt *commandRuntime) error {
	if err := rt.svc.Load(ctx); err != nil {
		return err
	}

	m := tui.NewModel(
		rt.svc,
		tui.WithContext(ctx),
		tui.WithKeyConfig(toTUIKeyConfig(rt.cfg.Keys)),
	)
	rt.logger.Info("starting tui program loop")
	final, runErr := programFactory(m).Run()
	if runErr != nil {
		rt.logger.Error("tui program terminated with error", "err", runErr)
	}
	if !rt.svc.ShouldExit() {
		rt.logger.Warn("tui ended without exit command; saving board")
		if err := rt.svc.Save(ctx); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("run tui program: %w", runErr)
	}
	if fm, ok := final.(tui.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

// toTUIKeyConfig maps the [keys] config section into model options.
func toTUIKeyConfig(keys config.KeyConfig) tui.KeyConfig {
	return tui.KeyConfig{
		Exit:        keys.Exit,
		MoveDown:    keys.MoveDown,
		MoveUp:      keys.MoveUp,
		ToggleEdit:  keys.ToggleEdit,
		FocusTodo:   keys.FocusTodo,
		FocusDoing:  keys.FocusDoing,
		FocusDone:   keys.FocusDone,
		MoveToTodo:  keys.MoveToTodo,
		MoveToDoing: keys.MoveToDoing,
		MoveToDone:  keys.MoveToDone,
		Delete:      keys.Delete,
		Help:        keys.Help,
	}
}

// runExport writes the persisted board to outPath in the requested format.
func runExport(ctx context.Context, svc *app.Service, outPath, format string, stdout io.Writer) error {
	snap, err := svc.ExportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	var encoded []byte
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		encoded, err = json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot json: %w", err)
		}
		encoded = append(encoded, '\n')
	case "yaml", "yml":
		encoded, err = yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode snapshot yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	if outPath == "" || outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport validates and imports one snapshot file. YAML files are converted
// to JSON first so both formats pass the same schema check.
func runImport(ctx context.Context, svc *app.Service, inPath string) error {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(inPath)) {
	case ".yaml", ".yml":
		content, err = yamlToJSON(content)
		if err != nil {
			return err
		}
	}
	snap, err := app.DecodeSnapshot(content)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

// yamlToJSON re-encodes one YAML document as JSON.
func yamlToJSON(content []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot yaml: %w", err)
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert snapshot yaml: %w", err)
	}
	return encoded, nil
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
