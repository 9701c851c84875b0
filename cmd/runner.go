package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/ai"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/repositories"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/services"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/shared"
	"github.com/PRATIKABAJIGANGURDE/tunemigrate/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger, used when the TUI owns the screen.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, convertCommand, searchCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// applyVerbosity raises the log level to debug when the verbose flag is set.
func (r *Runner) applyVerbosity(verbose bool) {
	if verbose {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
}

// reloadConfig applies the --config and --verbose flags, falling back to the
// current config when the file cannot be read.
func (r *Runner) reloadConfig(cmd *cli.Command) {
	r.applyVerbosity(cmd.Bool("verbose"))

	configPath := cmd.String("config")
	if configPath == "" {
		return
	}

	if _, err := os.Stat(configPath); err != nil {
		return
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		return
	}
	r.config = config
}

// spotifyService builds the catalog client with any persisted credential.
func (r *Runner) spotifyService() (*services.SpotifyService, error) {
	var cred *services.Credential
	tokenPath := r.config.Credentials.Spotify.TokenPath
	if tokenPath != "" {
		if loaded, err := services.LoadCredential(tokenPath); err == nil {
			cred = loaded
		}
	}

	return services.NewSpotifyService(r.config.Credentials.Spotify, cred)
}

// youtubeService builds the source platform client.
func (r *Runner) youtubeService() (*services.YouTubeService, error) {
	return services.NewYouTubeService(r.config.Credentials.YouTube)
}

// assistClient builds the optional extraction capability; nil when unconfigured.
func (r *Runner) assistClient() ai.Assist {
	client := ai.NewClient(r.config.Assist, r.httpClient)
	if client == nil {
		// interface holding a typed nil is not nil, so return an untyped one
		return nil
	}
	return client
}

// openDatabase opens the match cache database and applies migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// buildEngine assembles the conversion engine and its dependencies. The
// returned cleanup closes the cache database.
func (r *Runner) buildEngine(catalog tasks.Catalog) (*tasks.ConvertEngine, func(), error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}

	cache := repositories.NewMatchCacheAdapter(repositories.NewMatchRepository(db))
	logger := shared.WithLogger(r.logger, "component", "engine")
	engine := tasks.NewConvertEngine(catalog, r.assistClient(), cache, r.config.Matching, logger)

	return engine, func() { db.Close() }, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
