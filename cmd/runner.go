package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songboard/internal/client"
	"github.com/desertthunder/songboard/internal/models"
	"github.com/desertthunder/songboard/internal/services"
	"github.com/desertthunder/songboard/internal/shared"
	"github.com/urfave/cli/v3"
)

// Catalog is the read side shared by the CLI and the TUI.
//
// [client.Client] reaches it through the HTTP API; [gatewayCatalog] calls the gateway in-process.
type Catalog interface {
	Trending(ctx context.Context) ([]models.TrendingSong, error)
	Search(ctx context.Context, query string, limit int) ([]models.Song, error)
	Autocomplete(ctx context.Context, query string, limit int) ([]models.Suggestion, error)
	Song(ctx context.Context, id string) (*models.Song, error)
}

var (
	_ Catalog = (*client.Client)(nil)
	_ Catalog = gatewayCatalog{}
)

// gatewayCatalog adapts a [services.Service] to [Catalog] for --direct.
type gatewayCatalog struct {
	services.Service
}

func (g gatewayCatalog) Song(ctx context.Context, id string) (*models.Song, error) {
	return g.SongByID(ctx, id)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	resolved   bool
	service    services.Service
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as is; otherwise it is resolved from --config, --env and the environment
// before any command runs.
type RunnerOpts struct {
	Config     *shared.Config
	Service    services.Service
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	resolved := opts.Config != nil
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
		resolved:   resolved,
		service:    opts.Service,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, tuiCommand, trendingCommand, searchCommand, autocompleteCommand, songCommand, exportCommand, pingCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// load runs before every command: it applies --debug and resolves the configuration.
func (r *Runner) load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if r.resolved {
		return ctx, nil
	}

	config, err := shared.ResolveConfig(cmd.String("config"), cmd.String("env"))
	if err != nil {
		return ctx, fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = config
	r.resolved = true
	r.logger.Debug("configuration loaded", "path", cmd.String("config"), "backend", config.Server.BaseURL())
	return ctx, nil
}

// gateway returns the catalog gateway, creating it from the configuration on first use.
func (r *Runner) gateway() (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	svc, err := services.NewSpotifyService(services.SpotifyOpts{
		Config:     r.config,
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	r.service = svc
	return svc, nil
}

// api returns a client for the configured backend URL.
func (r *Runner) api() (*client.Client, error) {
	api, err := client.New(r.config.Server.BaseURL(), r.httpClient)
	if err != nil {
		return nil, fmt.Errorf("%w: backend_url: %v", shared.ErrInvalidConfig, err)
	}
	return api, nil
}

// catalog picks the in-process gateway when --direct is set and the HTTP API otherwise.
func (r *Runner) catalog(cmd *cli.Command) (Catalog, error) {
	if cmd.Bool("direct") {
		svc, err := r.gateway()
		if err != nil {
			return nil, err
		}
		return gatewayCatalog{svc}, nil
	}

	api, err := r.api()
	if err != nil {
		return nil, err
	}
	return api, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain("\n"+format+"\n", args...)
}
