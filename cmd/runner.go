package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/formatter"
	"github.com/desertthunder/jukebox/internal/services"
	"github.com/desertthunder/jukebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Catalog
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog     // defaults to API
	API        *services.APIService // defaults to a service built from Config.API and HTTPClient
	HTTPClient *http.Client         // defaults to services.NewHTTPClient(Config.API)
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
		opts.HTTPClient = services.NewHTTPClient(context.Background(), opts.Config.API)
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(
			opts.Config.API.BaseURL, opts.HTTPClient, services.WithRateLimit(opts.Config.API.RateLimit),
		)
	}
	if opts.Catalog == nil {
		opts.Catalog = opts.API
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		playCommand, songsCommand, albumsCommand, historyCommand, apiCommand, setupCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}
	return r.write(output)
}

func (r *Runner) write(p []byte) error {
	if _, err := r.output.Write(p); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	return r.write([]byte(fmt.Sprintf(format, args...)))
}
