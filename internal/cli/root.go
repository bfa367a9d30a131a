package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/windoze95/recipe-finder/internal/config"
	"github.com/windoze95/recipe-finder/internal/logger"
	"github.com/windoze95/recipe-finder/internal/recipeapi"
	"github.com/windoze95/recipe-finder/internal/service"
	"go.uber.org/zap"
)

var (
	cliVersion   = "dev"
	cliBuildDate = "unknown"
	cliGitCommit = "unknown"
)

// SetVersion records build information for the version command.
func SetVersion(version, buildDate, gitCommit string) {
	cliVersion = version
	cliBuildDate = buildDate
	cliGitCommit = gitCommit
}

type RootCommand struct {
	cmd       *cobra.Command
	cfg       *config.Config
	service   *service.RecipeService
	opts      *OutputOptions
	formatStr string
}

func NewRootCommand() *RootCommand {
	root := &RootCommand{
		opts: NewOutputOptions(),
	}

	cmd := &cobra.Command{
		Use:   "recipefinder",
		Short: "Find recipes by ingredients and inspect their nutrition",
		Long: `recipefinder searches a Spoonacular-compatible recipe API by
ingredients, with optional cuisine and diet filters, and shows a recipe's
ingredients, instructions and its key nutrients as a bar chart.

The API key is read from SPOONACULAR_API_KEY.`,
		PersistentPreRunE: root.persistentPreRunE,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVarP(&root.formatStr, "output", "o", string(OutputText), "Output format (text, json)")

	root.cmd = cmd
	root.addSubCommands()

	return root
}

// newRootCommandWithService returns a root command that uses recipeService
// instead of building one from the environment.
func newRootCommandWithService(recipeService *service.RecipeService) *RootCommand {
	root := NewRootCommand()
	root.service = recipeService
	root.cfg = recipeService.Cfg
	return root
}

func (r *RootCommand) parseFormat() error {
	format, err := ParseOutputFormat(r.formatStr)
	if err != nil {
		return err
	}
	r.opts.Format = format
	return nil
}

func (r *RootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	if err := r.parseFormat(); err != nil {
		return err
	}
	if r.service != nil {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.CheckConfigEnvFields(); err != nil {
		return fmt.Errorf("check config: %w", err)
	}

	level := cfg.EnvVars.LogLevel
	if level == "" {
		level = "warn"
	}
	logger.Init(false, level)

	client := recipeapi.NewSpoonacularClient(recipeapi.ClientConfig{
		BaseURL: cfg.EnvVars.SpoonacularURL,
		APIKey:  cfg.EnvVars.SpoonacularAPIKey,
		Timeout: cfg.EnvVars.HTTPTimeout,
	}, nil)

	r.cfg = cfg
	r.service = service.NewRecipeService(cfg, client)
	return nil
}

// loadConfigOnly reads the configuration without requiring the API key, for
// commands that never call the recipe API.
func (r *RootCommand) loadConfigOnly(cmd *cobra.Command, args []string) error {
	if err := r.parseFormat(); err != nil {
		return err
	}
	if r.cfg != nil {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	r.cfg = cfg
	return nil
}

func (r *RootCommand) addSubCommands() {
	r.cmd.AddCommand(NewSearchCommand(r))
	r.cmd.AddCommand(NewShowCommand(r))
	r.cmd.AddCommand(NewOptionsCommand(r))
	r.cmd.AddCommand(NewVersionCommand(r))
}

func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

func (r *RootCommand) Config() *config.Config {
	return r.cfg
}

func (r *RootCommand) Service() *service.RecipeService {
	return r.service
}

func (r *RootCommand) OutputOptions() *OutputOptions {
	return r.opts
}

func (r *RootCommand) SetOutputWriter(w interface{ Write([]byte) (int, error) }) {
	r.opts.Writer = w
	r.cmd.SetOut(w)
}

func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// Execute runs the recipefinder command line and exits non-zero on failure.
func Execute(ctx context.Context) {
	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil {
		logger.Get().Debug("command failed", zap.Error(err))
		PrintError(os.Stderr, err, root.OutputOptions())
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
