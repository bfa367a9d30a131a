package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/windoze95/recipe-finder/internal/config"
	"github.com/windoze95/recipe-finder/internal/service"
)

func NewSearchCommand(root *RootCommand) *cobra.Command {
	var (
		cuisine string
		diet    string
	)

	cmd := &cobra.Command{
		Use:   "search <ingredients...>",
		Short: "Search recipes by ingredients",
		Long: `Search recipes that use the given ingredients.

Several arguments are joined with commas, so "chicken rice" and
"chicken,rice" search for the same thing.`,
		Example: `  # Search by ingredients
  recipefinder search chicken,rice

  # Filter by cuisine and diet
  recipefinder search chicken rice --cuisine Indian --diet Vegetarian`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients := strings.Join(args, ",")
			return runSearch(cmd.Context(), root, service.SearchQuery{
				Ingredients: ingredients,
				Cuisine:     cuisine,
				Diet:        diet,
			})
		},
	}

	cmd.Flags().StringVarP(&cuisine, "cuisine", "c", "", "Cuisine filter, e.g. Italian")
	cmd.Flags().StringVarP(&diet, "diet", "d", "", "Diet filter, e.g. Vegan")

	return cmd
}

func runSearch(ctx context.Context, root *RootCommand, query service.SearchQuery) error {
	opts := root.OutputOptions()

	results, err := root.Service().SearchRecipes(ctx, query)
	if err != nil {
		return err
	}

	if opts.Format == OutputJSON {
		return PrintJSON(service.ToSearchResponse(results), opts)
	}
	PrintSearchResults(opts.Writer, results)
	return nil
}

func NewShowCommand(root *RootCommand) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe and its key nutrients",
		Long: `Show a recipe's ingredients and instructions followed by a bar chart
of its nutrients, largest amount first. Nutrients with a zero amount are
left out.`,
		Example: `  recipefinder show 716429
  recipefinder show 716429 --top 5 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeID, err := strconv.Atoi(args[0])
			if err != nil || recipeID <= 0 {
				return &service.ValidationError{Field: "recipe_id", Message: fmt.Sprintf("invalid recipe ID %q", args[0])}
			}
			return runShow(cmd.Context(), root, recipeID, top)
		},
	}

	cmd.Flags().IntVarP(&top, "top", "t", 0, "Number of nutrients to chart (default from TOP_NUTRIENTS)")

	return cmd
}

func runShow(ctx context.Context, root *RootCommand, recipeID, top int) error {
	opts := root.OutputOptions()
	svc := root.Service()

	view, err := svc.GetRecipe(ctx, recipeID, top)
	if err != nil {
		return err
	}

	resp := svc.ToRecipeResponse(view)
	if opts.Format == OutputJSON {
		return PrintJSON(resp, opts)
	}
	PrintRecipe(opts.Writer, resp)
	return nil
}

func NewOptionsCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:               "options",
		Short:             "List cuisine and diet filter choices",
		Args:              cobra.NoArgs,
		PersistentPreRunE: root.loadConfigOnly,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(root)
		},
	}
}

func runOptions(root *RootCommand) error {
	opts := root.OutputOptions()
	choices := config.DefaultOptions()
	if cfg := root.Config(); cfg != nil && cfg.Options != nil {
		choices = cfg.Options
	}

	if opts.Format == OutputJSON {
		return PrintJSON(choices, opts)
	}

	fmt.Fprintln(opts.Writer, "Cuisines:")
	for _, c := range choices.Cuisines {
		if c != "" {
			fmt.Fprintf(opts.Writer, "  %s\n", c)
		}
	}
	fmt.Fprintln(opts.Writer, "Diets:")
	for _, d := range choices.Diets {
		if d != "" {
			fmt.Fprintf(opts.Writer, "  %s\n", d)
		}
	}
	return nil
}

func NewVersionCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Needs no configuration or API key.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.parseFormat()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := root.OutputOptions()
			if opts.Format == OutputJSON {
				return PrintJSON(map[string]string{
					"version":   cliVersion,
					"buildDate": cliBuildDate,
					"gitCommit": cliGitCommit,
				}, opts)
			}
			fmt.Fprintf(opts.Writer, "recipefinder version %s\n", cliVersion)
			fmt.Fprintf(opts.Writer, "  Commit: %s\n", cliGitCommit)
			fmt.Fprintf(opts.Writer, "  Built:  %s\n", cliBuildDate)
			return nil
		},
	}
}
