package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/windoze95/recipe-finder/internal/models"
	"github.com/windoze95/recipe-finder/internal/service"
)

type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Width of the longest bar in the nutrient chart.
const chartWidth = 40

const (
	chartTitle        = "Key Nutrients"
	msgNoSignificant  = "No significant nutrient data available"
	msgNoInstructions = "No Instructions"
)

type OutputOptions struct {
	Format OutputFormat
	Writer io.Writer
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Format: OutputText,
		Writer: os.Stdout,
	}
}

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputText, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text or json)", s)
	}
}

func PrintJSON(data any, opts *OutputOptions) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(opts.Writer, string(b))
	return nil
}

// PrintError writes err to w. Recipe service failures are shown with their
// user-facing message.
func PrintError(w io.Writer, err error, opts *OutputOptions) {
	message := err.Error()
	kind := ""
	if ce := service.ClassifyError(err); ce.Kind != service.KindInternal {
		kind = ce.Kind
		if ce.Kind != service.KindValidation {
			message = ce.Message
		}
	}

	if opts.Format == OutputJSON {
		data := map[string]any{
			"success": false,
			"error": map[string]string{
				"kind":    kind,
				"message": message,
			},
		}
		b, _ := json.MarshalIndent(data, "", "  ")
		fmt.Fprintln(w, string(b))
		return
	}
	fmt.Fprintf(w, "Error: %s\n", message)
}

// PrintSearchResults writes one "title (id)" line per result, or the no
// results message.
func PrintSearchResults(w io.Writer, results []models.RecipeSummary) {
	if len(results) == 0 {
		fmt.Fprintln(w, service.MsgNoResults)
		return
	}
	for _, r := range results {
		fmt.Fprintln(w, r.Label())
	}
}

// PrintRecipe writes the recipe text followed by its nutrient chart.
func PrintRecipe(w io.Writer, resp service.RecipeResponse) {
	fmt.Fprintf(w, "Title: %s\n\n", resp.Title)

	fmt.Fprintln(w, "Ingredients:")
	for _, ing := range resp.Ingredients {
		fmt.Fprintf(w, "- %s\n", ing)
	}

	instructions := resp.Instructions
	if strings.TrimSpace(instructions) == "" {
		instructions = msgNoInstructions
	}
	fmt.Fprintf(w, "\nInstructions:\n%s\n", instructions)

	if resp.ImageURL != "" {
		fmt.Fprintf(w, "\nImage: %s\n", resp.ImageURL)
	}

	fmt.Fprintln(w)
	RenderNutrientChart(w, resp)
}

// RenderNutrientChart draws the ranked nutrients as a horizontal text bar
// chart scaled to the largest amount.
func RenderNutrientChart(w io.Writer, resp service.RecipeResponse) {
	if !resp.NutritionAvailable {
		fmt.Fprintln(w, service.MsgNutritionUnavailable)
		return
	}
	if len(resp.TopNutrients) == 0 {
		fmt.Fprintln(w, msgNoSignificant)
		return
	}

	fmt.Fprintln(w, chartTitle)

	maxAmount := 0.0
	for _, n := range resp.TopNutrients {
		maxAmount = math.Max(maxAmount, n.Amount)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range resp.TopNutrients {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.Name, bar(n.Amount, maxAmount), n.DisplayValue)
	}
	tw.Flush()
}

// bar returns a bar proportional to amount/max. Positive amounts always get
// at least one cell.
func bar(amount, max float64) string {
	if max <= 0 || amount <= 0 {
		return ""
	}
	n := int(math.Round(amount / max * chartWidth))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("#", n)
}
