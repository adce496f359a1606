package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appshell/modloader/internal/manifest"
	"github.com/appshell/modloader/internal/output"
)

// NewVetCmd creates the vet command.
func NewVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Check the module index without loading any code",
		Long: `Fetch and parse the module index, then report references that can
never load: entries with no usable entry descriptor and names that appear
more than once.`,
		RunE: runVet,
	}
}

func runVet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := cliConfig

	refs := manifest.Fetch(ctx, cfg.Manifest, fetchFor(cfg.Manifest), nil, output.Logger)
	if len(refs) == 0 {
		output.Warn("module index is empty or unreachable", "manifest", cfg.Manifest)
		return nil
	}

	problems := 0
	seen := make(map[string]int)
	for _, ref := range refs {
		seen[ref.Name]++
		if !ref.HasEntry() {
			problems++
			output.Println(output.FormatModuleLine(ref.Display(), "", output.StatusSkipped))
			output.Println("  " + output.StyleDim.Render("no devEntry, baseUrl+entry, or package descriptor"))
		}
	}
	for name, count := range seen {
		if count > 1 {
			problems++
			output.Println(output.StyleSummary.Render(fmt.Sprintf("name %q appears %d times", name, count)))
		}
	}

	if problems > 0 {
		return NewExitError(fmt.Errorf("%d problem(s) in %d reference(s)", problems, len(refs)), ExitVetFailed)
	}
	output.Println(output.FormatCheckmark(fmt.Sprintf("%d reference(s) look loadable", len(refs))))
	return nil
}
