package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"appstream-builder/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the catalog fragments in the output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory")
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "catalogs: %d\n", len(result.Packages))
	fmt.Fprintf(out, "applications: %d\n", result.ApplicationCount)
	for _, summary := range result.Packages {
		fmt.Fprintf(out, "- %s: %d applications, %d icons, %d screenshots\n",
			summary.Package, len(summary.Applications), summary.Icons, summary.Screenshots)
		if len(summary.Applications) > 0 {
			fmt.Fprintf(out, "  %s\n", strings.Join(summary.Applications, ", "))
		}
		groups := make([]string, 0, len(summary.ProjectGroups))
		for group := range summary.ProjectGroups {
			groups = append(groups, group)
		}
		slices.Sort(groups)
		for _, group := range groups {
			fmt.Fprintf(out, "  project group %s: %d\n", group, summary.ProjectGroups[group])
		}
	}
	for _, name := range result.MissingIconArchive {
		fmt.Fprintf(out, "missing icon archive: %s\n", name)
	}
	return nil
}
