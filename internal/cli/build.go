package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"appstream-builder/internal/app"
	"appstream-builder/internal/types"
)

type buildOptions struct {
	OutputDir string
	WorkDir   string
	KeepGoing bool
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build <package.deb>...",
		Short: "Build catalog fragments and icon archives for packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory")
	cmd.Flags().StringVar(&opts.WorkDir, "work-dir", "", "Working directory for staging and screenshots")
	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "Continue with the next package after an extraction failure")
	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildOptions, packages []string) error {
	cfg, err := loadBuildConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyDirFlags(cmd, &cfg, opts.OutputDir, opts.WorkDir)
	service := app.NewService(cfg)

	result, err := service.Build(ctx, app.BuildRequest{
		Packages:  packages,
		KeepGoing: resolveBool(cmd, opts.KeepGoing, "keep_going", "keep-going"),
	})
	for _, pkg := range result.Packages {
		printPackageResult(cmd.OutOrStdout(), pkg)
	}
	if err != nil {
		return err
	}
	if failed := result.Failed(); failed > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%d of %d packages could not be extracted", failed, len(result.Packages)))
	}
	return nil
}

// applyDirFlags lets command flags win over configured directories.
func applyDirFlags(cmd *cobra.Command, cfg *types.BuildConfig, outputDir string, workDir string) {
	if flagChanged(cmd, "output") {
		cfg.OutputDir = outputDir
	}
	if flagChanged(cmd, "work-dir") {
		cfg.WorkDir = workDir
	}
}

func printPackageResult(out io.Writer, result types.PackageResult) {
	name := result.Package.Name
	if name == "" {
		name = result.Package.Path
	}
	switch result.Status {
	case types.PackageStatusBuilt:
		fmt.Fprintf(out, "%s: built %s (%s)\n", name, result.CatalogPath, strings.Join(result.Accepted, ", "))
	case types.PackageStatusExtractFailed:
		fmt.Fprintf(out, "%s: extract failed: %s\n", name, errorMessage(result.Err))
	default:
		fmt.Fprintf(out, "%s: %s\n", name, result.Status)
	}
	for _, rejection := range result.Rejected {
		fmt.Fprintf(out, "  - %s: %s\n", rejection.ID, rejection.Reason)
	}
}
