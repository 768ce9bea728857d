package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"appstream-builder/internal/app"
	"appstream-builder/internal/types"
)

type watchOptions struct {
	Dir       string
	Pattern   string
	Debounce  time.Duration
	OutputDir string
	WorkDir   string
}

func newWatchCommand() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild packages as they appear in a directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory to watch for package archives")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "*.deb", "File name pattern of package archives")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 500*time.Millisecond, "Quiet period before a batch is built")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory")
	cmd.Flags().StringVar(&opts.WorkDir, "work-dir", "", "Working directory for staging and screenshots")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts watchOptions) error {
	cfg, err := loadBuildConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyDirFlags(cmd, &cfg, opts.OutputDir, opts.WorkDir)
	service := app.NewService(cfg)
	if _, err := service.ValidateConfig(); err != nil {
		return err
	}

	return service.Watch(ctx, app.WatchRequest{
		Dir:      opts.Dir,
		Pattern:  opts.Pattern,
		Debounce: opts.Debounce,
	}, func(result types.PackageResult) {
		printPackageResult(cmd.OutOrStdout(), result)
	})
}
