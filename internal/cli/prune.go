package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"appstream-builder/internal/app"
)

type pruneOptions struct {
	KeepLast int
	KeepDays int
	DryRun   bool
}

func newPruneCommand() *cobra.Command {
	opts := pruneOptions{}
	cmd := &cobra.Command{
		Use:   "prune-cache",
		Short: "Prune downloaded screenshots based on retention policy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrune(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.KeepLast, "keep-last", 0, "Keep the N most recently downloaded screenshots")
	cmd.Flags().IntVar(&opts.KeepDays, "keep-days", 0, "Keep screenshots downloaded in the last N days")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", true, "Only report prune actions without deleting")
	return cmd
}

func runPrune(ctx context.Context, cmd *cobra.Command, opts pruneOptions) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	result, err := service.PruneCache(ctx, app.PruneRequest{
		KeepLast: resolveInt(cmd, opts.KeepLast, "cache_keep_last", "keep-last"),
		KeepDays: resolveInt(cmd, opts.KeepDays, "cache_keep_days", "keep-days"),
		DryRun:   resolveBool(cmd, opts.DryRun, "cache_dry_run", "dry-run"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if result.DryRun {
		fmt.Fprintf(out, "dry-run: keep=%d delete=%d bytes=%d\n", result.KeepCount, result.DeleteCount, result.FreedBytes)
		return nil
	}
	fmt.Fprintf(out, "pruned screenshots: %d (%d bytes)\n", result.DeleteCount, result.FreedBytes)
	return nil
}
