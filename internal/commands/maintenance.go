package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgertriage/ledgertriage/internal/buildinfo"
	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/dto"
)

func newMigrateCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), func(app *App) error {
				version, err := app.DB.MigrationManager().GetCurrentVersion(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
				return nil
			})
		},
	}
}

func newDetectCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Flag every operation whose hash collides with another one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), func(app *App) error {
				flagged, err := app.Operations.DetectCollisions(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d operations moved to triage\n", flagged)
				return nil
			})
		},
	}
}

func newRetagCommand(r *runner) *cobra.Command {
	var untaggedOnly bool

	cmd := &cobra.Command{
		Use:   "retag",
		Short: "Re-evaluate tag rules against stored operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd.Context(), func(app *App) error {
				apply := app.Tagging.RetagAll
				if untaggedOnly {
					apply = app.Tagging.TagUntagged
				}
				tagged, err := apply(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d tag associations added\n", tagged)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&untaggedOnly, "untagged-only", false, "only consider operations without any tag")
	return cmd
}

func newImportCommand(r *runner) *cobra.Command {
	var insertOnly bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON batch of operations",
		Long:  `FILE holds {"operations": [...]} in the body format of POST /operations/import. Use - for stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readBatch(cmd, args[0])
			if err != nil {
				return err
			}
			ops, err := batch.ToEntities()
			if err != nil {
				return err
			}

			return r.withApp(cmd.Context(), func(app *App) error {
				return runImport(cmd.Context(), cmd, app, ops, insertOnly)
			})
		},
	}
	cmd.Flags().BoolVar(&insertOnly, "insert-only", false, "store the batch without collision detection or tagging")
	return cmd
}

func readBatch(cmd *cobra.Command, path string) (*dto.OperationBatchRequest, error) {
	var batch dto.OperationBatchRequest

	in := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	if err := json.NewDecoder(in).Decode(&batch); err != nil {
		return nil, fmt.Errorf("invalid operation batch %s: %w", path, err)
	}
	return &batch, nil
}

func runImport(ctx context.Context, cmd *cobra.Command, app *App, ops []*entity.Operation, insertOnly bool) error {
	if limit := app.Config.Import.MaxBatchSize; limit > 0 && len(ops) > limit {
		return fmt.Errorf("batch of %d operations exceeds the limit of %d", len(ops), limit)
	}

	if insertOnly {
		inserted, err := app.Operations.InsertBatch(ctx, ops)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d\n", inserted)
		return nil
	}

	result, err := app.Operations.Import(ctx, ops)
	if result != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, flagged %d, tagged %d\n", result.Inserted, result.Flagged, result.Tagged)
	}
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No configuration needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
