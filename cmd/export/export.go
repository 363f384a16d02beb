package export

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scienceol/labstock/internal/app"
	"github.com/scienceol/labstock/internal/config"
	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

// New writes one inventory snapshot to the EXPORT_TARGET and exits.
func New() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:          "export",
		Long:         "Export an inventory snapshot to the configured file or s3 target",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(cmd.Context(), config.Global())
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(cmd.Context()))

			resp, err := a.Service.Export(cmd.Context(), &core.ExportReq{Key: key})
			if err != nil {
				logger.Errorf(cmd.Context(), "export inventory err: %+v", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", resp.Count, resp.Location)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object key or file name, timestamped when empty")
	return cmd
}
