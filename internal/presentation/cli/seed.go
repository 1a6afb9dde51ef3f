package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	appcatalog "github.com/Zhima-Mochi/minishop-cart/internal/application/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the catalog to the sample products",
	Long: `Delete every product, cart item, order and payment, then insert the
sample catalog. Users are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		// The memory store lives only as long as this process; serve seeds it itself.
		if _, err := a.requirePool("seed"); err != nil {
			return err
		}
		if err := a.seed(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", len(appcatalog.SampleCatalog))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
