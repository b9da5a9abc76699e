package msigview

import (
	"github.com/spf13/cobra"
)

func BuildRootCmd() *cobra.Command {
	var (
		network  string
		endpoint string
	)

	cmd := cobra.Command{
		Use:   "msigview",
		Short: "Inspect pending multisig proposals",
		Long:  ``,
	}

	cmd.PersistentFlags().StringVar(&network, "network", "mainnet", "Named network to connect to (mainnet, jungle4, kylin)")
	cmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Chain API endpoint URL, overrides --network")

	cmd.AddCommand(buildViewCmd(&network, &endpoint))

	return &cmd
}
