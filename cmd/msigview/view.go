package msigview

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/antelope-tools/msigview"
	"github.com/antelope-tools/msigview/types"
)

// networks maps well-known network aliases to public API endpoints.
var networks = map[string]string{
	"mainnet": "https://eos.greymass.com",
	"jungle4": "https://jungle4.greymass.com",
	"kylin":   "https://kylin.eosn.io",
}

func buildViewCmd(network, endpoint *string) *cobra.Command {
	return &cobra.Command{
		Use:   "view [account] [proposal]",
		Short: "Decode a pending proposal and print its effect as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := types.NewName(args[0])
			if err != nil {
				return fmt.Errorf("invalid account: %w", err)
			}
			proposal, err := types.NewName(args[1])
			if err != nil {
				return fmt.Errorf("invalid proposal: %w", err)
			}

			url, err := resolveEndpoint(*network, *endpoint)
			if err != nil {
				return err
			}

			result, err := msigview.ViewAtEndpoint(cmd.Context(), url, scope, proposal)
			if err != nil {
				return err
			}

			rendered, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(rendered))

			return nil
		},
	}
}

// resolveEndpoint picks the API endpoint: an explicit --endpoint wins, then a
// MSIGVIEW_ENDPOINT env var (a .env file is honored), then the named network.
func resolveEndpoint(network, endpoint string) (string, error) {
	if endpoint != "" {
		return endpoint, nil
	}

	_ = godotenv.Load(".env")
	if fromEnv := os.Getenv("MSIGVIEW_ENDPOINT"); fromEnv != "" {
		return fromEnv, nil
	}

	url, ok := networks[network]
	if !ok {
		return "", fmt.Errorf("unknown network %q", network)
	}

	return url, nil
}
