package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/orcalabs/kyogre/internal/infrastructure/config"
)

// NewConfigCommand builds the `kyogre config` command group for reading
// and editing ~/.kyogre/config.json user preferences.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit CLI user preferences",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetVesselCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current user config",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			cfg, err := handler.Load()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newConfigSetVesselCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-vessel <vessel-id>",
		Short: "Set the default vessel id used by commands that accept one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid vessel id %q: %w", args[0], err)
			}
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			return handler.SetDefaultVessel(id)
		},
	}
}
