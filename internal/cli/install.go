package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInstallCmd(a *app, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "install [engine...]",
		Short: "Download the Playwright driver and browsers, the configured engine if none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			engines := args
			if len(engines) == 0 {
				cfg, err := loadConfig(v)
				if err != nil {
					return err
				}
				engines = []string{cfg.Browser.Browser}
			}
			if err := a.install(engines...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "installed %v\n", engines)
			return nil
		},
	}
}
