package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.streams.Out, "parley %s\n", a.info.Version)
			fmt.Fprintf(a.streams.Out, "  Build time: %s\n", a.info.BuildTime)
		},
	}
}
