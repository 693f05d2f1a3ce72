package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xelth-com/docketgo/internal/buildinfo"
)

type Version struct{}

func (Version) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print build information",
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintln(c.OutOrStdout(), buildinfo.String())
		},
	}
}
