package main

import (
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var flags pipelineFlags
	cmd := &cobra.Command{
		Use:   "check [flags] <decls.toml|decls.msgpack>...",
		Short: "Run the pipeline and report diagnostics without writing headers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args, &flags, false)
		},
	}
	flags.register(cmd)
	return cmd
}
