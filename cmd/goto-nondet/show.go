package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) showCmd() *cobra.Command {
	var (
		flags     passFlags
		function  string
		rewritten bool
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the instruction listing of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(cmd, a.cfg)
			if err != nil {
				return err
			}
			_, p, st, err := a.load(args[0], flags.mode)
			if err != nil {
				return err
			}
			if function != "" {
				if _, ok := p.Function(function); !ok {
					return fmt.Errorf("no function %q in %s", function, args[0])
				}
			}
			if rewritten {
				if _, err := a.pass(p, st, cfg); err != nil {
					return err
				}
			}
			l := listing{styled: !plain && isTerminal(a.stdout)}
			_, err = fmt.Fprint(a.stdout, l.program(p, function))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&function, "function", "f", "", "show only this function")
	cmd.Flags().BoolVar(&rewritten, "rewritten", false, "show the program after the pass")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable styling")
	return cmd
}
