package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smazurov/inkbadge/internal/state"
)

// CreateStateCmd creates the state command.
func CreateStateCmd() *cobra.Command {
	var lock bool
	var index uint8

	cmd := &cobra.Command{
		Use:   "state [byte]",
		Short: "Decode or encode the persisted state register",
		Long: `Decodes a register value (decimal, 0x hex or 0b binary) into its lock flag and badge index. ` +
			`With --index or --lock and no argument, encodes the register value instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()

			if len(args) == 0 {
				if !c.Flags().Changed("index") && !c.Flags().Changed("lock") {
					return errors.New("need a register value or --index/--lock")
				}
				if index > state.Sentinel {
					return fmt.Errorf("index %d out of range 0-%d", index, state.Sentinel)
				}
				b := state.Byte(state.Encode(lock, index))
				fmt.Fprintf(out, "0x%02X\t%s\n", uint8(b), b)
				return nil
			}

			v, err := strconv.ParseUint(args[0], 0, 8)
			if err != nil {
				return fmt.Errorf("invalid register value %q: %w", args[0], err)
			}
			locked, idx := state.Decode(byte(v))
			fmt.Fprintf(out, "lock:  %t\nindex: %d\n", locked, idx)
			if idx == state.Sentinel {
				fmt.Fprintln(out, "note:  index is the sentinel (last badge)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&lock, "lock", false, "Set the lock flag when encoding")
	cmd.Flags().Uint8Var(&index, "index", 0, "Badge index to encode (0-127)")
	return cmd
}
