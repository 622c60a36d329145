package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/hyperram/hyperram/bus"
	"github.com/sarchlab/hyperram/hyperram/protocol"
)

func newEncodeCmd() *cobra.Command {
	var read bool

	c := &cobra.Command{
		Use:   "encode ADDRESS...",
		Short: "Print the command words of host word addresses.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				addr, err := strconv.ParseUint(a, 0, 32)
				if err != nil {
					return fmt.Errorf("address %q: %w", a, err)
				}

				if addr > bus.AddressMask {
					return fmt.Errorf("address %q does not fit in %d bits",
						a, bus.AddressBits)
				}

				word := protocol.EncodeCommand(!read, uint32(addr))
				b := word.Bytes()
				fmt.Fprintf(cmd.OutOrStdout(), "0x%06x %s %s\n",
					addr, hex.EncodeToString(b[:]), word)
			}

			return nil
		},
	}

	c.Flags().BoolVarP(&read, "read", "r", false, "encode reads")

	return c
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode HEX",
		Short: "Decode a 6-byte command word.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("command word: %w", err)
			}

			if len(raw) != protocol.NumCommandBytes {
				return fmt.Errorf("command word has %d bytes, want %d",
					len(raw), protocol.NumCommandBytes)
			}

			var b [protocol.NumCommandBytes]byte
			copy(b[:], raw)

			word := protocol.DecodeCommand(b)
			kind := "write"
			if word.IsRead() {
				kind = "read"
			}

			space := "memory"
			if word.IsRegisterSpace() {
				space = "register"
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"%s %s space, linear burst %t, word 0x%x, byte 0x%x, host 0x%06x\n",
				kind, space, word.IsLinearBurst(), word.WordAddress(),
				word.ByteAddress(), word.HostAddress())

			return nil
		},
	}
}
