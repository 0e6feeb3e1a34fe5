package cmd

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/ens"
	"github.com/Mohsinsiddi/walletfetch/internal/ui"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name-or-address>",
	Short: "Resolve ENS names to addresses and vice versa",
	Long: `Resolve an ENS name to an address, or an address to its primary name.

A 0x input gets a reverse lookup; anything else is resolved forward. The
other direction is then checked so mismatched records stand out.

Lookups use the configured network with chain id 1.

Examples:
  walletfetch resolve vitalik.eth
  walletfetch resolve 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.TrimSpace(args[0])

		set, err := cfg.NetworkSet()
		if err != nil {
			return fmt.Errorf("loading networks: %w", err)
		}
		resolver, err := ens.NewResolverForNetworks(newCaller(), set)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
			addr, err := chain.ParseAddress(input)
			if err != nil {
				return err
			}
			name, err := resolver.ReverseLookup(ctx, addr)
			if err != nil {
				return fmt.Errorf("reverse lookup failed: %w", err)
			}

			pairs := [][2]string{
				{"Address", ui.Addr(chain.Hex(addr))},
				{"ENS Name", ui.Val(name)},
			}
			// A reverse record is only trustworthy if the name resolves back.
			if fwd, err := resolver.Resolve(ctx, name); err == nil {
				if fwd == addr {
					pairs = append(pairs, [2]string{"Forward Check", ui.Success("matches")})
				} else {
					pairs = append(pairs, [2]string{"Forward Check", ui.Warn("forward resolves to " + chain.Hex(fwd))})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("ENS Reverse Lookup", pairs))
			return nil
		}

		addr, err := resolver.Resolve(ctx, input)
		if err != nil {
			return fmt.Errorf("resolution failed: %w", err)
		}

		pairs := [][2]string{
			{"ENS Name", ui.Val(input)},
			{"Address", ui.Addr(chain.Hex(addr))},
		}
		if rev, err := resolver.ReverseLookup(ctx, addr); err == nil {
			if strings.EqualFold(rev, ens.Normalize(input)) {
				pairs = append(pairs, [2]string{"Reverse Check", ui.Success("matches")})
			} else {
				pairs = append(pairs, [2]string{"Reverse Check", ui.Warn("reverse resolves to " + rev)})
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.KeyValueBlock("ENS Resolution", pairs))
		return nil
	},
}
