package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/walletfetch/internal/rpc"
	"github.com/Mohsinsiddi/walletfetch/internal/ui"
	"github.com/spf13/cobra"
)

var networksCheck bool

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List configured networks",
	Long: `List the networks and tokens from the config file.

With --check every endpoint is asked for its chain id; endpoints that are
down, or that report a different chain id than configured, are flagged.

Examples:
  walletfetch networks
  walletfetch networks --check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := cfg.NetworkSet()
		if err != nil {
			return fmt.Errorf("loading networks: %w", err)
		}
		out := cmd.OutOrStdout()
		if set.Len() == 0 {
			fmt.Fprintln(out, ui.Warn("no networks configured in "+cfg.Path()))
			return nil
		}

		cols := []ui.Column{
			{Title: "CHAIN ID", Width: 10},
			{Title: "NAME", Width: 18},
			{Title: "SYMBOL", Width: 8},
			{Title: "TOKENS", Width: 6},
			{Title: "RPC", Width: 40},
		}
		if !networksCheck {
			t := ui.NewTable(cols)
			for _, n := range set.All() {
				t.AddRow(ui.Row{
					strconv.FormatUint(n.ChainID, 10),
					ui.ChainName(n.Name),
					n.Symbol(),
					strconv.Itoa(len(n.Tokens)),
					n.RPCURL,
				})
			}
			fmt.Fprint(out, t.Render())
			return nil
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		cols = append(cols, ui.Column{Title: "STATUS", Width: 22}, ui.Column{Title: "LATENCY", Width: 8})
		t := ui.NewTable(cols)
		var problems int
		for _, h := range rpc.CheckAll(ctx, newCaller(), set) {
			ep := h.Endpoint
			status, latency := ui.Success("ok"), ep.Latency.Round(time.Millisecond).String()
			switch {
			case !ep.Healthy:
				status, latency = ui.Err(trimStatus(ep.Err)), "-"
				problems++
			case h.Mismatch():
				status = ui.Warn(fmt.Sprintf("chain id %d", ep.ChainID))
				problems++
			}
			t.AddRow(ui.Row{
				strconv.FormatUint(h.Network.ChainID, 10),
				ui.ChainName(h.Network.Name),
				h.Network.Symbol(),
				strconv.Itoa(len(h.Network.Tokens)),
				h.Network.RPCURL,
				status,
				latency,
			})
		}
		fmt.Fprint(out, t.Render())
		if problems > 0 {
			fmt.Fprintln(out, ui.Hint(fmt.Sprintf("%d of %d endpoint(s) need attention", problems, set.Len())))
		}
		return nil
	},
}

func init() {
	networksCmd.Flags().BoolVar(&networksCheck, "check", false, "ping every endpoint and verify its chain id")
}

func trimStatus(err error) string {
	if err == nil {
		return "unreachable"
	}
	return ui.TrimErr(err.Error())
}
