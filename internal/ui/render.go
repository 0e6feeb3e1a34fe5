package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/engine"
	"github.com/Mohsinsiddi/walletfetch/internal/report"
	"github.com/shopspring/decimal"
)

// RenderOptions controls amount formatting.
type RenderOptions struct {
	// Precision is the number of decimals shown; negative shows the exact value.
	Precision int32
	// Compact abbreviates large amounts with K/M/B suffixes.
	Compact bool
}

// DefaultRenderOptions prints four decimals, as the report always has.
var DefaultRenderOptions = RenderOptions{Precision: 4}

var (
	thousand = decimal.New(1, 3)
	million  = decimal.New(1, 6)
	billion  = decimal.New(1, 9)
)

// FormatAmount formats d for display.
func FormatAmount(d decimal.Decimal, opts RenderOptions) string {
	if opts.Compact {
		abs := d.Abs()
		switch {
		case abs.GreaterThanOrEqual(billion):
			return d.Shift(-9).StringFixed(2) + "B"
		case abs.GreaterThanOrEqual(million):
			return d.Shift(-6).StringFixed(2) + "M"
		case abs.GreaterThanOrEqual(thousand):
			return d.Shift(-3).StringFixed(2) + "K"
		case abs.IsZero():
			return "0"
		case abs.LessThan(decimal.New(1, -4)):
			return "<0.0001"
		default:
			return d.Round(4).String()
		}
	}
	if opts.Precision < 0 {
		return d.String()
	}
	return d.StringFixed(opts.Precision)
}

// TargetLabel describes the run's target: the literal address, or the name
// followed by the address it resolved to.
func TargetLabel(res *engine.Result) string {
	if res.Target.IsName() {
		return fmt.Sprintf("%s (%s)", res.Target.Name, chain.Hex(res.Address))
	}
	return res.Target.Raw
}

// Render writes the human-readable report. Every network in set gets a line;
// networks without results show "no balance". Failed lookups follow as
// warnings.
func Render(w io.Writer, res *engine.Result, set chain.NetworkSet, opts RenderOptions) {
	if res.Report.Empty() {
		fmt.Fprintf(w, "No balances found for address %s\n", Addr(TargetLabel(res)))
		renderFailures(w, res)
		return
	}

	fmt.Fprintf(w, "Balances for %s\n", Addr(TargetLabel(res)))
	fmt.Fprintln(w, strings.Repeat("-", 24))

	for _, n := range set.All() {
		net, ok := res.Report.Network(n.Name)
		if !ok {
			fmt.Fprintf(w, "%s: %s\n", ChainName(n.Name), Meta("no balance"))
			continue
		}
		indent := strings.Repeat(" ", len(n.Name)+2)
		for i, line := range net.Lines {
			prefix := indent
			if i == 0 {
				prefix = ChainName(n.Name) + ": "
			}
			fmt.Fprintf(w, "%s%s %s\n", prefix, Val(FormatAmount(line.Amount, opts)), line.Symbol)
		}
	}
	renderFailures(w, res)
}

func renderFailures(w io.Writer, res *engine.Result) {
	if len(res.Failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, f := range res.Failures {
		fmt.Fprintln(w, Warn(f.Error()))
	}
}

type jsonFailure struct {
	Network string `json:"network"`
	ChainID uint64 `json:"chain_id"`
	Symbol  string `json:"symbol"`
	Error   string `json:"error"`
}

type jsonOutput struct {
	Target   string           `json:"target"`
	Address  string           `json:"address"`
	Networks []report.Network `json:"networks"`
	Failures []jsonFailure    `json:"failures"`
}

// RenderJSON writes the result as indented JSON. Amounts are exact strings.
func RenderJSON(w io.Writer, res *engine.Result) error {
	out := jsonOutput{
		Target:   res.Target.Raw,
		Address:  chain.Hex(res.Address),
		Networks: res.Report.Networks,
		Failures: make([]jsonFailure, 0, len(res.Failures)),
	}
	if out.Networks == nil {
		out.Networks = []report.Network{}
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, jsonFailure{
			Network: f.Network,
			ChainID: f.ChainID,
			Symbol:  f.Symbol,
			Error:   f.Err.Error(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
