// Package display renders human-facing output: the banner, size formatting,
// and the end-of-batch summary table.
package display

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/wavemill/internal/term"
)

// PrintBanner prints the startup banner; colored when colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Cyan)
	}
	fmt.Fprint(os.Stdout, `__        __              __  __ _ _ _
\ \      / /_ ___   _____|  \/  (_) | |
 \ \ /\ / / _`+"`"+` \ \ / / _ \ |\/| | | | |
  \ V  V / (_| |\ V /  __/ |  | | | | |
   \_/\_/ \__,_| \_/ \___|_|  |_|_|_|_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}

// Summary renders the end-of-batch counters and byte totals as a table.
func Summary(encoded, skipped, failed int, inBytes, outBytes int64) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Encoded", "Skipped", "Failed", "Input", "Output", "Ratio"})
	tw.AppendRow(table.Row{
		strconv.Itoa(encoded),
		strconv.Itoa(skipped),
		strconv.Itoa(failed),
		FormatBytes(inBytes),
		FormatBytes(outBytes),
		FormatRatio(inBytes, outBytes),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}
