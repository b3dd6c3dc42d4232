package simulate

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/breakside/internal/domain/stats"
)

// PrintPlayerTable writes the per-player statistics table.
func PrintPlayerTable(w io.Writer, players []stats.PlayerStats) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(
		"NAME", "PASSES", "RECV", "AST", "GOALS", "TO", "THROW_ERR", "RECV_ERR",
		"BLOCKS", "M_GAINED", "M/TOUCH", "M_LOST", "HOLD_AVG",
	)

	for _, p := range players {
		holdAvg := "-"
		if p.HoldSamples > 0 {
			holdAvg = fmt.Sprintf("%.1fs", p.HoldAvgSec)
		}
		table.Append(
			p.Name,
			strconv.Itoa(p.Passes),
			strconv.Itoa(p.Receptions),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Goals),
			strconv.Itoa(p.Turnovers),
			strconv.Itoa(p.ThrowErrors),
			strconv.Itoa(p.ReceiveErrors),
			strconv.Itoa(p.Blocks),
			fmt.Sprintf("%.1f", p.MetersGained),
			fmt.Sprintf("%.1f", p.MetersPerTouch),
			fmt.Sprintf("%.1f", p.MetersLost),
			holdAvg,
		)
	}
	table.Render()
}

// PrintConnectionTable writes the thrower/receiver pairing table.
func PrintConnectionTable(w io.Writer, conns []stats.Connection) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("THROWER", "RECEIVER", "COMPLETIONS", "DROPS", "THROW_ERRS")

	for _, c := range conns {
		table.Append(
			c.Thrower,
			c.Receiver,
			strconv.Itoa(c.Completions),
			strconv.Itoa(c.Drops),
			strconv.Itoa(c.ThrowErrors),
		)
	}
	table.Render()
}
