package engine

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// CutStatistics collects counts for each cutoff mechanism of one search.
type CutStatistics struct {
	BetaCutoffs      uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
}

// MarshalZerologObject lets a search log its statistics as one nested object.
func (c CutStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("beta", c.BetaCutoffs).
		Uint64("q_stand_pat", c.QStandPatCutoffs).
		Uint64("q_beta", c.QBetaCutoffs)
}

// Dump writes the statistics as UCI "info string" lines.
func (c CutStatistics) Dump(w io.Writer) {
	fmt.Fprintln(w, "info string Cut statistics:")
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", c.BetaCutoffs)
	fmt.Fprintf(w, "info string   QStandPat cutoffs: %d\n", c.QStandPatCutoffs)
	fmt.Fprintf(w, "info string   QBeta cutoffs: %d\n", c.QBetaCutoffs)
}
