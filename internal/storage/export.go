package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/mdforce/internal/sim"
)

type ExportData struct {
	Meta   RunMetadata `json:"meta"`
	Series Series      `json:"series"`
}

// ExportJSON writes the metadata and energy series of a run as one JSON
// document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}
	meta.EnergyDrift = result.EnergyDrift

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: meta, Series: SeriesOf(result)})
}
