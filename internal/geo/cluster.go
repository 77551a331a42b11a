package geo

import (
	"math"
	"sort"
	"strings"

	"github.com/Felici4no/RedeSentinela/pkg/models"
)

// CellSize is the grid threshold in degrees (~1.1 km of latitude at the
// equator, coarser in longitude away from it). Reports whose floored
// lat/lng cell coincides share a cluster. This is a fixed-grid
// simplification, not a spatial index; fine for the volumes involved.
const CellSize = 0.01

const (
	// MapClusterLimit caps the clusters rendered as map markers.
	MapClusterLimit = 10
	// PanelClusterLimit caps the clusters shown in summary panels.
	PanelClusterLimit = 5
	// TopAreaLimit caps the recurring-area ranking.
	TopAreaLimit = 5
)

// UnspecifiedLocation is the address placeholder for clusters whose
// first-seen member carries no address text.
const UnspecifiedLocation = "Localização não especificada"

// Cluster is a transient aggregation of reports sharing a grid cell. The
// representative coordinate, severity and address come from the first-seen
// member, not a centroid or mode. Operators have historically seen those
// values on the hot-zone map; do not replace them with aggregates.
type Cluster struct {
	Lat      float64         `json:"lat"`
	Lng      float64         `json:"lng"`
	Count    int             `json:"count"`
	Severity models.Severity `json:"severity"`
	Address  string          `json:"address"`
	Reports  []models.Report `json:"reports"`
}

type cellKey struct {
	row, col int64
}

// Clusters groups geolocated reports into grid-cell clusters and returns the
// top limit clusters by descending member count. Reports without coordinates
// are excluded entirely. The sort is stable: count ties keep the order in
// which cells were first encountered, so repeated runs over identical input
// produce identical output.
func Clusters(reports []models.Report, limit int) []Cluster {
	var order []cellKey
	cells := make(map[cellKey]*Cluster)

	for _, r := range reports {
		if !r.HasLocation() {
			continue
		}

		key := cellKey{
			row: int64(math.Floor(*r.Lat / CellSize)),
			col: int64(math.Floor(*r.Lng / CellSize)),
		}

		c, ok := cells[key]
		if !ok {
			addr := r.AddressText
			if addr == "" {
				addr = UnspecifiedLocation
			}
			c = &Cluster{
				Lat:      *r.Lat,
				Lng:      *r.Lng,
				Severity: r.Severity,
				Address:  addr,
			}
			cells[key] = c
			order = append(order, key)
		}

		c.Count++
		c.Reports = append(c.Reports, r)
	}

	out := make([]Cluster, 0, len(order))
	for _, key := range order {
		out = append(out, *cells[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AreaCount is one entry of the recurring-area ranking.
type AreaCount struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

// TopAreas tallies reports per coarse area label and returns the top limit
// areas by descending count. Reports without address text are skipped. Ties
// keep encounter order, as with Clusters.
func TopAreas(reports []models.Report, limit int) []AreaCount {
	var order []string
	counts := make(map[string]int)

	for _, r := range reports {
		if r.AddressText == "" {
			continue
		}
		area := ExtractArea(r.AddressText)
		if _, ok := counts[area]; !ok {
			order = append(order, area)
		}
		counts[area]++
	}

	out := make([]AreaCount, 0, len(order))
	for _, area := range order {
		out = append(out, AreaCount{Area: area, Count: counts[area]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ExtractArea derives a coarse area label from free-text addresses: the text
// after the last hyphen, or the whole string when there is none. Heuristic
// string work, not geocoding; input addresses have no guaranteed structure.
func ExtractArea(address string) string {
	if idx := strings.LastIndex(address, "-"); idx >= 0 {
		return strings.TrimSpace(address[idx+1:])
	}
	return address
}
