package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felici4no/RedeSentinela/pkg/models"
)

func located(lat, lng float64, severity models.Severity, address string) models.Report {
	return models.Report{
		Lat:         &lat,
		Lng:         &lng,
		Severity:    severity,
		AddressText: address,
	}
}

func TestClustersGroupByCell(t *testing.T) {
	reports := []models.Report{
		located(10.001, 20.001, models.SeverityHigh, "Rua A - Centro"),
		located(10.002, 20.002, models.SeverityLow, "Rua B - Centro"),
		located(10.02, 20.02, models.SeverityMedium, "Rua C - Norte"),
	}

	clusters := Clusters(reports, MapClusterLimit)
	require.Len(t, clusters, 2)

	// the two nearby reports share a 0.01-degree cell
	assert.Equal(t, 2, clusters[0].Count)
	assert.Equal(t, 1, clusters[1].Count)
}

func TestClusterRepresentativeIsFirstSeen(t *testing.T) {
	reports := []models.Report{
		located(10.001, 20.001, models.SeverityLow, "Rua A - Centro"),
		located(10.002, 20.002, models.SeverityHigh, "Rua B - Centro"),
	}

	clusters := Clusters(reports, MapClusterLimit)
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Equal(t, 10.001, c.Lat)
	assert.Equal(t, 20.001, c.Lng)
	assert.Equal(t, models.SeverityLow, c.Severity)
	assert.Equal(t, "Rua A - Centro", c.Address)
	assert.Len(t, c.Reports, 2)
}

func TestClustersExcludeUnlocated(t *testing.T) {
	lat := 10.0
	reports := []models.Report{
		{Severity: models.SeverityHigh},
		{Lat: &lat, Severity: models.SeverityHigh}, // lng missing
	}
	assert.Empty(t, Clusters(reports, MapClusterLimit))
}

func TestClustersAddressPlaceholder(t *testing.T) {
	clusters := Clusters([]models.Report{located(1, 1, models.SeverityLow, "")}, MapClusterLimit)
	require.Len(t, clusters, 1)
	assert.Equal(t, UnspecifiedLocation, clusters[0].Address)
}

func TestClustersSortAndTruncate(t *testing.T) {
	var reports []models.Report
	// cell i gets i+1 members, i from 0..11
	for i := 0; i < 12; i++ {
		for j := 0; j < i+1; j++ {
			reports = append(reports, located(float64(i), float64(i), models.SeverityLow, ""))
		}
	}

	clusters := Clusters(reports, MapClusterLimit)
	require.Len(t, clusters, MapClusterLimit)
	assert.Equal(t, 12, clusters[0].Count)
	for i := 1; i < len(clusters); i++ {
		assert.GreaterOrEqual(t, clusters[i-1].Count, clusters[i].Count)
	}
}

func TestClustersStableOnTies(t *testing.T) {
	reports := []models.Report{
		located(1, 1, models.SeverityLow, "Bairro Um"),
		located(2, 2, models.SeverityLow, "Bairro Dois"),
		located(3, 3, models.SeverityLow, "Bairro Três"),
	}

	first := Clusters(reports, MapClusterLimit)
	for i := 0; i < 10; i++ {
		again := Clusters(reports, MapClusterLimit)
		require.Equal(t, first, again)
	}

	// all counts tie, so encounter order must survive the sort
	assert.Equal(t, "Bairro Um", first[0].Address)
	assert.Equal(t, "Bairro Dois", first[1].Address)
	assert.Equal(t, "Bairro Três", first[2].Address)
}

func TestClustersNegativeCoordinates(t *testing.T) {
	// floor semantics: -0.001 and 0.001 land in different cells
	clusters := Clusters([]models.Report{
		located(-0.001, 20, models.SeverityLow, ""),
		located(0.001, 20, models.SeverityLow, ""),
	}, MapClusterLimit)
	assert.Len(t, clusters, 2)
}

func TestExtractArea(t *testing.T) {
	assert.Equal(t, "Centro", ExtractArea("Rua das Flores, 120 - Centro"))
	assert.Equal(t, "Jardim São Paulo", ExtractArea("Av. Brasil - Zona Leste - Jardim São Paulo"))
	assert.Equal(t, "Rua sem bairro", ExtractArea("Rua sem bairro"))
}

func TestTopAreas(t *testing.T) {
	reports := []models.Report{
		{AddressText: "Rua A - Centro"},
		{AddressText: "Rua B - Centro"},
		{AddressText: "Rua C - Norte"},
		{AddressText: ""},
	}

	areas := TopAreas(reports, TopAreaLimit)
	require.Len(t, areas, 2)
	assert.Equal(t, AreaCount{Area: "Centro", Count: 2}, areas[0])
	assert.Equal(t, AreaCount{Area: "Norte", Count: 1}, areas[1])
}

func TestTopAreasTruncates(t *testing.T) {
	var reports []models.Report
	for _, a := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		reports = append(reports, models.Report{AddressText: "Rua X - " + a})
	}
	assert.Len(t, TopAreas(reports, TopAreaLimit), TopAreaLimit)
}
