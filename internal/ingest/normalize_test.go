package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyRecords(t *testing.T) {
	// Every normalizer must produce a complete payload with placeholders and
	// empty containers from a record with no fields at all.
	empty := map[string]interface{}{}

	sat := NormalizeSatellite(empty)
	assert.Equal(t, "Satellite Mission: Unknown", sat.EpisodeName)
	body := sat.Body.(SatelliteMission)
	assert.Equal(t, "satellite_mission", body.Type)
	assert.Equal(t, "Unknown", body.Name)
	assert.Equal(t, "satellite", body.Category)
	assert.NotNil(t, body.Documents)
	assert.Empty(t, body.Documents)

	prod := NormalizeProduct(empty)
	assert.Equal(t, "Data Product: Unknown Product", prod.EpisodeName)
	prodBody := prod.Body.(DataProduct)
	assert.Equal(t, "data_product", prodBody.Type)
	assert.Equal(t, "Unknown Product", prodBody.Name)
	assert.NotNil(t, prodBody.Specifications)
	assert.NotNil(t, prodBody.DownloadInfo)
	assert.NotNil(t, prodBody.RelatedSatellites)

	doc := NormalizeDocument(empty)
	assert.Equal(t, "Document: Unknown Document", doc.EpisodeName)
	docBody := doc.Body.(Documentation)
	assert.Equal(t, "documentation", docBody.Type)
	assert.Equal(t, "documentation", docBody.Category)

	meta := NormalizeMissionMetadata(empty)
	assert.Equal(t, "Mission Metadata: Unknown Mission", meta.EpisodeName)
	metaBody := meta.Body.(MissionMetadata)
	assert.Equal(t, "mission_metadata", metaBody.Type)
	assert.Equal(t, "metadata", metaBody.Category)
	assert.NotNil(t, metaBody.Sensors)
	assert.NotNil(t, metaBody.Applications)
	assert.NotNil(t, metaBody.TechnicalSpecs)

	faq := NormalizeFAQ(empty)
	assert.Equal(t, "FAQ: Unknown Question", faq.EpisodeName)
	faqBody := faq.Body.(FAQ)
	assert.Equal(t, "faq", faqBody.Type)
	assert.Equal(t, "general", faqBody.Category)
	assert.NotNil(t, faqBody.Tags)
}

func TestNormalize_EpisodeNameNeverEmpty(t *testing.T) {
	for ds, normalize := range normalizers {
		p := normalize(map[string]interface{}{})
		assert.NotEmpty(t, p.EpisodeName, "dataset %s", ds)
		assert.NotEmpty(t, p.Identity, "dataset %s", ds)
	}
}

func TestNormalizeProduct_FullRecord(t *testing.T) {
	record := map[string]interface{}{
		"name":        "Sea Surface Temperature",
		"category":    "Ocean",
		"description": "Daily SST",
		"url":         "https://example.com/sst",
		"specifications": map[string]interface{}{
			"resolution": "4 km",
		},
		"download_info": map[string]interface{}{
			"format": "HDF5",
		},
		// The scraper emits "satellites"; the canonical field is related_satellites.
		"satellites": []interface{}{"INSAT-3D"},
	}

	p := NormalizeProduct(record)
	body := p.Body.(DataProduct)

	assert.Equal(t, "Data Product: Sea Surface Temperature", p.EpisodeName)
	assert.Equal(t, "Ocean", body.Category)
	assert.Equal(t, "4 km", body.Specifications["resolution"])
	assert.Equal(t, "HDF5", body.DownloadInfo["format"])
	require.Len(t, body.RelatedSatellites, 1)
	assert.Equal(t, "INSAT-3D", body.RelatedSatellites[0])
}

func TestNormalizeFAQ_TruncatesLongQuestions(t *testing.T) {
	long := strings.Repeat("x", 80)
	p := NormalizeFAQ(map[string]interface{}{"question": long})

	body := p.Body.(FAQ)
	assert.Equal(t, long, body.Question, "body keeps the full question")
	assert.Equal(t, "FAQ: "+strings.Repeat("x", 50), p.EpisodeName)
	assert.Len(t, p.Identity, 50)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	record := map[string]interface{}{
		"name":      "Oceansat-2",
		"documents": []interface{}{"handbook"},
	}

	p := NormalizeSatellite(record)

	// Append to the payload's copy; the raw record must be untouched.
	body := p.Body.(SatelliteMission)
	_ = append(body.Documents, "extra")

	assert.Len(t, record, 2)
	assert.Equal(t, []interface{}{"handbook"}, record["documents"])
}

func TestNormalize_WrongTypesDegradeToDefaults(t *testing.T) {
	// Scraped records sometimes hold the wrong shape entirely.
	record := map[string]interface{}{
		"name":      42,
		"documents": "not-a-list",
	}

	p := NormalizeSatellite(record)
	body := p.Body.(SatelliteMission)

	assert.Equal(t, "Unknown", body.Name)
	assert.Empty(t, body.Documents)
}
