package ingest

import (
	"fmt"
)

// Canonical episode payloads, one per entity kind. Every payload carries a
// type discriminator and a category tag so the graph's extraction has stable
// anchors regardless of how ragged the scraped input was.

type SatelliteMission struct {
	Type        string        `json:"type"`
	Name        string        `json:"name"`
	URL         string        `json:"url"`
	Description string        `json:"description"`
	Documents   []interface{} `json:"documents"`
	Category    string        `json:"category"`
}

type DataProduct struct {
	Type              string                 `json:"type"`
	Name              string                 `json:"name"`
	Category          string                 `json:"category"`
	Description       string                 `json:"description"`
	URL               string                 `json:"url"`
	Specifications    map[string]interface{} `json:"specifications"`
	DownloadInfo      map[string]interface{} `json:"download_info"`
	RelatedSatellites []interface{}          `json:"related_satellites"`
}

type Documentation struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	FileType       string `json:"file_type"`
	Size           string `json:"size"`
	Description    string `json:"description"`
	RelatedMission string `json:"related_mission"`
	Category       string `json:"category"`
}

type MissionMetadata struct {
	Type           string                 `json:"type"`
	Mission        string                 `json:"mission"`
	Sensors        []interface{}          `json:"sensors"`
	LaunchDate     string                 `json:"launch_date"`
	Agency         string                 `json:"agency"`
	OrbitType      string                 `json:"orbit_type"`
	Applications   []interface{}          `json:"applications"`
	TechnicalSpecs map[string]interface{} `json:"technical_specs"`
	Category       string                 `json:"category"`
}

type FAQ struct {
	Type     string        `json:"type"`
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Category string        `json:"category"`
	Tags     []interface{} `json:"tags"`
	URL      string        `json:"url"`
}

// Payload is the output of a normalizer: a canonical typed record plus the
// naming metadata the ingestor needs.
type Payload struct {
	// EpisodeName labels the episode in the graph.
	EpisodeName string
	// Identity is the record's identifying field, used in per-record logs.
	Identity string
	// Body is the canonical record, marshalled to JSON as the episode body.
	Body interface{}
}

// Normalizer is a total function from a raw scraped record to a canonical
// payload. Missing fields default; a missing identity degrades to a
// placeholder. Normalizers never fail and never mutate their input.
type Normalizer func(record map[string]interface{}) Payload

var normalizers = map[Dataset]Normalizer{
	DatasetSatellites:      NormalizeSatellite,
	DatasetProducts:        NormalizeProduct,
	DatasetDocuments:       NormalizeDocument,
	DatasetMissionMetadata: NormalizeMissionMetadata,
	DatasetFAQs:            NormalizeFAQ,
}

func NormalizeSatellite(record map[string]interface{}) Payload {
	name := stringField(record, "name", "Unknown")
	return Payload{
		EpisodeName: fmt.Sprintf("Satellite Mission: %s", name),
		Identity:    name,
		Body: SatelliteMission{
			Type:        "satellite_mission",
			Name:        name,
			URL:         stringField(record, "url", ""),
			Description: stringField(record, "description", ""),
			Documents:   listField(record, "documents"),
			Category:    "satellite",
		},
	}
}

func NormalizeProduct(record map[string]interface{}) Payload {
	name := stringField(record, "name", "Unknown Product")
	return Payload{
		EpisodeName: fmt.Sprintf("Data Product: %s", name),
		Identity:    name,
		Body: DataProduct{
			Type:              "data_product",
			Name:              name,
			Category:          stringField(record, "category", ""),
			Description:       stringField(record, "description", ""),
			URL:               stringField(record, "url", ""),
			Specifications:    mapField(record, "specifications"),
			DownloadInfo:      mapField(record, "download_info"),
			RelatedSatellites: listField(record, "satellites"),
		},
	}
}

func NormalizeDocument(record map[string]interface{}) Payload {
	title := stringField(record, "title", "Unknown Document")
	return Payload{
		EpisodeName: fmt.Sprintf("Document: %s", title),
		Identity:    title,
		Body: Documentation{
			Type:           "documentation",
			Title:          title,
			URL:            stringField(record, "url", ""),
			FileType:       stringField(record, "file_type", ""),
			Size:           stringField(record, "size", ""),
			Description:    stringField(record, "description", ""),
			RelatedMission: stringField(record, "mission", ""),
			Category:       "documentation",
		},
	}
}

func NormalizeMissionMetadata(record map[string]interface{}) Payload {
	mission := stringField(record, "mission", "Unknown Mission")
	return Payload{
		EpisodeName: fmt.Sprintf("Mission Metadata: %s", mission),
		Identity:    mission,
		Body: MissionMetadata{
			Type:           "mission_metadata",
			Mission:        mission,
			Sensors:        listField(record, "sensors"),
			LaunchDate:     stringField(record, "launch_date", ""),
			Agency:         stringField(record, "agency", ""),
			OrbitType:      stringField(record, "orbit_type", ""),
			Applications:   listField(record, "applications"),
			TechnicalSpecs: mapField(record, "technical_specs"),
			Category:       "metadata",
		},
	}
}

func NormalizeFAQ(record map[string]interface{}) Payload {
	question := stringField(record, "question", "Unknown Question")
	return Payload{
		EpisodeName: fmt.Sprintf("FAQ: %s", truncate(question, 50)),
		Identity:    truncate(question, 50),
		Body: FAQ{
			Type:     "faq",
			Question: question,
			Answer:   stringField(record, "answer", ""),
			Category: stringField(record, "category", "general"),
			Tags:     listField(record, "tags"),
			URL:      stringField(record, "url", ""),
		},
	}
}

func stringField(record map[string]interface{}, key, fallback string) string {
	if v, ok := record[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// listField copies a list value so the payload never aliases the raw record.
func listField(record map[string]interface{}, key string) []interface{} {
	if v, ok := record[key]; ok {
		if l, ok := v.([]interface{}); ok {
			out := make([]interface{}, len(l))
			copy(out, l)
			return out
		}
	}
	return []interface{}{}
}

func mapField(record map[string]interface{}, key string) map[string]interface{} {
	if v, ok := record[key]; ok {
		if m, ok := v.(map[string]interface{}); ok {
			out := make(map[string]interface{}, len(m))
			for k, val := range m {
				out[k] = val
			}
			return out
		}
	}
	return map[string]interface{}{}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
