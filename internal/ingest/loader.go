package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mosdac-ai/orbit/internal/core/model"
)

// GraphClient is the slice of the graph engine the loader needs.
type GraphClient interface {
	AddEpisode(ctx context.Context, ep model.Episode) error
	Stats(ctx context.Context) (nodes, relationships int64, err error)
}

var sourceDescriptions = map[Dataset]string{
	DatasetSatellites:      "MOSDAC Satellite Mission Data",
	DatasetProducts:        "MOSDAC Product Catalog",
	DatasetDocuments:       "MOSDAC Documentation",
	DatasetMissionMetadata: "MOSDAC Mission Technical Metadata",
	DatasetFAQs:            "MOSDAC FAQ Knowledge Base",
}

// DatasetResult is the outcome of loading one dataset.
type DatasetResult struct {
	Dataset  Dataset
	Loaded   bool
	Records  int // records found in the file
	Ingested int // episodes accepted by the graph
	Err      error
}

// Summary is the outcome of a whole run.
type Summary struct {
	BootstrapErr  error
	Results       []DatasetResult
	Loaded        int
	Attempted     int
	Nodes         int64
	Relationships int64
	StatsErr      error
}

// Loader orchestrates a batch run: bootstrap, then the five datasets in
// fixed order, then best-effort graph statistics.
type Loader struct {
	Graph   GraphClient
	Router  *Router
	GroupID string
	// ReferenceTime is shared by every episode in the run so a single load
	// is temporally coherent in the graph.
	ReferenceTime time.Time
	// Bootstrap establishes the target database and indices. A failure here
	// aborts the run before any dataset is read.
	Bootstrap func(ctx context.Context) error
}

func NewLoader(graph GraphClient, router *Router, groupID string) *Loader {
	return &Loader{
		Graph:         graph,
		Router:        router,
		GroupID:       groupID,
		ReferenceTime: time.Now().UTC(),
	}
}

// LoadAll runs the whole batch and reports partial success. Failures are
// contained at the narrowest scope: a bad record skips the record, a bad
// dataset skips the dataset, and only bootstrap failure aborts the run.
func (l *Loader) LoadAll(ctx context.Context) Summary {
	summary := Summary{Attempted: len(DatasetOrder)}

	log.Printf("Starting MOSDAC knowledge graph load (reference time %s)", l.ReferenceTime.Format(time.RFC3339))

	if l.Bootstrap != nil {
		if err := l.Bootstrap(ctx); err != nil {
			log.Printf("Bootstrap failed, aborting run: %v", err)
			summary.BootstrapErr = err
			return summary
		}
	}

	for _, ds := range DatasetOrder {
		log.Printf("==== Loading %s dataset ====", ds)
		result := l.LoadDataset(ctx, ds)
		summary.Results = append(summary.Results, result)
		if result.Loaded {
			summary.Loaded++
			log.Printf("%s loaded: %d/%d episodes ingested", ds, result.Ingested, result.Records)
		} else {
			log.Printf("Failed to load %s: %v", ds, result.Err)
		}
	}

	log.Printf("Knowledge graph load complete: %d/%d datasets loaded", summary.Loaded, summary.Attempted)

	nodes, rels, err := l.Graph.Stats(ctx)
	if err != nil {
		// Cosmetic: the load outcome stands regardless.
		log.Printf("Warning: could not retrieve graph statistics: %v", err)
		summary.StatsErr = err
	} else {
		summary.Nodes = nodes
		summary.Relationships = rels
		log.Printf("Graph statistics: %d nodes, %d relationships", nodes, rels)
	}

	return summary
}

// LoadDataset reads, normalizes and ingests one dataset. Record-level
// failures are logged and skipped; they never abort the remaining records.
func (l *Loader) LoadDataset(ctx context.Context, ds Dataset) DatasetResult {
	result := DatasetResult{Dataset: ds}

	records, err := l.Router.Read(ds)
	if err != nil {
		if errors.Is(err, ErrEmptyDataset) {
			log.Printf("Warning: no data found in %s", ds)
		}
		result.Err = err
		return result
	}
	result.Records = len(records)

	normalizer := normalizers[ds]
	for i, record := range records {
		payload := normalizer(record)
		log.Printf("[%d/%d] Adding: %s", i+1, len(records), payload.Identity)

		if err := l.ingest(ctx, ds, payload); err != nil {
			log.Printf("Warning: error loading %s record '%s': %v", ds, payload.Identity, err)
			continue
		}
		result.Ingested++
	}

	result.Loaded = true
	return result
}

// ingest submits one canonical payload as one episode.
func (l *Loader) ingest(ctx context.Context, ds Dataset, payload Payload) error {
	body, err := json.MarshalIndent(payload.Body, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	return l.Graph.AddEpisode(ctx, model.Episode{
		Name:              payload.EpisodeName,
		Body:              string(body),
		Source:            model.SourceJSON,
		SourceDescription: sourceDescriptions[ds],
		ReferenceTime:     l.ReferenceTime,
		GroupID:           l.GroupID,
	})
}
