package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Dataset identifies one of the fixed scraped-data inputs.
type Dataset string

const (
	DatasetSatellites      Dataset = "satellites"
	DatasetProducts        Dataset = "products"
	DatasetDocuments       Dataset = "documents"
	DatasetMissionMetadata Dataset = "mission_metadata"
	DatasetFAQs            Dataset = "faqs"
)

// DatasetOrder is the fixed load sequence. Ingestion never reorders.
var DatasetOrder = []Dataset{
	DatasetSatellites,
	DatasetProducts,
	DatasetDocuments,
	DatasetMissionMetadata,
	DatasetFAQs,
}

var datasetFiles = map[Dataset]string{
	DatasetSatellites:      "satellites.json",
	DatasetProducts:        "products.json",
	DatasetDocuments:       "documents.json",
	DatasetMissionMetadata: "mission_metadata.json",
	DatasetFAQs:            "faqs.json",
}

var (
	ErrUnknownDataset  = errors.New("unknown dataset")
	ErrDatasetNotFound = errors.New("dataset file not found")
	ErrEmptyDataset    = errors.New("dataset is empty")
)

// Router resolves dataset identifiers to their file and normalizer.
type Router struct {
	DataDir string
}

func NewRouter(dataDir string) *Router {
	return &Router{DataDir: dataDir}
}

// Resolve maps an identifier to its dataset, file path and normalizer. It
// fails before any file I/O for identifiers outside the fixed set.
func (r *Router) Resolve(name string) (Dataset, string, Normalizer, error) {
	ds := Dataset(name)
	file, ok := datasetFiles[ds]
	if !ok {
		return "", "", nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return ds, filepath.Join(r.DataDir, file), normalizers[ds], nil
}

// Read parses a dataset file into raw records.
func (r *Router) Read(ds Dataset) ([]map[string]interface{}, error) {
	file, ok := datasetFiles[ds]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, string(ds))
	}
	path := filepath.Join(r.DataDir, file)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, string(ds))
	}

	return records, nil
}
