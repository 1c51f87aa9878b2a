package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Steps     int    `json:"steps"`
	Converged bool   `json:"converged"`
	Vertices  int    `json:"vertices"`
	Faces     int    `json:"faces"`
	Splits    int    `json:"splits,omitempty"`
	Collapses int    `json:"collapses,omitempty"`
	Cuts      int    `json:"cuts,omitempty"`
	Error     string `json:"error,omitempty"`
}

// WriteManifest writes one entry per result to path as indented JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:      r.Name,
			Image:     r.Image,
			Steps:     r.Steps,
			Converged: r.Converged,
			Vertices:  r.Vertices,
			Faces:     r.Faces,
			Splits:    r.Splits,
			Collapses: r.Collapses,
			Cuts:      r.Cuts,
			Error:     r.Error,
		}
		if !r.Success {
			entries[i].Image = ""
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
