package engine

import (
	"strconv"

	"github.com/dm/aadash/internal/model"
)

// Sentinel entries that head every cluster selector.
var (
	PlaceholderOption = model.ClusterOption{ID: "please choose", Label: "Select Cluster", Disabled: true}
	AllClustersOption = model.ClusterOption{ID: model.AllClusters, Label: "All Clusters"}
)

// FormatClusterOptions converts raw cluster records into selector options.
// Records without a label are shown by their install UUID.
func FormatClusterOptions(records []model.ClusterRecord) []model.ClusterOption {
	out := make([]model.ClusterOption, 0, len(records)+2)
	out = append(out, PlaceholderOption, AllClustersOption)
	for _, r := range records {
		label := r.Label
		if label == "" {
			label = r.InstallUUID
		}
		out = append(out, model.ClusterOption{
			ID:    strconv.FormatInt(r.ID, 10),
			Label: label,
		})
	}
	return out
}

// ClusterLabel returns the display label for id, or id itself when unknown.
func ClusterLabel(options []model.ClusterOption, id string) string {
	for _, o := range options {
		if o.ID == id && !o.Disabled {
			return o.Label
		}
	}
	return id
}
