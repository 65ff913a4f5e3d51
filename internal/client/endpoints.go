package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dm/aadash/internal/model"
)

// APIPrefix is the path prefix shared by every analytics endpoint.
const APIPrefix = "/api/tower-analytics"

const (
	endpointPreflight   = APIPrefix + "/preflight/"
	endpointChart       = APIPrefix + "/chart30/"
	endpointClusters    = APIPrefix + "/clusters/"
	endpointModules     = APIPrefix + "/modules/"
	endpointTemplates   = APIPrefix + "/templates/"
	endpointEvents      = APIPrefix + "/events/"
	clusterChartPattern = APIPrefix + "/clusters/%s/chart30/"
)

// Preflight checks that the analytics backend and its dependencies are
// reachable. Any non-2xx answer is a failure. A 2xx answer passes unless its
// JSON body reports a status other than "ok"; empty and non-JSON bodies pass.
func (c *DefaultClient) Preflight(ctx context.Context) error {
	body, err := c.doGet(ctx, endpointPreflight, nil)
	if err != nil {
		return fmt.Errorf("Preflight: %w", err)
	}
	var result PreflightResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil
	}
	if result.Status != "" && result.Status != "ok" {
		return fmt.Errorf("Preflight: backend reported status %q", result.Status)
	}
	return nil
}

// ReadAggregateMetrics fetches daily job outcomes summed across all clusters.
func (c *DefaultClient) ReadAggregateMetrics(ctx context.Context, f model.FilterSnapshot) ([]model.DataPoint, error) {
	q := f.Query()
	q.Del("cluster_id")
	body, err := c.doGet(ctx, endpointChart, q)
	if err != nil {
		return nil, fmt.Errorf("ReadAggregateMetrics: %w", err)
	}

	var result ChartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ReadAggregateMetrics decode: %w", err)
	}
	return result.Data, nil
}

// ReadPerClusterMetrics fetches daily job outcomes for the snapshot's cluster.
func (c *DefaultClient) ReadPerClusterMetrics(ctx context.Context, f model.FilterSnapshot) ([]model.DataPoint, error) {
	if f.AllClustersSelected() {
		return nil, fmt.Errorf("ReadPerClusterMetrics: a specific cluster is required")
	}
	path := fmt.Sprintf(clusterChartPattern, url.PathEscape(f.ClusterID))
	body, err := c.doGet(ctx, path, f.Query())
	if err != nil {
		return nil, fmt.Errorf("ReadPerClusterMetrics: %w", err)
	}

	var result ChartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ReadPerClusterMetrics decode: %w", err)
	}
	return result.Data, nil
}

// ReadClusters fetches the list of known clusters.
func (c *DefaultClient) ReadClusters(ctx context.Context) ([]model.ClusterRecord, error) {
	body, err := c.doGet(ctx, endpointClusters, nil)
	if err != nil {
		return nil, fmt.Errorf("ReadClusters: %w", err)
	}

	var result ClustersResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ReadClusters decode: %w", err)
	}
	return result.Templates, nil
}

// ReadModules fetches module usage counts for the snapshot.
func (c *DefaultClient) ReadModules(ctx context.Context, f model.FilterSnapshot) ([]model.Module, error) {
	body, err := c.doGet(ctx, endpointModules, f.Query())
	if err != nil {
		return nil, fmt.Errorf("ReadModules: %w", err)
	}

	var result ModulesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ReadModules decode: %w", err)
	}
	return result.Modules, nil
}

// ReadTemplates fetches job template usage counts for the snapshot.
func (c *DefaultClient) ReadTemplates(ctx context.Context, f model.FilterSnapshot) ([]model.Template, error) {
	body, err := c.doGet(ctx, endpointTemplates, f.Query())
	if err != nil {
		return nil, fmt.Errorf("ReadTemplates: %w", err)
	}

	var result TemplatesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ReadTemplates decode: %w", err)
	}
	return result.Templates, nil
}
