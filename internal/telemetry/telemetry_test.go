package telemetry

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServerExposesRebuildMetrics(t *testing.T) {
	RecordRebuild(RebuildStats{Duration: 3 * time.Millisecond, Visited: 4, Edges: 2, AssetCounts: []int{1, 3}})
	RecordRebuildCancelled()

	srv, err := Listen("127.0.0.1:0", nil)
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	for _, name := range []string{
		"assetrefs_rebuild_total",
		"assetrefs_rebuild_duration_seconds",
		"assetrefs_objects_visited_total",
		"assetrefs_assets_per_root",
		"assetrefs_graph_edges 2",
	} {
		assert.True(t, strings.Contains(text, name), "missing %s", name)
	}
	assert.Contains(t, text, `result="cancelled"`)
}

func TestListenRejectsBadAddress(t *testing.T) {
	_, err := Listen("not-an-address", nil)
	require.Error(t, err)
}
