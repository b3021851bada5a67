package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobhydra/internal/model"
	"github.com/amishk599/jobhydra/internal/pipeline"
)

func TestRecorderCounts(t *testing.T) {
	t.Parallel()

	r, err := NewRecorder()
	require.NoError(t, err)

	r.SourceFetched(model.SourceSearch, 10)
	r.SourceFetched(model.SourceSearch, 5)
	r.SourceFailed(model.SourceFeed)
	r.ProviderFailed("gemini")
	r.ProviderFailed("gemini")
	r.NotificationFailed()

	require.Equal(t, 15.0, testutil.ToFloat64(r.sourceCandidates.WithLabelValues("search")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.sourceFailures.WithLabelValues("feed")))
	require.Equal(t, 2.0, testutil.ToFloat64(r.providerFailures.WithLabelValues("gemini")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.notifyFailures))
}

func TestRecorderRunFinished(t *testing.T) {
	t.Parallel()

	r, err := NewRecorder()
	require.NoError(t, err)

	r.RunFinished(pipeline.Summary{Fetched: 20, Accepted: 8, Matches: 3, Drafts: 1, Duration: 90 * time.Second})

	require.Equal(t, 20.0, testutil.ToFloat64(r.runCandidates.WithLabelValues("fetched")))
	require.Equal(t, 3.0, testutil.ToFloat64(r.runCandidates.WithLabelValues("matches")))
	require.Equal(t, 90.0, testutil.ToFloat64(r.runDuration))
	require.Greater(t, testutil.ToFloat64(r.lastSuccess), 0.0)
}

func TestPush(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotMethod = req.Method
		gotPath = req.URL.Path
		gotBody, _ = io.ReadAll(req.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r, err := NewRecorder()
	require.NoError(t, err)
	r.NotificationFailed()

	require.NoError(t, r.Push(context.Background(), srv.URL, "jobhydra", "laptop"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/metrics/job/jobhydra/instance/laptop", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPushError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := NewRecorder()
	require.NoError(t, err)
	assert.Error(t, r.Push(context.Background(), srv.URL, "jobhydra", ""))
}
