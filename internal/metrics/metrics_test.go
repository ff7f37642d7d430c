package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspec/internal/domain"
)

func TestRecordRun(t *testing.T) {
	passedBefore := testutil.ToFloat64(specificationsTotal.WithLabelValues("accounts", "passed"))
	failedBefore := testutil.ToFloat64(specificationsTotal.WithLabelValues("accounts", "failed"))
	runsBefore := testutil.ToFloat64(runsTotal.WithLabelValues("failure"))

	RecordRun("accounts", domain.RunStateFailure, []domain.TestResult{
		{Name: "a", State: domain.TestStatePassed},
		{Name: "b", State: domain.TestStatePassed},
		{Name: "c", State: domain.TestStateFailed},
	}, 1500*time.Millisecond)

	assert.Equal(t, passedBefore+2, testutil.ToFloat64(specificationsTotal.WithLabelValues("accounts", "passed")))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(specificationsTotal.WithLabelValues("accounts", "failed")))
	assert.Equal(t, runsBefore+1, testutil.ToFloat64(runsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.5, testutil.ToFloat64(runDuration.WithLabelValues("accounts")))
}

func TestRecordRun_NoTests(t *testing.T) {
	before := testutil.ToFloat64(runsTotal.WithLabelValues("no_tests"))
	RecordRun("empty", domain.RunStateNoTests, nil, 0)
	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues("no_tests")))
}

func TestWriteTextfile(t *testing.T) {
	RecordRun("textfile", domain.RunStateSuccess, []domain.TestResult{{Name: "a"}}, time.Second)

	path := filepath.Join(t.TempDir(), "mspec.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mspec_specifications_total{assembly="textfile",result="passed"}`)
	assert.Contains(t, string(data), "mspec_run_duration_seconds")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "mspec.prom"))
	assert.Error(t, err)
}
