package commands

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/locdist/pkg/columns"
	"github.com/ccollicutt/locdist/pkg/config"
)

func TestNewDiagnoseCommand(t *testing.T) {
	t.Parallel()

	cmd := NewDiagnoseCommand()

	assert.Equal(t, "diagnose <input_file>", cmd.Use)
	for _, flag := range []string{"config", "separator", "quote", "verbose"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestRunDiagnose_CleanInput(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "input.txt", exampleTab)

	out, _, err := execute(t, NewDiagnoseCommand(), path)
	require.NoError(t, err, out)

	for _, want := range []string{
		"[PASS] Config",
		"[PASS] Input Path",
		"[PASS] Separator",
		"6 rows parsed",
		"6 pairs available",
		"Summary: 5 passed, 0 warnings, 0 errors",
		"Input looks good!",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRunDiagnose_ReportsEveryBadRow(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "input.txt", "3\t4\n\t9\n1\t\n5\tx\n2\t2\t2\n")

	out, _, err := execute(t, NewDiagnoseCommand(), path)
	require.ErrorIs(t, err, ErrDiagnosticsFailed)
	assert.Equal(t, ExitError, ExitCodeFor(err))

	for _, want := range []string{
		"4 of 5 rows malformed",
		":2: integer column has NA values in column 0",
		":3: integer column has NA values in column 1",
		":4: integer column has NA values in column 1",
		":5: too many fields in row: got 3, want 2",
		"Hint: Rows with extra fields may mean the separator is wrong",
		"1 pairs available",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRunDiagnose_TruncatesProblemList(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < maxProblemDetails+5; i++ {
		b.WriteString("x\t1\n")
	}
	path := writeFile(t, t.TempDir(), "input.txt", b.String())

	out, _, err := execute(t, NewDiagnoseCommand(), path)
	require.ErrorIs(t, err, ErrDiagnosticsFailed)
	assert.Contains(t, out, "... and 5 more")
	assert.Contains(t, out, columns.ErrNoData.Error())
}

func TestRunDiagnose_SeparatorMismatch(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "input.txt", exampleSpaces)

	out, _, err := execute(t, NewDiagnoseCommand(), path)
	require.Error(t, err, "space-separated file read as tab-separated")
	assert.Contains(t, out, "[WARN] Separator")
	assert.Contains(t, out, `Try --separator "whitespace"`)
}

func TestRunDiagnose_AutoSeparator(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "input.txt", exampleSpaces)

	out, _, err := execute(t, NewDiagnoseCommand(), "-s", "auto", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Detected Whitespace")
}

func TestRunDiagnose_MissingInput(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, NewDiagnoseCommand(), filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, err, ErrDiagnosticsFailed)
	assert.Contains(t, out, "[FAIL] Input Path")
	assert.Contains(t, out, "Hint: Check the file path is correct")
	assert.NotContains(t, out, "Separator", "checks after a failed input path should not run")
}

func TestRunDiagnose_BadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "input.txt", exampleTab)
	configPath := writeFile(t, dir, "bad.yaml", "input: [\n")

	out, _, err := execute(t, NewDiagnoseCommand(), "-c", configPath, path)
	require.ErrorIs(t, err, ErrDiagnosticsFailed)
	assert.Contains(t, out, "[FAIL] Config")
}

func TestRunDiagnose_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "1\t2\n")
	writeFile(t, dir, "b.txt", "1\tz\n")

	out, _, err := execute(t, NewDiagnoseCommand(), dir)
	require.Error(t, err, "bad row in b.txt")
	assert.Contains(t, out, "2 file(s) to read")
	assert.Contains(t, out, "[PASS] Rows: "+filepath.Join(dir, "a.txt"))
	assert.Contains(t, out, "[FAIL] Rows: "+filepath.Join(dir, "b.txt"))
}

func TestCheckWebhooks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Webhooks = []config.WebhookConfig{
		{Name: "live", URL: server.URL, Trigger: config.WebhookTriggerAlways},
		{Name: "off", URL: server.URL, Trigger: config.WebhookTriggerNever},
	}

	results := checkWebhooks(cfg, &DiagnoseOptions{})
	require.Len(t, results, 2)
	assert.Equal(t, StatusOK, results[0].Status, "live")
	assert.Equal(t, StatusWarning, results[1].Status, "off")

	results = checkWebhooks(cfg, &DiagnoseOptions{Verbose: true})
	require.Len(t, results, 4)
	assert.Equal(t, "Webhook Connectivity: live", results[1].Check)
	assert.Equal(t, StatusOK, results[1].Status)
}

func TestCheckWebhooks_NoneConfigured(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	assert.Empty(t, checkWebhooks(cfg, &DiagnoseOptions{}))
	assert.Len(t, checkWebhooks(cfg, &DiagnoseOptions{Verbose: true}), 1)
}

func TestCheckWebhookConnectivity_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	result := checkWebhookConnectivity(config.WebhookConfig{URL: url})
	assert.Equal(t, StatusWarning, result.Status)
	assert.True(t, strings.HasPrefix(result.Message, "Cannot connect"), result.Message)
}

func TestPrintDiagnostics_Counts(t *testing.T) {
	t.Parallel()

	results := []DiagnosticResult{
		{Check: "a", Status: StatusOK, Message: "fine", Details: []string{"hidden"}},
		{Check: "b", Status: StatusWarning, Message: "meh", Details: []string{"shown"}},
		{Check: "c", Status: StatusError, Message: "bad"},
	}

	var b strings.Builder
	errs := printDiagnostics(&b, results, &DiagnoseOptions{})
	out := b.String()

	assert.Equal(t, 1, errs)
	assert.NotContains(t, out, "hidden", "details of passing checks hidden without -v")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "Summary: 1 passed, 1 warnings, 1 errors")
}
