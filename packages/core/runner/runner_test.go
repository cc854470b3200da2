package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addScript = `read a b
echo $((a + b))
`

// setupProject creates a working directory holding the script and a tests/
// fixture directory, and changes into it. fixtures maps a fixture name to its
// input and expected output.
func setupProject(t *testing.T, scriptName, script string, fixtures map[string][2]string) config.Script {
	t.Helper()
	dir := t.TempDir()
	testChdir(t, dir)

	require.NoError(t, os.WriteFile(scriptName, []byte(script), 0644))
	require.NoError(t, os.Mkdir("tests", 0755))
	for name, pair := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join("tests", name+fixture.InputExt), []byte(pair[0]), 0644))
		require.NoError(t, os.WriteFile(filepath.Join("tests", name+fixture.OutputExt), []byte(pair[1]), 0644))
	}

	return config.Script{Name: scriptName, Dir: "tests"}
}

func newShellRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Interpreter = "sh"
	return NewRunner(cfg)
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.Equal(t, config.DefaultInterpreter, r.config.Interpreter)
	})

	t.Run("with custom config", func(t *testing.T) {
		r := NewRunner(&Config{Interpreter: "python3", Timeout: time.Second})
		assert.Equal(t, "python3", r.config.Interpreter)
		assert.Equal(t, time.Second, r.config.Timeout)
	})
}

func TestRunner_RunScript_Passing(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_case1": {"2 3", "5"},
	})

	result, err := newShellRunner(nil).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Passed: 1, Failed: 0}, result.Summary)
	assert.Equal(t, 100.0, result.Summary.PassedPercent())
	assert.Equal(t, 0.0, result.Summary.FailedPercent())
	require.Len(t, result.Results, 1)

	r := result.Results[0]
	assert.True(t, r.Passed)
	assert.Equal(t, "5\n", r.Actual)
	assert.Equal(t, filepath.Join("tests", "add_case1.stdin"), r.Fixture.InputPath)
	assert.Positive(t, r.Duration)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, int64(1), result.Timing.Count)
}

func TestRunner_RunScript_Failing(t *testing.T) {
	script := setupProject(t, "add.py", "echo 6\n", map[string][2]string{
		"add_case1": {"2 3", "5"},
	})

	result, err := newShellRunner(nil).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Passed: 0, Failed: 1}, result.Summary)
	assert.Equal(t, 0.0, result.Summary.PassedPercent())
	assert.Equal(t, 100.0, result.Summary.FailedPercent())
	assert.False(t, result.Results[0].Passed)
	assert.Equal(t, "5", result.Results[0].Expected)
}

func TestRunner_RunScript_MixedAndOrdered(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_c": {"1 1", "2"},
		"add_a": {"2 2", "4"},
		"add_b": {"3 3", "7"},
	})

	var seen []string
	result, err := newShellRunner(nil).RunScript(context.Background(), script, func(r *FixtureResult) {
		seen = append(seen, r.Fixture.Name)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"add_a", "add_b", "add_c"}, seen)
	assert.Equal(t, Summary{Passed: 2, Failed: 1}, result.Summary)
	assert.Equal(t, len(result.Results), result.Summary.Total())
}

func TestRunner_RunScript_ExcludesUnrelatedFixtures(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_case1":   {"2 3", "5"},
		"other_case1": {"1 1", "nope"},
	})

	result, err := newShellRunner(nil).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Summary.Total())
	assert.Equal(t, "add_case1", result.Results[0].Fixture.Name)
}

func TestRunner_RunScript_NoFixtures(t *testing.T) {
	script := setupProject(t, "add.py", addScript, nil)

	called := false
	result, err := newShellRunner(nil).RunScript(context.Background(), script, func(*FixtureResult) {
		called = true
	})
	require.NoError(t, err)

	assert.False(t, called)
	assert.Equal(t, 0, result.Summary.Total())
	assert.Equal(t, 0.0, result.Summary.PassedPercent())
	assert.Equal(t, 0.0, result.Summary.FailedPercent())
}

func TestRunner_RunScript_NonZeroExitIsNotFailure(t *testing.T) {
	script := setupProject(t, "add.py", "echo 5\nexit 3\n", map[string][2]string{
		"add_case1": {"", "5"},
	})

	result, err := newShellRunner(nil).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.True(t, result.Results[0].Passed)
	assert.Equal(t, 3, result.Results[0].ExitCode)
}

func TestRunner_RunScript_CapturesStderr(t *testing.T) {
	script := setupProject(t, "add.py", "echo oops >&2\necho 5\n", map[string][2]string{
		"add_case1": {"", "5"},
	})

	result, err := newShellRunner(nil).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.True(t, result.Results[0].Passed)
	assert.Equal(t, "oops\n", result.Results[0].Stderr)
}

func TestRunner_RunScript_ReplacesInvalidUTF8(t *testing.T) {
	script := setupProject(t, "add.py", `printf '\377ok'`, map[string][2]string{
		"add_case1": {"", "�ok"},
	})

	result, err := newShellRunner(nil).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.Equal(t, "�ok", result.Results[0].Actual)
	assert.True(t, result.Results[0].Passed)
}

func TestRunner_RunScript_Idempotent(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_a": {"1 2", "3"},
		"add_b": {"1 2", "4"},
	})
	r := newShellRunner(nil)

	verdicts := func() []bool {
		result, err := r.RunScript(context.Background(), script, nil)
		require.NoError(t, err)
		var out []bool
		for _, fr := range result.Results {
			out = append(out, fr.Passed)
		}
		return out
	}

	assert.Equal(t, verdicts(), verdicts())
}

func TestRunner_RunScript_Env(t *testing.T) {
	script := setupProject(t, "add.py", "echo \"$FIXSPEC_GREETING\"\n", map[string][2]string{
		"add_case1": {"", "hello"},
	})

	r := newShellRunner(&Config{Env: []string{"FIXSPEC_GREETING=hello", "PATH=" + os.Getenv("PATH")}})
	result, err := r.RunScript(context.Background(), script, nil)
	require.NoError(t, err)
	assert.True(t, result.Results[0].Passed)
}

func TestRunner_RunScript_NameFilter(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_small": {"1 1", "2"},
		"add_large": {"100 100", "200"},
	})

	result, err := newShellRunner(&Config{NameFilter: "*large"}).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "add_large", result.Results[0].Fixture.Name)
}

func TestRunner_RunScript_MissingExpectedOutput(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_case1": {"2 3", "5"},
		"add_case2": {"1 1", "2"},
	})
	require.NoError(t, os.Remove(filepath.Join("tests", "add_case2.out")))

	var seen int
	_, err := newShellRunner(nil).RunScript(context.Background(), script, func(*FixtureResult) {
		seen++
	})
	require.Error(t, err)

	var readErr *FixtureReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, filepath.Join("tests", "add_case2.out"), readErr.Path)
	assert.Equal(t, 1, seen)
}

func TestRunner_RunScript_InterpreterMissing(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_case1": {"2 3", "5"},
	})

	r := NewRunner(&Config{Interpreter: "fixspec-no-such-interpreter"})
	_, err := r.RunScript(context.Background(), script, nil)
	require.Error(t, err)

	var execErr *ExecutionError
	assert.True(t, errors.As(err, &execErr))
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestRunner_RunScript_DirectoryMissing(t *testing.T) {
	testChdir(t, t.TempDir())

	_, err := newShellRunner(nil).RunScript(context.Background(), config.Script{Name: "add.py", Dir: "nope"}, nil)

	var dirErr *fixture.DirectoryReadError
	assert.True(t, errors.As(err, &dirErr))
}

func TestRunner_RunScript_Timeout(t *testing.T) {
	script := setupProject(t, "add.py", "exec sleep 5\n", map[string][2]string{
		"add_case1": {"", ""},
	})

	r := newShellRunner(&Config{Timeout: 100 * time.Millisecond})
	start := time.Now()
	result, err := r.RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 4*time.Second)
	fr := result.Results[0]
	assert.True(t, fr.TimedOut)
	assert.False(t, fr.Passed)
	assert.Equal(t, 1, result.Summary.Failed)
}

func TestRunner_RunScript_Cancelled(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_case1": {"2 3", "5"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newShellRunner(nil).RunScript(ctx, script, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_RunScript_UpdateExpected(t *testing.T) {
	script := setupProject(t, "add.py", addScript, map[string][2]string{
		"add_wrong": {"2 3", "6"},
		"add_right": {"1 1", "2"},
	})
	require.NoError(t, os.WriteFile(filepath.Join("tests", "add_new.stdin"), []byte("4 4"), 0644))

	result, err := newShellRunner(&Config{UpdateExpected: true}).RunScript(context.Background(), script, nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Passed: 3}, result.Summary)
	updated := map[string]bool{}
	for _, fr := range result.Results {
		updated[fr.Fixture.Name] = fr.Updated
	}
	assert.Equal(t, map[string]bool{"add_new": true, "add_right": false, "add_wrong": true}, updated)

	data, err := os.ReadFile(filepath.Join("tests", "add_wrong.out"))
	require.NoError(t, err)
	assert.Equal(t, "5\n", string(data))

	data, err = os.ReadFile(filepath.Join("tests", "add_new.out"))
	require.NoError(t, err)
	assert.Equal(t, "8\n", string(data))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		equal    bool
	}{
		{"trailing newline", "abc\n", "abc", true},
		{"surrounding whitespace", "  abc\t\n", "\nabc ", true},
		{"inner whitespace matters", "a b", "ab", false},
		{"different content", "6", "5", false},
		{"both empty", "", "\n", true},
		{"inner newline kept", "a\nb", "a b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Compare(tt.actual, tt.expected))
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected bool
	}{
		{"exact match", "add_case1", true},
		{"prefix match", "add_*", true},
		{"suffix match", "*case1", true},
		{"contains match", "*_ca*", true},
		{"no match", "sub*", false},
		{"empty pattern", "", true},
		{"wildcard only", "*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name+" - "+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchesPattern("add_case1", tt.pattern))
		})
	}
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
