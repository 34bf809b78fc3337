package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rbright/talkd/internal/config"
	"github.com/rbright/talkd/internal/whisper"
	"github.com/stretchr/testify/require"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestCheckStrategyValid(t *testing.T) {
	check := checkStrategy("beam:5:0")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "beam:5:0")
}

func TestCheckStrategyInvalid(t *testing.T) {
	check := checkStrategy("bogus")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "unsupported kind")
}

func TestCheckModelDirEmptyPath(t *testing.T) {
	check := checkModelDir("")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "model_dir is empty")
}

func TestCheckModelDirMissing(t *testing.T) {
	check := checkModelDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "stat")
}

func TestCheckModelDirNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	check := checkModelDir(path)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "is not a directory")
}

func TestCheckModelDirEmptyDirectory(t *testing.T) {
	check := checkModelDir(t.TempDir())
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "no ggml model files found")
}

func TestCheckModelDirFindsPresentModels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, whisper.ModelBase.Filename()), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, whisper.ModelSmall.Filename()), []byte("x"), 0o600))

	check := checkModelDir(dir)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "base")
	require.Contains(t, check.Message, "small")
}

func TestCheckAudioSelectionFailureWithInvalidPulseServer(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	check := checkAudioSelection(config.Default())
	require.False(t, check.Pass)
	require.Contains(t, check.Name, "audio.device")
}
