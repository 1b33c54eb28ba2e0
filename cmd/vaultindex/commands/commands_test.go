package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Name("vaultindex"),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)
	return parser
}

func TestParse_CommandRoutingAndDefaults(t *testing.T) {
	cli := &CLI{}
	ctx, err := newParser(t, cli).Parse([]string{"index"})
	require.NoError(t, err)
	require.Equal(t, "index", ctx.Command())
	require.Equal(t, "config.yaml", cli.Config)
	require.False(t, cli.Verbose)
}

func TestParse_GlobalFlags(t *testing.T) {
	cli := &CLI{}
	ctx, err := newParser(t, cli).Parse([]string{"-c", "other.yaml", "-v", "history", "-n", "5"})
	require.NoError(t, err)
	require.Equal(t, "history", ctx.Command())
	require.Equal(t, "other.yaml", cli.Config)
	require.True(t, cli.Verbose)
	require.Equal(t, 5, cli.History.Limit)
}

func TestParse_HistoryRunFlag(t *testing.T) {
	cli := &CLI{}
	ctx, err := newParser(t, cli).Parse([]string{"history", "--run", "abc-123"})
	require.NoError(t, err)
	require.Equal(t, "history", ctx.Command())
	require.Equal(t, "abc-123", cli.History.RunID)
}

func TestParse_UnknownCommandFails(t *testing.T) {
	_, err := newParser(t, &CLI{}).Parse([]string{"frobnicate"})
	require.Error(t, err)
}

func TestInitCmd_WritesStarterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cmd := &InitCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "vault:")
	require.Contains(t, string(data), "threshold_mb:")

	require.Error(t, cmd.Run(&Global{}, &CLI{Config: path}))
}

// newTestVault lays out a minimal valid vault plus a config file pointing at it.
func newTestVault(t *testing.T) (configPath, vaultRoot string) {
	t.Helper()
	dir := t.TempDir()
	vaultRoot = filepath.Join(dir, "vault")

	notesRoot := filepath.Join(vaultRoot, "Notes Root")
	for _, sub := range []string{"Knowledge/Groups", "LectureNotes", "Portals", "SupportFiles"} {
		require.NoError(t, os.MkdirAll(filepath.Join(notesRoot, sub), 0o755))
	}
	note := "# Groups\n\n> [!definition]\n> A group is a set with an operation.\n"
	require.NoError(t, os.WriteFile(filepath.Join(notesRoot, "Knowledge/Groups/Groups.md"), []byte(note), 0o644))

	configPath = filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`
vault:
  root: %s
backup:
  pool_dir: %s
  threshold_mb: 2048
  target_mb: 512
  min_snapshots: 4
`, vaultRoot, filepath.Join(dir, "backups"))
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	return configPath, vaultRoot
}

func TestStatsCmd_WritesReport(t *testing.T) {
	configPath, vaultRoot := newTestVault(t)

	cmd := &StatsCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: configPath}))

	data, err := os.ReadFile(filepath.Join(vaultRoot, "Notes Root", "SupportFiles", "Statistics.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "| Definitions | 1 |")
	require.Contains(t, string(data), "| **Total** | 1 |")
}

func TestStatsCmd_MissingConfigFails(t *testing.T) {
	cmd := &StatsCmd{}
	err := cmd.Run(&Global{}, &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
}

func TestRotateCmd_TakesSnapshotAndReports(t *testing.T) {
	configPath, _ := newTestVault(t)

	cmd := &RotateCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: configPath}))
}
