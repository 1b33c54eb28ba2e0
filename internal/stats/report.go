package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stamp is the timestamp layout of the report footer.
const Stamp = "2006-01-02 15:04"

// Report renders the fixed markdown table: nine category rows, a bolded
// total row, and a timestamp footer.
func Report(a *Aggregator, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Vault Statistics\n\n")
	sb.WriteString("| Category | Count |\n")
	sb.WriteString("| --- | --- |\n")
	for i, c := range Categories {
		fmt.Fprintf(&sb, "| %s | %d |\n", c.Row, a.counts[i])
	}
	fmt.Fprintf(&sb, "| **Total** | %d |\n", a.Total())
	fmt.Fprintf(&sb, "\n> [!info] Updated %s\n", now.Format(Stamp))
	return sb.String()
}

// WriteReport fully replaces the report file at path.
func WriteReport(path string, a *Aggregator, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Report(a, now)), 0o644)
}
