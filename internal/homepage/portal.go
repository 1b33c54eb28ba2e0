package homepage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// SpecialPage is the optional hand-maintained page embedded at the end of a
// portal when it exists in the Portals directory.
const SpecialPage = "Vault Map"

// Portal generates a portal aggregate: one embed per topic homepage, the
// special page when present, and a timestamped info callout.
type Portal struct {
	Now func() time.Time
}

func (p *Portal) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Generate renders the portal content for the given topics. Topics without
// a homepage are skipped silently: the portal only embeds what exists.
func (p *Portal) Generate(v *vault.Vault, topics []vault.Topic) string {
	var sb strings.Builder
	sb.WriteString(GeneratedMarker)
	sb.WriteString("\n\n")

	for i := range topics {
		if hp, ok := topics[i].Homepage(); ok {
			fmt.Fprintf(&sb, "![[%s]]\n", hp.Title)
		}
	}

	if _, err := os.Stat(filepath.Join(v.PortalsPath(), SpecialPage+".md")); err == nil {
		fmt.Fprintf(&sb, "![[%s]]\n", SpecialPage)
	}

	fmt.Fprintf(&sb, "\n> [!info] Generated %s\n", p.now().Format(Stamp))
	return sb.String()
}

// Write regenerates the named portal file under Portals.
func (p *Portal) Write(v *vault.Vault, name string, topics []vault.Topic) (string, error) {
	path := filepath.Join(v.PortalsPath(), name+".md")
	if err := os.WriteFile(path, []byte(p.Generate(v, topics)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
