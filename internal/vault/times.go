package vault

import (
	"os"
	"time"
)

// FileTimes carries the two timestamps the index orders by.
type FileTimes struct {
	Created  time.Time
	Modified time.Time
}

// statTimes reads creation and modification times for a path. Creation time
// comes from the platform-specific stat payload when available; when the
// platform exposes no birth time the modification time stands in, which
// keeps ordering stable for vaults that are written once and rarely edited.
func statTimes(path string) FileTimes {
	info, err := os.Stat(path)
	if err != nil {
		return FileTimes{}
	}
	t := FileTimes{Modified: info.ModTime()}
	if created, ok := birthTime(info); ok {
		t.Created = created
	} else {
		t.Created = info.ModTime()
	}
	return t
}
