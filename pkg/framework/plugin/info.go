package plugin

import (
	"crypto/sha1"
	"fmt"
)

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Fx", "Instrument")
}

// UID derives a stable 16-byte identifier from the string ID.
func (i Info) UID() [16]byte {
	var uid [16]byte
	sum := sha1.Sum([]byte(i.ID))
	copy(uid[:], sum[:16])
	return uid
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Name, i.Version, i.Vendor)
}
