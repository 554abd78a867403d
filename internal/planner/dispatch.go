package planner

import "github.com/talkincode/voltdesk/internal/domain"

// addStyle selects how an enabled option lands in the cart.
type addStyle int

const (
	// addVirtual creates a virtual product id <containerID>-<optionID>.
	addVirtual addStyle = iota
	// addBaseWithOption adds the container's base product carrying the
	// option id as an additional option.
	addBaseWithOption
	// addBase adds the container's base product as-is.
	addBase
)

type dispatchEntry struct {
	Mode  string
	Style addStyle
}

// dispatchTable routes an option id to its cart semantics. One table
// instead of a chained string-comparison cascade so the routing can be
// audited and tested row by row.
var dispatchTable = map[string]dispatchEntry{
	"block-2":          {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"block-3":          {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"block-4":          {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"block-5":          {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"add-outlet":       {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"move-switch":      {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"move-switch-alt":  {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"cable-10m":        {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"cable-corrugated": {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"breaker-install":  {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"breaker-replace":  {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"meter-230v":       {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"meter-380v":       {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"box-surface":      {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"box-flush":        {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"repair":           {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"surface-outlet":   {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"gas-sensor":       {Mode: domain.ServiceFullWiring, Style: addVirtual},
	"install":          {Mode: domain.ServiceInstallOnly, Style: addVirtual},
	"crystal":          {Mode: domain.ServiceInstallOnly, Style: addVirtual},
	"dismantle":        {Mode: domain.ServiceInstallOnly, Style: addBaseWithOption},
	"assemble":         {Mode: domain.ServiceInstallOnly, Style: addBaseWithOption},
}

// dispatchFor returns the routing entry for an option id. Unknown ids fall
// back to a plain base-product add in install-only mode.
func dispatchFor(optionID string) dispatchEntry {
	if e, ok := dispatchTable[optionID]; ok {
		return e
	}
	return dispatchEntry{Mode: domain.ServiceInstallOnly, Style: addBase}
}
