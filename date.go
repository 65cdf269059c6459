package receiptpdf

import (
	"sync"
	"time"
)

var easternOnce sync.Once
var easternLoc *time.Location

// easternLocation returns the US Eastern time zone. Receipts always print
// Eastern timestamps regardless of where the renderer runs. On hosts without
// tzdata the lookup fails; a fixed EST offset keeps rendering alive rather
// than failing the document.
func easternLocation() *time.Location {
	easternOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.FixedZone("EST", -5*60*60)
		}
		easternLoc = loc
	})
	return easternLoc
}
