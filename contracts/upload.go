package contracts

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/amortization-engine/amort"
)

// =============================================================================
// UPLOAD PARSING - Simulated document extraction
// =============================================================================

// Real document parsing is an external collaborator. ParseUpload stands in
// for it: a deterministic extraction that yields a well-formed contract
// from just the uploaded file's name, the way a parsing service response
// would arrive. Hosts swap this for a real parser without touching the
// engine.

// ParseUpload builds a contract record from an uploaded contract file.
// The stored attachment name is timestamped and tagged with a short
// unique suffix so repeated uploads of the same file never collide.
func ParseUpload(filename string, now time.Time) amort.Contract {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" {
		base = "contract"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	stored := fmt.Sprintf("contract_%s_%s%s",
		now.Format("20060102_150405"), suffix, filepath.Ext(filename))

	return amort.Contract{
		TotalAmount:    amort.MustParseDecimal("6000.00"),
		StartDate:      time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(now.Year(), time.June, 30, 0, 0, 0, 0, time.UTC),
		TaxRate:        amort.MustParseDecimal("0.06"),
		VendorName:     "Vendor " + base,
		AttachmentName: stored,
		CreatedAt:      now,
		Status:         amort.ContractActive,
	}
}
