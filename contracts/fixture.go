/*
fixture.go - In-memory fixture directory

PURPOSE:
  A Directory implementation seeded with realistic demo contracts, for
  development, demos, and tests that don't want a database. Plays the
  role the demo scenario loaders play in a server with persistent state:
  pre-built data that exercises every schedule shape (even split, rounding
  remainder, year-boundary windows).

USAGE:
  dir := contracts.NewFixture()
  page, _ := dir.List(ctx, 0, 10)

NOTE:
  The fixture is mutable (uploads and updates land in memory) so the full
  API surface works against it; state is lost on restart by design.
*/
package contracts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/amortization-engine/amort"
)

// Fixture is an in-memory Directory seeded with demo contracts.
type Fixture struct {
	mu     sync.RWMutex
	byID   map[amort.ContractID]amort.Contract
	nextID amort.ContractID
	now    func() time.Time
}

// NewFixture returns a directory pre-seeded with three demo contracts.
func NewFixture() *Fixture {
	f := &Fixture{
		byID: make(map[amort.ContractID]amort.Contract),
		now:  time.Now,
	}
	for _, c := range seedContracts() {
		f.byID[c.ID] = c
		if c.ID >= f.nextID {
			f.nextID = c.ID + 1
		}
	}
	return f
}

func seedContracts() []amort.Contract {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return []amort.Contract{
		{
			ID:             1,
			TotalAmount:    amort.MustParseDecimal("6000.00"),
			StartDate:      day(2024, time.January, 1),
			EndDate:        day(2024, time.June, 30),
			TaxRate:        amort.MustParseDecimal("0.06"),
			VendorName:     "Vendor A",
			AttachmentName: "contract_20240124_143052_a1b2c3d4.pdf",
			CreatedAt:      time.Date(2024, time.January, 24, 14, 30, 52, 0, time.UTC),
			Status:         amort.ContractActive,
		},
		{
			ID:             2,
			TotalAmount:    amort.MustParseDecimal("7500.00"),
			StartDate:      day(2024, time.February, 1),
			EndDate:        day(2024, time.July, 31),
			TaxRate:        amort.MustParseDecimal("0.06"),
			VendorName:     "Vendor B",
			AttachmentName: "contract_20240224_143052_b2c3d4e5.pdf",
			CreatedAt:      time.Date(2024, time.February, 24, 14, 30, 52, 0, time.UTC),
			Status:         amort.ContractActive,
		},
		{
			ID:             3,
			TotalAmount:    amort.MustParseDecimal("8000.00"),
			StartDate:      day(2024, time.March, 1),
			EndDate:        day(2024, time.August, 31),
			TaxRate:        amort.MustParseDecimal("0.06"),
			VendorName:     "Vendor C",
			AttachmentName: "contract_20240324_150230_x9y8z7w6.pdf",
			CreatedAt:      time.Date(2024, time.March, 24, 15, 2, 30, 0, time.UTC),
			Status:         amort.ContractActive,
		},
	}
}

func (f *Fixture) List(_ context.Context, page, size int) (Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	all := make([]amort.Contract, 0, len(f.byID))
	for _, c := range f.byID {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	start := page * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	return Page{
		Contracts:  append([]amort.Contract(nil), all[start:end]...),
		TotalCount: len(all),
	}, nil
}

func (f *Fixture) Get(_ context.Context, id amort.ContractID) (amort.Contract, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	c, ok := f.byID[id]
	if !ok {
		return amort.Contract{}, ErrContractNotFound
	}
	return c, nil
}

func (f *Fixture) Create(_ context.Context, c amort.Contract) (amort.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.nextID == 0 {
		f.nextID = 1
	}
	c.ID = f.nextID
	f.nextID++
	if c.CreatedAt.IsZero() {
		c.CreatedAt = f.now()
	}
	if c.Status == "" {
		c.Status = amort.ContractActive
	}
	f.byID[c.ID] = c
	return c, nil
}

func (f *Fixture) Update(_ context.Context, id amort.ContractID, req UpdateRequest) (amort.Contract, error) {
	if err := ValidateUpdate(req); err != nil {
		return amort.Contract{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.byID[id]
	if !ok {
		return amort.Contract{}, ErrContractNotFound
	}
	c.TotalAmount = req.TotalAmount
	c.StartDate = req.StartDate
	c.EndDate = req.EndDate
	c.TaxRate = req.TaxRate
	c.VendorName = req.VendorName
	f.byID[id] = c
	return c, nil
}

var _ Directory = (*Fixture)(nil)
