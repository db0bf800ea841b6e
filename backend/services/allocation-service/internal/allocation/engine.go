package allocation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

const (
	DefaultTargetShare = 0.20
	DefaultTolerance   = 0.05
	DefaultEpsilon     = 1e-6
)

// Process-wide random source used when no *rand.Rand is injected.
var (
	processRandMu sync.Mutex
	processRand   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Options configures an Engine. Zero values fall back to the defaults.
type Options struct {
	TargetShare float64
	Tolerance   float64
	Epsilon     float64
	// Rand, when set, is the only source of randomness. Inject a seeded
	// source for reproducible draws.
	Rand *rand.Rand
}

// BlockResult is the outcome for one block. Units are copies carrying the
// decided owner, ordered by unit id. Committed holds the block's units that
// earlier runs already allocated; they count toward the block's share but
// are not written again.
type BlockResult struct {
	BlockName      string
	TotalGrossArea float64
	Units          []models.Unit
	Committed      []models.Unit
}

// Result is what one Allocate call decided.
type Result struct {
	Method       models.DistributionMethod
	PerUnitOwner map[string]models.Owner
	Blocks       []BlockResult
	Issues       []string
	Message      string
}

// Counts returns how many units got a final owner and how many were left
// pending negotiation.
func (r *Result) Counts() (allocated, pending int) {
	for _, o := range r.PerUnitOwner {
		if o == models.OwnerPendingNegotiation {
			pending++
		} else if o.IsFinal() {
			allocated++
		}
	}
	return allocated, pending
}

type Engine struct {
	targetShare float64
	epsilon     float64
	checker     *Checker

	mu  *sync.Mutex
	rng *rand.Rand
}

func NewEngine(opts Options) *Engine {
	if opts.TargetShare <= 0 || opts.TargetShare >= 1 {
		opts.TargetShare = DefaultTargetShare
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}

	e := &Engine{
		targetShare: opts.TargetShare,
		epsilon:     opts.Epsilon,
		checker:     NewChecker(opts.TargetShare, opts.Tolerance, opts.Epsilon),
	}
	if opts.Rand != nil {
		e.rng = opts.Rand
		e.mu = &sync.Mutex{}
	} else {
		e.rng = processRand
		e.mu = &processRandMu
	}
	return e
}

// Checker returns the compliance checker configured with the engine's
// target, tolerance and epsilon.
func (e *Engine) Checker() *Checker {
	return e.checker
}

// ParseMethod maps a method name to its enum, wrapping ErrInvalidMethod.
func ParseMethod(name string) (models.DistributionMethod, error) {
	m, err := models.ParseDistributionMethod(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not one of %s", ErrInvalidMethod, name, methodList())
	}
	return m, nil
}

// Allocate decides an owner for every unit. Units must all be unallocated.
// Blocks are processed in ascending name order.
func (e *Engine) Allocate(method models.DistributionMethod, units []*models.Unit) (*Result, error) {
	return e.AllocateWithCommitted(method, units, nil)
}

// AllocateWithCommitted is Allocate for blocks that earlier runs partly
// allocated. Committed units must be allocated with a final owner; their
// area seeds the running tally and counts in the compliance check. Committed
// units of blocks absent from units are ignored.
func (e *Engine) AllocateWithCommitted(method models.DistributionMethod, units, committed []*models.Unit) (*Result, error) {
	strat, ok := strategies[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not one of %s", ErrInvalidMethod, method, methodList())
	}
	blocks, err := validateAndGroup(units)
	if err != nil {
		return nil, err
	}
	if err := attachCommitted(blocks, committed); err != nil {
		return nil, err
	}

	res := &Result{
		Method:       method,
		PerUnitOwner: make(map[string]models.Owner, len(units)),
		Issues:       []string{},
	}

	for _, b := range blocks {
		owners, issues := strat(e, b)
		res.Issues = append(res.Issues, issues...)

		br := BlockResult{
			BlockName:      b.name,
			TotalGrossArea: b.total,
			Units:          make([]models.Unit, 0, len(b.units)),
		}
		for _, u := range b.committed {
			br.Committed = append(br.Committed, *u)
		}
		for _, u := range b.units {
			cp := *u
			cp.Owner = owners[u.UnitID]
			br.Units = append(br.Units, cp)
			res.PerUnitOwner[u.UnitID] = cp.Owner
		}
		res.Issues = append(res.Issues, e.checker.Check(br)...)
		res.Blocks = append(res.Blocks, br)
	}

	res.Message = summaryMessage(res)
	return res, nil
}

type block struct {
	name      string
	total     float64
	units     []*models.Unit // ordered by unit id
	committed []*models.Unit // allocated by earlier runs, ordered by unit id
}

// committedTally sums the committed area per owner, optionally restricted
// to one floor.
func (b *block) committedTally(floor *int) tally {
	var t tally
	for _, u := range b.committed {
		if floor == nil || u.FloorNumber == *floor {
			t.add(u.Owner, u.GrossArea)
		}
	}
	return t
}

func attachCommitted(blocks []*block, committed []*models.Unit) error {
	if len(committed) == 0 {
		return nil
	}
	byName := make(map[string]*block, len(blocks))
	ids := make(map[string]struct{})
	for _, b := range blocks {
		byName[b.name] = b
		for _, u := range b.units {
			ids[u.UnitID] = struct{}{}
		}
	}
	for _, u := range committed {
		if u == nil {
			return fmt.Errorf("%w: nil committed unit", ErrInvalidInput)
		}
		b, ok := byName[u.BlockName]
		if !ok {
			continue
		}
		if _, dup := ids[u.UnitID]; dup {
			return fmt.Errorf("%w: unit %s is both committed and up for allocation", ErrInvalidInput, u.UnitID)
		}
		ids[u.UnitID] = struct{}{}
		if !u.Allocated || !u.Owner.IsFinal() {
			return fmt.Errorf("%w: committed unit %s has no final owner", ErrInvalidInput, u.UnitID)
		}
		if u.TotalBuildingGrossArea != b.total {
			return fmt.Errorf("%w: block %s reports inconsistent totals %.2f and %.2f",
				ErrInvalidInput, b.name, b.total, u.TotalBuildingGrossArea)
		}
		b.committed = append(b.committed, u)
	}
	for _, b := range blocks {
		sortByID(b.committed)
	}
	return nil
}

func validateAndGroup(units []*models.Unit) ([]*block, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: no units to allocate", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(units))
	byName := make(map[string]*block)
	for _, u := range units {
		if u == nil {
			return nil, fmt.Errorf("%w: nil unit", ErrInvalidInput)
		}
		if u.UnitID == "" {
			return nil, fmt.Errorf("%w: unit with empty id", ErrInvalidInput)
		}
		if _, dup := seen[u.UnitID]; dup {
			return nil, fmt.Errorf("%w: duplicate unit id %s", ErrInvalidInput, u.UnitID)
		}
		seen[u.UnitID] = struct{}{}

		if !u.Typology.Valid() {
			return nil, fmt.Errorf("%w: unit %s has unknown typology %q", ErrInvalidInput, u.UnitID, u.Typology)
		}
		if u.Allocated {
			return nil, fmt.Errorf("%w: unit %s is already allocated", ErrInvalidInput, u.UnitID)
		}
		if !(u.NetArea > 0) || !(u.GrossArea > 0) || math.IsInf(u.GrossArea, 0) {
			return nil, fmt.Errorf("%w: unit %s must have positive areas", ErrInvalidInput, u.UnitID)
		}
		if u.GrossArea < u.NetArea {
			return nil, fmt.Errorf("%w: unit %s gross area %.2f is below net area %.2f", ErrInvalidInput, u.UnitID, u.GrossArea, u.NetArea)
		}
		if !(u.TotalBuildingGrossArea > 0) {
			return nil, fmt.Errorf("%w: unit %s must have a positive total building gross area", ErrInvalidInput, u.UnitID)
		}

		b, ok := byName[u.BlockName]
		if !ok {
			b = &block{name: u.BlockName, total: u.TotalBuildingGrossArea}
			byName[u.BlockName] = b
		} else if b.total != u.TotalBuildingGrossArea {
			return nil, fmt.Errorf("%w: block %s reports inconsistent totals %.2f and %.2f",
				ErrInvalidInput, u.BlockName, b.total, u.TotalBuildingGrossArea)
		}
		b.units = append(b.units, u)
	}

	out := make([]*block, 0, len(byName))
	for _, b := range byName {
		sortByID(b.units)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

func sortByID(units []*models.Unit) {
	sort.Slice(units, func(i, j int) bool { return units[i].UnitID < units[j].UnitID })
}

func summaryMessage(r *Result) string {
	allocated, pending := r.Counts()
	msg := fmt.Sprintf("Allocation completed using %s: %d units allocated across %d blocks", r.Method, allocated, len(r.Blocks))
	if pending > 0 {
		msg += fmt.Sprintf(", %d pending negotiation", pending)
	}
	if n := len(r.Issues); n > 0 {
		msg += fmt.Sprintf(" with %d issue(s)", n)
	}
	return msg + "."
}

func methodList() string {
	names := make([]string, 0, len(models.AllDistributionMethods))
	for _, m := range models.AllDistributionMethods {
		names = append(names, fmt.Sprintf("%q", m))
	}
	return strings.Join(names, ", ")
}
