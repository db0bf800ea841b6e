package allocation

import (
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

// tally is the gross area drawn so far for each side.
type tally struct {
	authority float64
	developer float64
}

func (t *tally) add(o models.Owner, area float64) {
	switch o {
	case models.OwnerAuthority:
		t.authority += area
	case models.OwnerDeveloper:
		t.developer += area
	}
}

// shuffled returns a Fisher–Yates permutation of units. The input slice is
// left untouched.
func (e *Engine) shuffled(units []*models.Unit) []*models.Unit {
	out := make([]*models.Unit, len(units))
	copy(out, units)

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// nextOwner picks the side that is further below its target share of the
// area drawn so far. When neither side is below target the draw index
// decides: even goes to the Developer, odd to the authority.
func (e *Engine) nextOwner(t tally, draw int) models.Owner {
	parity := models.OwnerDeveloper
	if draw%2 == 1 {
		parity = models.OwnerAuthority
	}

	drawn := t.authority + t.developer
	var authorityShare, developerShare float64
	if drawn > 0 {
		authorityShare = t.authority / drawn
		developerShare = t.developer / drawn
	}

	authorityGap := e.targetShare - authorityShare
	developerGap := (1 - e.targetShare) - developerShare
	authorityBelow := authorityGap > e.epsilon
	developerBelow := developerGap > e.epsilon

	switch {
	case authorityBelow && developerBelow:
		if authorityGap > developerGap+e.epsilon {
			return models.OwnerAuthority
		}
		if developerGap > authorityGap+e.epsilon {
			return models.OwnerDeveloper
		}
		return parity
	case authorityBelow:
		return models.OwnerAuthority
	case developerBelow:
		return models.OwnerDeveloper
	default:
		return parity
	}
}

// greedyDraw assigns units in the given order, continuing the running tally
// and draw counter. It returns the next draw index.
func (e *Engine) greedyDraw(order []*models.Unit, t *tally, draw int, owners map[string]models.Owner) int {
	for _, u := range order {
		o := e.nextOwner(*t, draw)
		owners[u.UnitID] = o
		t.add(o, u.GrossArea)
		draw++
	}
	return draw
}
