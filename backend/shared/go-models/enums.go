// go-models/enums.go
package models

import "fmt"

// ------------------------------------------------------------------------
// Typology classifies a unit as housing or commercial.
// ------------------------------------------------------------------------
type Typology string

const (
	TypologyStudio Typology = "Studio"
	Typology1BR    Typology = "1BR"
	Typology2BR    Typology = "2BR"
	Typology3BR    Typology = "3BR"
	TypologyShop   Typology = "Shop"
)

// AllTypologies lists every recognised typology in display order.
var AllTypologies = []Typology{
	TypologyStudio, Typology1BR, Typology2BR, Typology3BR, TypologyShop,
}

func (t Typology) Valid() bool {
	switch t {
	case TypologyStudio, Typology1BR, Typology2BR, Typology3BR, TypologyShop:
		return true
	default:
		return false
	}
}

// IsHousing is true for the residential typologies.
func (t Typology) IsHousing() bool {
	return t.Valid() && t != TypologyShop
}

// IsCommercial is true for shops.
func (t Typology) IsCommercial() bool {
	return t == TypologyShop
}

// ParseTypology converts "Studio", "1BR", "2BR", "3BR" or "Shop" to the enum.
func ParseTypology(s string) (Typology, error) {
	t := Typology(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid typology: %q", s)
	}
	return t, nil
}

// ------------------------------------------------------------------------
// Owner is the party a unit is assigned to. The zero value means unset.
// ------------------------------------------------------------------------
type Owner string

const (
	OwnerUnset              Owner = ""
	OwnerAuthority          Owner = "AAHDC"
	OwnerDeveloper          Owner = "Developer"
	OwnerPendingNegotiation Owner = "Pending Negotiation"
)

func (o Owner) Valid() bool {
	switch o {
	case OwnerUnset, OwnerAuthority, OwnerDeveloper, OwnerPendingNegotiation:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the owner is one a unit can be allocated to.
func (o Owner) IsFinal() bool {
	return o == OwnerAuthority || o == OwnerDeveloper
}

func (o Owner) String() string {
	if o == OwnerUnset {
		return "Unset"
	}
	return string(o)
}

// ParseOwner accepts only the final owners, "AAHDC" and "Developer".
func ParseOwner(s string) (Owner, error) {
	o := Owner(s)
	if !o.IsFinal() {
		return OwnerUnset, fmt.Errorf("invalid owner: %q", s)
	}
	return o, nil
}

// ------------------------------------------------------------------------
// DistributionMethod names the strategy an allocation run uses.
// ------------------------------------------------------------------------
type DistributionMethod string

const (
	MethodFullLottery   DistributionMethod = "Full Lottery"
	MethodHybridLottery DistributionMethod = "Hybrid Lottery"
	MethodBlockByBlock  DistributionMethod = "Block-by-Block Assignment"
	MethodFloorLottery  DistributionMethod = "Lottery Based on Floor Number"
)

// AllDistributionMethods lists the supported methods.
var AllDistributionMethods = []DistributionMethod{
	MethodFullLottery, MethodHybridLottery, MethodBlockByBlock, MethodFloorLottery,
}

func (m DistributionMethod) Valid() bool {
	switch m {
	case MethodFullLottery, MethodHybridLottery, MethodBlockByBlock, MethodFloorLottery:
		return true
	default:
		return false
	}
}

// ParseDistributionMethod matches the method names exactly.
func ParseDistributionMethod(s string) (DistributionMethod, error) {
	m := DistributionMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid distribution method: %q", s)
	}
	return m, nil
}
