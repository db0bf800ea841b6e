package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypology(t *testing.T) {
	for _, typ := range AllTypologies {
		got, err := ParseTypology(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseTypology("Penthouse")
	assert.Error(t, err)
	_, err = ParseTypology("studio")
	assert.Error(t, err, "typology names are case sensitive")
}

func TestTypologyClasses(t *testing.T) {
	assert.True(t, TypologyStudio.IsHousing())
	assert.True(t, Typology3BR.IsHousing())
	assert.False(t, TypologyShop.IsHousing())
	assert.True(t, TypologyShop.IsCommercial())
	assert.False(t, Typology("Loft").IsHousing())
}

func TestParseOwner(t *testing.T) {
	o, err := ParseOwner("AAHDC")
	require.NoError(t, err)
	assert.Equal(t, OwnerAuthority, o)

	o, err = ParseOwner("Developer")
	require.NoError(t, err)
	assert.Equal(t, OwnerDeveloper, o)

	_, err = ParseOwner("Pending Negotiation")
	assert.Error(t, err)
	_, err = ParseOwner("")
	assert.Error(t, err)
}

func TestOwnerString(t *testing.T) {
	assert.Equal(t, "Unset", OwnerUnset.String())
	assert.Equal(t, "AAHDC", OwnerAuthority.String())
	assert.True(t, OwnerPendingNegotiation.Valid())
	assert.False(t, Owner("City").Valid())
}

func TestParseDistributionMethod(t *testing.T) {
	for _, m := range AllDistributionMethods {
		got, err := ParseDistributionMethod(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseDistributionMethod("Random Draw")
	assert.Error(t, err)
	_, err = ParseDistributionMethod("")
	assert.Error(t, err)
}

func TestUnitPendingNegotiation(t *testing.T) {
	u := &Unit{UnitID: "S1", Owner: OwnerPendingNegotiation}
	assert.True(t, u.IsPendingNegotiation())
	assert.Equal(t, "S1", u.GetID())

	u.Allocated = true
	assert.False(t, u.IsPendingNegotiation())
}
