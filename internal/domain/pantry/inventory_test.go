package pantry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InventoryTestSuite struct {
	suite.Suite
	matcher IngredientMatcher
}

func (s *InventoryTestSuite) SetupTest() {
	s.matcher = ContainmentMatcher{}
}

func (s *InventoryTestSuite) TestAdd() {
	s.Run("SameNameFromTwoChannels_ShouldKeepOneEntry", func() {
		// Arrange
		inv := NewInventory()

		// Act
		first := inv.Add(ParseList("Arroz, huevo")...)
		second := inv.Add(ParseList("- ARROZ\n")...)
		again := inv.Add("arroz")

		// Assert
		assert.Equal(s.T(), []string{"arroz", "huevo"}, first)
		assert.Empty(s.T(), second)
		assert.Empty(s.T(), again)
		assert.Equal(s.T(), 2, inv.Len())
	})

	s.Run("EmptyTokens_ShouldBeDropped", func() {
		inv := NewInventory()

		added := inv.Add(ParseList(" , ,\n\"leche\". ,")...)

		assert.Equal(s.T(), []string{"leche"}, added)
	})

	s.Run("ZeroValue_ShouldBeUsable", func() {
		var inv Inventory

		inv.Add("avena")

		assert.True(s.T(), inv.Contains("Avena"))
	})
}

func (s *InventoryTestSuite) TestConsume() {
	s.Run("MultipleMatches_ShouldRemoveExactlyOne", func() {
		// Arrange
		inv := NewInventory("pollo", "pechuga de pollo")

		// Act
		removed := inv.Consume([]string{"pollo"}, s.matcher)

		// Assert
		require.Len(s.T(), removed, 1)
		assert.Equal(s.T(), 1, inv.Len())
		assert.Equal(s.T(), "pechuga de pollo", removed[0])
	})

	s.Run("NoMatch_ShouldNotRemoveOrFail", func() {
		inv := NewInventory("arroz")

		removed := inv.Consume([]string{"salmón"}, s.matcher)

		assert.Empty(s.T(), removed)
		assert.Equal(s.T(), 1, inv.Len())
	})

	s.Run("EntryInsideIngredient_ShouldMatch", func() {
		inv := NewInventory("pollo", "arroz")

		removed := inv.Consume([]string{"Pechuga de Pollo a la plancha", "arroz integral"}, s.matcher)

		assert.ElementsMatch(s.T(), []string{"pollo", "arroz"}, removed)
		assert.Zero(s.T(), inv.Len())
	})
}

func (s *InventoryTestSuite) TestMissing() {
	s.Run("OnlyUnmatchedIngredients_ShouldBeMissing", func() {
		inv := NewInventory("arroz", "huevo")

		missing := inv.Missing([]string{"arroz", "brócoli"}, s.matcher)

		assert.Equal(s.T(), []string{"brócoli"}, missing)
	})
}

func (s *InventoryTestSuite) TestJSON() {
	inv := NewInventory("huevo", "arroz")

	data, err := json.Marshal(inv)
	require.NoError(s.T(), err)
	assert.JSONEq(s.T(), `["arroz","huevo"]`, string(data))

	var decoded Inventory
	require.NoError(s.T(), json.Unmarshal(data, &decoded))
	assert.Equal(s.T(), inv.Items(), decoded.Items())
}

func TestInventoryTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryTestSuite))
}

func TestContainmentMatcher(t *testing.T) {
	m := ContainmentMatcher{}
	assert.True(t, m.Matches("pollo", "pechuga de pollo"))
	assert.True(t, m.Matches("pechuga de pollo", "pollo"))
	assert.True(t, m.Matches("ARROZ", "arroz"))
	assert.False(t, m.Matches("arroz", "huevo"))
	assert.False(t, m.Matches("", "huevo"))
}

func TestChannelValid(t *testing.T) {
	assert.True(t, ChannelReceipt.Valid())
	assert.False(t, Channel("fax").Valid())
}
