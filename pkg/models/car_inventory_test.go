package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarInventory_PresetsAreValid(t *testing.T) {
	for _, key := range CarInventory.Keys() {
		c, ok := CarInventory.Find(key)
		require.True(t, ok, key)
		assert.NoError(t, c.Validate(), key)
	}
	assert.Len(t, CarInventory.GetAllCars(), len(CarInventory.Keys()))
}

func TestCarInventory_Find(t *testing.T) {
	c, ok := CarInventory.Find("Muscle")
	require.True(t, ok)
	assert.Equal(t, "2019 Ford Mustang", c.Name())

	_, ok = CarInventory.Find(DefaultPreset)
	assert.True(t, ok)

	_, ok = CarInventory.Find("hovercraft")
	assert.False(t, ok)
}

func TestCarInventory_FindReturnsCopies(t *testing.T) {
	first, _ := CarInventory.Find("hatchback")
	first.Weight = 1
	first.Gearbox.Ratios[0] = 42

	second, _ := CarInventory.Find("hatchback")
	assert.Equal(t, 1200.0, second.Weight)
	assert.Equal(t, 3.5, second.Gearbox.Ratios[0])
}
