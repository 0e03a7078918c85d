package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnlineFan_IsWhale(t *testing.T) {
	fan := &OnlineFan{ID: "f1", BuyingPower: 4}

	assert.True(t, fan.IsWhale(4))
	assert.True(t, fan.IsWhale(3))
	assert.False(t, fan.IsWhale(5))
	assert.True(t, fan.IsWhale(0))
}
