package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCycleStatus(t *testing.T) {
	request := &ContactRequest{Status: ContactStatusNew}

	request.CycleStatus()
	assert.Equal(t, ContactStatusRead, request.Status)

	request.CycleStatus()
	assert.Equal(t, ContactStatusResolved, request.Status)

	request.CycleStatus()
	assert.Equal(t, ContactStatusNew, request.Status)
}
