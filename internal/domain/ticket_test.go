package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	for _, status := range AllTicketStatuses {
		terminal := status == TicketStatusClosed || status == TicketStatusCanceled
		assert.Equal(t, terminal, status.IsTerminal(), "status %s", status)
	}
}

func TestParseTicketStatus(t *testing.T) {
	status, ok := ParseTicketStatus("IN_PROGRESS")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusInProgress, status)

	_, ok = ParseTicketStatus("in_progress")
	assert.False(t, ok)

	_, ok = ParseTicketStatus("BOGUS")
	assert.False(t, ok)
}

func TestParseUserRole(t *testing.T) {
	role, ok := ParseUserRole("MANAGER")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, role)

	_, ok = ParseUserRole("manager")
	assert.False(t, ok)
}
