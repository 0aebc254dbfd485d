package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

type assignmentEnv struct {
	svc        *AssignmentService
	backend    *memBackend
	ticketRepo *fakeTicketRepo
	dispatcher events.Dispatcher
	assigned   []events.Event
}

func newAssignmentEnv(t *testing.T) *assignmentEnv {
	t.Helper()
	backend := newMemBackend()
	env := &assignmentEnv{
		backend:    backend,
		ticketRepo: &fakeTicketRepo{b: backend},
		dispatcher: events.NewInMemoryDispatcher(),
	}
	env.dispatcher.Subscribe(events.EventTicketAssigned, func(_ context.Context, event events.Event) error {
		env.assigned = append(env.assigned, event)
		return nil
	})
	env.svc = NewAssignmentService(AssignmentDependencies{
		TicketRepo: env.ticketRepo,
		UserRepo:   &fakeUserRepo{b: backend},
		Dispatcher: env.dispatcher,
	})
	return env
}

func (e *assignmentEnv) seedNewTicket(t *testing.T, creatorID string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		CreatedByID:        creatorID,
		ProductID:          "prod-1",
		TicketTypeID:       "type-1",
		ProblemDescription: "screen flickers",
		Status:             domain.TicketStatusNew,
		UpdatedByID:        creatorID,
	}
	require.NoError(t, e.ticketRepo.Create(context.Background(), ticket))
	return ticket
}

func TestAssignForcesAssignedStatus(t *testing.T) {
	env := newAssignmentEnv(t)
	env.backend.addUser("support-1", domain.RoleSupport)
	manager := domain.ActorContext{UserID: "manager-1", Role: domain.RoleManager}
	ticket := env.seedNewTicket(t, "client-1")

	assigned, err := env.svc.AssignToEmployee(context.Background(), manager, ticket.ID, "support-1")
	require.NoError(t, err)

	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, "support-1", *assigned.AssignedToID)
	assert.Equal(t, domain.TicketStatusAssigned, assigned.Status)

	history, err := (&fakeDetailRepo{b: env.backend}).ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.TicketStatusAssigned, history[0].Status)
	assert.Equal(t, "manager-1", history[0].CreatedByID)

	require.Len(t, env.assigned, 1)
	payload, ok := env.assigned[0].Payload.(events.TicketAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, "support-1", payload.AssigneeID)
}

func TestAssignIsOneShot(t *testing.T) {
	env := newAssignmentEnv(t)
	env.backend.addUser("support-1", domain.RoleSupport)
	env.backend.addUser("support-2", domain.RoleSupport)
	manager := domain.ActorContext{UserID: "manager-1", Role: domain.RoleManager}
	ticket := env.seedNewTicket(t, "client-1")

	_, err := env.svc.AssignToEmployee(context.Background(), manager, ticket.ID, "support-1")
	require.NoError(t, err)

	_, err = env.svc.AssignToEmployee(context.Background(), manager, ticket.ID, "support-2")
	assertCode(t, err, "ALREADY_ASSIGNED")

	stored, err := env.ticketRepo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "support-1", *stored.AssignedToID)
}

func TestAssignUnknownEmployee(t *testing.T) {
	env := newAssignmentEnv(t)
	manager := domain.ActorContext{UserID: "manager-1", Role: domain.RoleManager}
	ticket := env.seedNewTicket(t, "client-1")

	_, err := env.svc.AssignToEmployee(context.Background(), manager, ticket.ID, "nobody")
	assertCode(t, err, "NOT_FOUND")
}

func TestAssignUnknownTicket(t *testing.T) {
	env := newAssignmentEnv(t)
	env.backend.addUser("support-1", domain.RoleSupport)
	manager := domain.ActorContext{UserID: "manager-1", Role: domain.RoleManager}

	_, err := env.svc.AssignToEmployee(context.Background(), manager, "missing", "support-1")
	assertCode(t, err, "NOT_FOUND")
}
