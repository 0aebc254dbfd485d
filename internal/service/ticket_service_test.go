package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type ticketEnv struct {
	svc        *TicketService
	backend    *memBackend
	ticketRepo *fakeTicketRepo
	blobs      *fakeBlobStore
	dispatcher events.Dispatcher

	mu     sync.Mutex
	events []events.Event
}

func newTicketEnv(t *testing.T) *ticketEnv {
	t.Helper()
	backend := newMemBackend()
	env := &ticketEnv{
		backend:    backend,
		ticketRepo: &fakeTicketRepo{b: backend},
		blobs:      newFakeBlobStore(),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketStatusChanged,
		events.EventTicketUpdated,
		events.EventCommentAdded,
		events.EventCommentUpdated,
		events.EventCommentDeleted,
	} {
		env.dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.events = append(env.events, event)
			return nil
		})
	}
	env.svc = NewTicketService(TicketDependencies{
		TicketRepo:     env.ticketRepo,
		CommentRepo:    &fakeCommentRepo{b: backend},
		AttachmentRepo: &fakeAttachmentRepo{b: backend},
		DetailRepo:     &fakeDetailRepo{b: backend},
		UserRepo:       &fakeUserRepo{b: backend},
		Blobs:          env.blobs,
		Dispatcher:     env.dispatcher,
	})
	return env
}

func (e *ticketEnv) published(eventType events.EventType) []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var matched []events.Event
	for _, event := range e.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// seedTicket stores a ticket directly in the backend with the given status
// and optional assignee.
func (e *ticketEnv) seedTicket(t *testing.T, creatorID string, assigneeID *string, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		CreatedByID:        creatorID,
		AssignedToID:       assigneeID,
		ProductID:          "prod-1",
		TicketTypeID:       "type-1",
		ProblemDescription: "printer on fire",
		Status:             status,
		UpdatedByID:        creatorID,
	}
	require.NoError(t, e.ticketRepo.Create(context.Background(), ticket))
	return ticket
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func strPtr(s string) *string { return &s }

func TestCreateTicketStartsNew(t *testing.T) {
	env := newTicketEnv(t)
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}

	ticket, err := env.svc.CreateTicket(context.Background(), client, TicketCreateInput{
		ProductID:          "prod-1",
		TicketTypeID:       "type-1",
		ProblemDescription: "  vpn drops every hour  ",
		Attachments:        [][]byte{[]byte("screenshot"), []byte("log dump")},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Equal(t, "client-1", ticket.CreatedByID)
	assert.Nil(t, ticket.AssignedToID)
	assert.Equal(t, "vpn drops every hour", ticket.ProblemDescription)
	assert.Len(t, ticket.Attachments, 2)
	assert.Equal(t, 2, env.blobs.count())

	created := env.published(events.EventTicketCreated)
	require.Len(t, created, 1)
	payload, ok := created[0].Payload.(events.TicketCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, 2, payload.AttachmentCount)
}

func TestCreateTicketWithoutAttachments(t *testing.T) {
	env := newTicketEnv(t)
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}

	ticket, err := env.svc.CreateTicket(context.Background(), client, TicketCreateInput{
		ProductID:          "prod-1",
		TicketTypeID:       "type-1",
		ProblemDescription: "cannot log in",
	})
	require.NoError(t, err)
	assert.Empty(t, ticket.Attachments)
}

func TestUpdateStatusGuardChain(t *testing.T) {
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	support := domain.ActorContext{UserID: "support-1", Role: domain.RoleSupport}
	outsider := domain.ActorContext{UserID: "rando", Role: domain.RoleClient}

	tests := []struct {
		name     string
		status   domain.TicketStatus
		assignee *string
		actor    domain.ActorContext
		target   domain.TicketStatus
		wantCode string
	}{
		{
			name:     "closed ticket is immutable",
			status:   domain.TicketStatusClosed,
			assignee: strPtr("support-1"),
			actor:    client,
			target:   domain.TicketStatusInProgress,
			wantCode: "TERMINAL_STATE",
		},
		{
			name:     "canceled ticket is immutable",
			status:   domain.TicketStatusCanceled,
			assignee: strPtr("support-1"),
			actor:    support,
			target:   domain.TicketStatusInProgress,
			wantCode: "TERMINAL_STATE",
		},
		{
			name:     "non-party is rejected",
			status:   domain.TicketStatusInProgress,
			assignee: strPtr("support-1"),
			actor:    outsider,
			target:   domain.TicketStatusResolved,
			wantCode: "FORBIDDEN",
		},
		{
			name:     "new ticket cannot transition",
			status:   domain.TicketStatusNew,
			assignee: nil,
			actor:    client,
			target:   domain.TicketStatusInProgress,
			wantCode: "INVALID_TRANSITION",
		},
		{
			name:     "unassigned ticket cannot transition",
			status:   domain.TicketStatusInProgress,
			assignee: nil,
			actor:    client,
			target:   domain.TicketStatusResolved,
			wantCode: "INVALID_TRANSITION",
		},
		{
			name:     "only clients confirm resolution",
			status:   domain.TicketStatusResolved,
			assignee: strPtr("support-1"),
			actor:    support,
			target:   domain.TicketStatusConfirmed,
			wantCode: "ROLE_NOT_PERMITTED",
		},
		{
			name:     "support cannot close unconfirmed ticket",
			status:   domain.TicketStatusResolved,
			assignee: strPtr("support-1"),
			actor:    support,
			target:   domain.TicketStatusClosed,
			wantCode: "ROLE_NOT_PERMITTED",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTicketEnv(t)
			ticket := env.seedTicket(t, "client-1", tc.assignee, tc.status)

			_, err := env.svc.UpdateStatus(context.Background(), tc.actor, ticket.ID, tc.target)
			assertCode(t, err, tc.wantCode)
			assert.Empty(t, env.published(events.EventTicketStatusChanged))
		})
	}
}

func TestUpdateStatusUnknownTicket(t *testing.T) {
	env := newTicketEnv(t)
	actor := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}

	_, err := env.svc.UpdateStatus(context.Background(), actor, "missing", domain.TicketStatusResolved)
	assertCode(t, err, "NOT_FOUND")
}

func TestUpdateStatusRecordsAuditRow(t *testing.T) {
	env := newTicketEnv(t)
	support := domain.ActorContext{UserID: "support-1", Role: domain.RoleSupport}
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusAssigned)

	updated, err := env.svc.UpdateStatus(context.Background(), support, ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	history, err := env.svc.StatusHistory(context.Background(), support, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.TicketStatusInProgress, history[0].Status)
	assert.Equal(t, "support-1", history[0].CreatedByID)

	changed := env.published(events.EventTicketStatusChanged)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusAssigned, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, payload.NewStatus)
}

func TestUpdateStatusConcurrentWriterLoses(t *testing.T) {
	env := newTicketEnv(t)
	support := domain.ActorContext{UserID: "support-1", Role: domain.RoleSupport}
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)

	// a competing write lands between this call's read and its commit
	env.ticketRepo.beforeUpdate = func() {
		env.backend.mu.Lock()
		env.backend.tickets[ticket.ID].Version++
		env.backend.mu.Unlock()
	}

	_, err := env.svc.UpdateStatus(context.Background(), support, ticket.ID, domain.TicketStatusResolved)
	assertCode(t, err, "CONCURRENCY_CONFLICT")

	stored, getErr := env.ticketRepo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	assert.Empty(t, env.published(events.EventTicketStatusChanged))
}

func TestFullLifecycle(t *testing.T) {
	env := newTicketEnv(t)
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	support := domain.ActorContext{UserID: "support-1", Role: domain.RoleSupport}
	env.backend.addUser("client-1", domain.RoleClient)
	env.backend.addUser("support-1", domain.RoleSupport)

	ticket, err := env.svc.CreateTicket(context.Background(), client, TicketCreateInput{
		ProductID:          "prod-1",
		TicketTypeID:       "type-1",
		ProblemDescription: "laptop will not boot",
	})
	require.NoError(t, err)

	// assignment is a separate operation; emulate its committed effect
	ticket.AssignedToID = strPtr("support-1")
	ticket.Status = domain.TicketStatusAssigned
	require.NoError(t, env.ticketRepo.Update(context.Background(), ticket))

	steps := []struct {
		actor  domain.ActorContext
		target domain.TicketStatus
	}{
		{support, domain.TicketStatusInProgress},
		{support, domain.TicketStatusResolved},
		{client, domain.TicketStatusConfirmed},
		{client, domain.TicketStatusClosed},
	}
	for _, step := range steps {
		_, err := env.svc.UpdateStatus(context.Background(), step.actor, ticket.ID, step.target)
		require.NoError(t, err, "transition to %s", step.target)
	}

	stored, err := env.ticketRepo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, stored.Status)

	// terminal: nothing moves it again
	_, err = env.svc.UpdateStatus(context.Background(), client, ticket.ID, domain.TicketStatusInProgress)
	assertCode(t, err, "TERMINAL_STATE")

	history, err := env.svc.StatusHistory(context.Background(), client, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, domain.TicketStatusClosed, history[3].Status)
}

func TestUpdateTicketAuditsCurrentStatus(t *testing.T) {
	env := newTicketEnv(t)
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)

	updated, err := env.svc.UpdateTicket(context.Background(), client, ticket.ID, TicketUpdateInput{
		ProblemDescription: "actually the monitor",
		ProductID:          "prod-2",
		TicketTypeID:       "type-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "actually the monitor", updated.ProblemDescription)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	history, err := env.svc.StatusHistory(context.Background(), client, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.TicketStatusInProgress, history[0].Status)
}

func TestUpdateTicketReplacesAttachmentsWholesale(t *testing.T) {
	env := newTicketEnv(t)
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)

	attachmentRepo := &fakeAttachmentRepo{b: env.backend}
	for i := 0; i < 3; i++ {
		path, name, err := env.blobs.Write([]byte(fmt.Sprintf("old-%d", i)))
		require.NoError(t, err)
		require.NoError(t, attachmentRepo.Create(context.Background(), &domain.TicketAttachment{
			TicketID: ticket.ID,
			FilePath: path,
			FileName: name,
		}))
	}
	require.Equal(t, 3, env.blobs.count())

	updated, err := env.svc.UpdateTicket(context.Background(), client, ticket.ID, TicketUpdateInput{
		ProblemDescription: "same problem",
		ProductID:          "prod-1",
		TicketTypeID:       "type-1",
		Attachments:        [][]byte{[]byte("new-a")},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Attachments, 1)
	assert.Equal(t, 1, env.blobs.count())
}

func TestUpdateTicketWithoutAttachmentsKeepsExisting(t *testing.T) {
	env := newTicketEnv(t)
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)

	path, name, err := env.blobs.Write([]byte("keep me"))
	require.NoError(t, err)
	attachmentRepo := &fakeAttachmentRepo{b: env.backend}
	require.NoError(t, attachmentRepo.Create(context.Background(), &domain.TicketAttachment{
		TicketID: ticket.ID,
		FilePath: path,
		FileName: name,
	}))

	updated, err := env.svc.UpdateTicket(context.Background(), client, ticket.ID, TicketUpdateInput{
		ProblemDescription: "still broken",
		ProductID:          "prod-1",
		TicketTypeID:       "type-1",
	})
	require.NoError(t, err)
	assert.Len(t, updated.Attachments, 1)
	assert.Equal(t, 1, env.blobs.count())
}

func TestGetTicketByIDVisibility(t *testing.T) {
	env := newTicketEnv(t)
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)

	for _, actor := range []domain.ActorContext{
		{UserID: "client-1", Role: domain.RoleClient},
		{UserID: "support-1", Role: domain.RoleSupport},
		{UserID: "manager-1", Role: domain.RoleManager},
	} {
		_, err := env.svc.GetTicketByID(context.Background(), actor, ticket.ID)
		assert.NoError(t, err, "actor %s", actor.UserID)
	}

	_, err := env.svc.GetTicketByID(context.Background(), domain.ActorContext{UserID: "other-client", Role: domain.RoleClient}, ticket.ID)
	assertCode(t, err, "FORBIDDEN")
}

func TestGetTicketByIDSkipsMissingBlob(t *testing.T) {
	env := newTicketEnv(t)
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)
	attachmentRepo := &fakeAttachmentRepo{b: env.backend}

	keptPath, keptName, err := env.blobs.Write([]byte("still here"))
	require.NoError(t, err)
	lostPath, lostName, err := env.blobs.Write([]byte("soon gone"))
	require.NoError(t, err)
	for _, att := range []domain.TicketAttachment{
		{TicketID: ticket.ID, FilePath: keptPath, FileName: keptName},
		{TicketID: ticket.ID, FilePath: lostPath, FileName: lostName},
	} {
		att := att
		require.NoError(t, attachmentRepo.Create(context.Background(), &att))
	}
	require.NoError(t, env.blobs.Delete(lostPath))

	// the attachment row whose blob disappeared is omitted from the view,
	// not surfaced as a read error
	view, err := env.svc.GetTicketByID(context.Background(), domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}, ticket.ID)
	require.NoError(t, err)
	require.Len(t, view.Attachments, 1)
	assert.Equal(t, keptName, view.Attachments[0].FileName)
	assert.Equal(t, []byte("still here"), view.Attachments[0].Data)
}

func TestGetAllTicketsRoleScopes(t *testing.T) {
	env := newTicketEnv(t)
	env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)
	env.seedTicket(t, "client-1", nil, domain.TicketStatusNew)
	env.seedTicket(t, "client-2", strPtr("support-2"), domain.TicketStatusResolved)

	manager := domain.ActorContext{UserID: "manager-1", Role: domain.RoleManager}
	all, err := env.svc.GetAllTickets(context.Background(), manager, 1, 20, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	support := domain.ActorContext{UserID: "support-1", Role: domain.RoleSupport}
	mine, err := env.svc.GetAllTickets(context.Background(), support, 1, 20, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "client-1", mine[0].CreatedByID)

	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	created, err := env.svc.GetAllTickets(context.Background(), client, 1, 20, nil)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	resolved := domain.TicketStatusResolved
	filtered, err := env.svc.GetAllTickets(context.Background(), manager, 1, 20, &resolved)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, domain.TicketStatusResolved, filtered[0].Status)
}

func TestGetAllTicketsPagination(t *testing.T) {
	env := newTicketEnv(t)
	for i := 0; i < 25; i++ {
		env.seedTicket(t, "client-1", nil, domain.TicketStatusNew)
	}
	manager := domain.ActorContext{UserID: "manager-1", Role: domain.RoleManager}

	page1, err := env.svc.GetAllTickets(context.Background(), manager, 1, 20, nil)
	require.NoError(t, err)
	assert.Len(t, page1, 20)

	page2, err := env.svc.GetAllTickets(context.Background(), manager, 2, 20, nil)
	require.NoError(t, err)
	assert.Len(t, page2, 5)

	page3, err := env.svc.GetAllTickets(context.Background(), manager, 3, 20, nil)
	require.NoError(t, err)
	assert.Empty(t, page3)

	// page and size below 1 fall back to defaults rather than erroring
	fallback, err := env.svc.GetAllTickets(context.Background(), manager, 0, -5, nil)
	require.NoError(t, err)
	assert.Len(t, fallback, 20)
}

func TestGetTicketsByUser(t *testing.T) {
	env := newTicketEnv(t)
	env.backend.addUser("client-1", domain.RoleClient)
	env.backend.addUser("client-2", domain.RoleClient)
	env.backend.addUser("support-1", domain.RoleSupport)
	env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)
	env.seedTicket(t, "client-2", nil, domain.TicketStatusNew)

	manager := domain.ActorContext{UserID: "manager-1", Role: domain.RoleManager}
	forSupport, err := env.svc.GetTicketsByUser(context.Background(), manager, "support-1")
	require.NoError(t, err)
	assert.Len(t, forSupport, 1)

	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	_, err = env.svc.GetTicketsByUser(context.Background(), client, "client-2")
	assertCode(t, err, "FORBIDDEN")

	own, err := env.svc.GetTicketsByUser(context.Background(), client, "client-1")
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestAddCommentStateRules(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.TicketStatus
		assignee *string
		wantCode string
	}{
		{"closed ticket rejects comments", domain.TicketStatusClosed, strPtr("support-1"), "TERMINAL_STATE"},
		{"canceled ticket rejects comments", domain.TicketStatusCanceled, strPtr("support-1"), "TERMINAL_STATE"},
		{"new ticket rejects comments", domain.TicketStatusNew, nil, "INVALID_STATE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTicketEnv(t)
			ticket := env.seedTicket(t, "client-1", tc.assignee, tc.status)
			actor := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}

			_, err := env.svc.AddComment(context.Background(), actor, ticket.ID, "hello?")
			assertCode(t, err, tc.wantCode)
		})
	}
}

func TestCommentLifecycle(t *testing.T) {
	env := newTicketEnv(t)
	client := domain.ActorContext{UserID: "client-1", Role: domain.RoleClient}
	support := domain.ActorContext{UserID: "support-1", Role: domain.RoleSupport}
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusInProgress)

	comment, err := env.svc.AddComment(context.Background(), client, ticket.ID, "  any update?  ")
	require.NoError(t, err)
	assert.Equal(t, "any update?", comment.Text)
	assert.Equal(t, "client-1", comment.CreatedByID)

	// the assignee may edit the client's comment; edits are gated by ticket
	// access, not authorship
	edited, err := env.svc.UpdateComment(context.Background(), support, ticket.ID, comment.ID, "working on it")
	require.NoError(t, err)
	assert.Equal(t, "working on it", edited.Text)
	assert.Equal(t, "support-1", edited.UpdatedByID)

	_, err = env.svc.UpdateComment(context.Background(), support, ticket.ID, comment.ID, "   ")
	assertCode(t, err, "VALIDATION_FAILED")

	require.NoError(t, env.svc.DeleteComment(context.Background(), support, ticket.ID, comment.ID))
	_, err = env.svc.UpdateComment(context.Background(), support, ticket.ID, comment.ID, "gone")
	assertCode(t, err, "NOT_FOUND")
}

func TestCommentMutationOnTerminalTicket(t *testing.T) {
	env := newTicketEnv(t)
	support := domain.ActorContext{UserID: "support-1", Role: domain.RoleSupport}
	ticket := env.seedTicket(t, "client-1", strPtr("support-1"), domain.TicketStatusClosed)
	commentRepo := &fakeCommentRepo{b: env.backend}
	comment := &domain.Comment{TicketID: ticket.ID, CreatedByID: "client-1", UpdatedByID: "client-1", Text: "before close"}
	require.NoError(t, commentRepo.Create(context.Background(), comment))

	// a frozen ticket rejects the mutation before the comment id is even
	// resolved, so an unknown id still reports the terminal state
	_, err := env.svc.UpdateComment(context.Background(), support, ticket.ID, "no-such-comment", "late edit")
	assertCode(t, err, "TERMINAL_STATE")
	err = env.svc.DeleteComment(context.Background(), support, ticket.ID, "no-such-comment")
	assertCode(t, err, "TERMINAL_STATE")

	_, err = env.svc.UpdateComment(context.Background(), support, ticket.ID, comment.ID, "late edit")
	assertCode(t, err, "TERMINAL_STATE")
	err = env.svc.DeleteComment(context.Background(), support, ticket.ID, comment.ID)
	assertCode(t, err, "TERMINAL_STATE")

	stored, err := env.ticketRepo.GetWithDetails(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "before close", stored.Comments[0].Text)
}

func TestDeleteTicketRemovesBlobs(t *testing.T) {
	env := newTicketEnv(t)
	ticket := env.seedTicket(t, "client-1", nil, domain.TicketStatusNew)

	path, name, err := env.blobs.Write([]byte("payload"))
	require.NoError(t, err)
	attachmentRepo := &fakeAttachmentRepo{b: env.backend}
	require.NoError(t, attachmentRepo.Create(context.Background(), &domain.TicketAttachment{
		TicketID: ticket.ID,
		FilePath: path,
		FileName: name,
	}))

	require.NoError(t, env.svc.DeleteTicket(context.Background(), ticket.ID))
	assert.Equal(t, 0, env.blobs.count())

	_, err = env.ticketRepo.GetByID(context.Background(), ticket.ID)
	assert.Error(t, err)
}
