package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
)

// memBackend is shared in-memory state behind the fake repositories.
type memBackend struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	tickets     map[string]*domain.Ticket
	comments    map[string]*domain.Comment
	attachments map[string][]domain.TicketAttachment
	details     map[string][]domain.TicketDetail
}

func newMemBackend() *memBackend {
	return &memBackend{
		users:       map[string]*domain.User{},
		tickets:     map[string]*domain.Ticket{},
		comments:    map[string]*domain.Comment{},
		attachments: map[string][]domain.TicketAttachment{},
		details:     map[string][]domain.TicketDetail{},
	}
}

func (b *memBackend) addUser(id string, role domain.UserRole) *domain.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	user := &domain.User{
		ID:        id,
		Name:      id,
		Email:     id + "@example.com",
		Role:      role,
		Active:    true,
		CreatedAt: time.Now(),
	}
	b.users[id] = user
	return user
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	copied := *t
	copied.Comments = append([]domain.Comment(nil), t.Comments...)
	copied.Attachments = append([]domain.TicketAttachment(nil), t.Attachments...)
	copied.Details = append([]domain.TicketDetail(nil), t.Details...)
	return &copied
}

type fakeTicketRepo struct {
	b *memBackend

	// beforeUpdate runs once inside the next UpdateWithDetail call, after
	// the caller has read the ticket. Used to interleave a competing write.
	beforeUpdate func()
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.b.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	stored, ok := r.b.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	updated := cloneTicket(ticket)
	updated.Version = stored.Version + 1
	updated.UpdatedAt = time.Now()
	r.b.tickets[ticket.ID] = updated
	ticket.Version = updated.Version
	return nil
}

func (r *fakeTicketRepo) UpdateWithDetail(ctx context.Context, ticket *domain.Ticket, detail *domain.TicketDetail) error {
	if r.beforeUpdate != nil {
		hook := r.beforeUpdate
		r.beforeUpdate = nil
		hook()
	}
	if err := r.Update(ctx, ticket); err != nil {
		return err
	}
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	detail.ID = uuid.NewString()
	detail.CreatedAt = time.Now()
	r.b.details[ticket.ID] = append(r.b.details[ticket.ID], *detail)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	stored, ok := r.b.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneTicket(stored), nil
}

func (r *fakeTicketRepo) GetWithDetails(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.loadChildren(ticket)
	return ticket, nil
}

func (r *fakeTicketRepo) GetAllWithDetails(_ context.Context) ([]domain.Ticket, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	result := make([]domain.Ticket, 0, len(r.b.tickets))
	for _, stored := range r.b.tickets {
		ticket := cloneTicket(stored)
		r.loadChildrenLocked(ticket)
		result = append(result, *ticket)
	}
	// map iteration is unordered; sort by creation time like the real query
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].CreatedAt.Before(result[j-1].CreatedAt); j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.b.tickets, id)
	delete(r.b.attachments, id)
	delete(r.b.details, id)
	for commentID, comment := range r.b.comments {
		if comment.TicketID == id {
			delete(r.b.comments, commentID)
		}
	}
	return nil
}

func (r *fakeTicketRepo) loadChildren(ticket *domain.Ticket) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.loadChildrenLocked(ticket)
}

func (r *fakeTicketRepo) loadChildrenLocked(ticket *domain.Ticket) {
	ticket.Comments = nil
	for _, comment := range r.b.comments {
		if comment.TicketID == ticket.ID {
			ticket.Comments = append(ticket.Comments, *comment)
		}
	}
	ticket.Attachments = append([]domain.TicketAttachment(nil), r.b.attachments[ticket.ID]...)
	ticket.Details = append([]domain.TicketDetail(nil), r.b.details[ticket.ID]...)
}

type fakeCommentRepo struct {
	b *memBackend
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.b.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	comment.UpdatedAt = time.Now()
	stored := *comment
	r.b.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.b.comments, id)
	return nil
}

type fakeAttachmentRepo struct {
	b *memBackend
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.TicketAttachment) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	attachment.ID = uuid.NewString()
	attachment.CreatedAt = time.Now()
	attachment.UpdatedAt = attachment.CreatedAt
	r.b.attachments[attachment.TicketID] = append(r.b.attachments[attachment.TicketID], *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketAttachment, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	return append([]domain.TicketAttachment(nil), r.b.attachments[ticketID]...), nil
}

func (r *fakeAttachmentRepo) DeleteByTicket(_ context.Context, ticketID string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	delete(r.b.attachments, ticketID)
	return nil
}

type fakeDetailRepo struct {
	b *memBackend
}

func (r *fakeDetailRepo) Create(_ context.Context, detail *domain.TicketDetail) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	detail.ID = uuid.NewString()
	detail.CreatedAt = time.Now()
	r.b.details[detail.TicketID] = append(r.b.details[detail.TicketID], *detail)
	return nil
}

func (r *fakeDetailRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketDetail, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	return append([]domain.TicketDetail(nil), r.b.details[ticketID]...), nil
}

type fakeUserRepo struct {
	b *memBackend
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.b.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if _, ok := r.b.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.b.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	user, ok := r.b.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	for _, user := range r.b.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	result := make([]domain.User, 0, len(r.b.users))
	for _, user := range r.b.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	var result []domain.User
	for _, user := range r.b.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	seq   int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (s *fakeBlobStore) Write(data []byte) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := fmt.Sprintf("blob-%d.bin", s.seq)
	path := "mem/" + name
	s.blobs[path] = append([]byte(nil), data...)
	return path, name, nil
}

func (s *fakeBlobStore) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[path]
	if !ok {
		return nil, storage.ErrMissing
	}
	return append([]byte(nil), data...), nil
}

func (s *fakeBlobStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, path)
	return nil
}

func (s *fakeBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

type fakeCodeStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: map[string]string{}}
}

func (s *fakeCodeStore) Put(_ context.Context, email, code string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *fakeCodeStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[email]
	if !ok {
		return "", repository.ErrCodeNotFound
	}
	return code, nil
}

func (s *fakeCodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type captureSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (s *captureSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *captureSender) all() []sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentEmail(nil), s.sent...)
}
