package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- пользователи ---

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	r := &memUserRepo{users: map[uuid.UUID]domain.User{}}
	for _, u := range users {
		r.users[u.ID] = *u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailInUse
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// --- объекты ---

type memPropertyRepo struct {
	mu         sync.Mutex
	properties map[uuid.UUID]domain.Property
}

func newMemPropertyRepo(props ...domain.Property) *memPropertyRepo {
	r := &memPropertyRepo{properties: map[uuid.UUID]domain.Property{}}
	for _, p := range props {
		r.properties[p.ID] = p
	}
	return r
}

func (r *memPropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.properties[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPropertyRepo) setStatus(id uuid.UUID, status domain.PropertyStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.properties[id]
	p.Status = status
	r.properties[id] = p
}

func (r *memPropertyRepo) status(id uuid.UUID) domain.PropertyStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.properties[id].Status
}

// --- договоры ---

type rosterKey struct{ landlord, tenant uuid.UUID }

// memAgreementRepo повторяет поведение postgres-репозитория: условные переходы
// только из pending, побочные эффекты принятия и обнуление parent при удалении.
type memAgreementRepo struct {
	mu         sync.Mutex
	agreements map[uuid.UUID]domain.Agreement
	roster     map[rosterKey]struct{}
	users      *memUserRepo
	properties *memPropertyRepo

	lastQuery                  domain.AgreementQuery
	lastLimit, lastOffset      int
	lastField                  domain.PartyField
	lastFrom, lastTo           time.Time
	overlapping                []domain.Agreement
}

func newMemAgreementRepo(users *memUserRepo, properties *memPropertyRepo) *memAgreementRepo {
	return &memAgreementRepo{
		agreements: map[uuid.UUID]domain.Agreement{},
		roster:     map[rosterKey]struct{}{},
		users:      users,
		properties: properties,
	}
}

func (r *memAgreementRepo) Create(_ context.Context, a *domain.Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agreements[a.ID] = *a
	return nil
}

func (r *memAgreementRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Agreement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agreements[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memAgreementRepo) get(id uuid.UUID) domain.Agreement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agreements[id]
}

func (r *memAgreementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agreements)
}

func (r *memAgreementRepo) inRoster(landlord, tenant uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.roster[rosterKey{landlord, tenant}]
	return ok
}

func (r *memAgreementRepo) FindDetails(ctx context.Context, id uuid.UUID) (*domain.AgreementDetails, error) {
	a, _ := r.FindByID(ctx, id)
	if a == nil {
		return nil, nil
	}
	details := &domain.AgreementDetails{Agreement: *a}
	if u, _ := r.users.FindByID(ctx, a.TenantID); u != nil {
		p := u.Profile()
		details.Tenant = &p
	}
	if u, _ := r.users.FindByID(ctx, a.LandlordID); u != nil {
		p := u.Profile()
		details.Landlord = &p
	}
	if p, _ := r.properties.FindByID(ctx, a.PropertyID); p != nil {
		details.Property = &domain.PropertySummary{ID: p.ID, Title: p.Title, Address: p.Address, Status: p.Status}
	}
	if a.ParentID != nil {
		details.Parent, _ = r.FindByID(ctx, *a.ParentID)
	}
	return details, nil
}

func (r *memAgreementRepo) Find(_ context.Context, q domain.AgreementQuery, limit, offset int) ([]domain.AgreementListItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery, r.lastLimit, r.lastOffset = q, limit, offset

	var matched []domain.AgreementListItem
	for _, a := range r.agreements {
		party := a.TenantID
		if q.PartyField == domain.PartyLandlord {
			party = a.LandlordID
		}
		if party != q.UserID || a.IsArchived != q.IsArchived {
			continue
		}
		if q.CreatorID != nil && a.CreatorID != *q.CreatorID {
			continue
		}
		if q.ExcludeCreatorID != nil && a.CreatorID == *q.ExcludeCreatorID {
			continue
		}
		if !containsValue(q.Statuses, a.Status) || !containsValue(q.Types, a.Type) || !containsValue(q.PaymentPeriods, a.PaymentPeriod) {
			continue
		}
		if q.UniqueNumberLike != "" && !strings.Contains(strconv.Itoa(a.UniqueNumber), q.UniqueNumberLike) {
			continue
		}
		matched = append(matched, domain.AgreementListItem{Agreement: a})
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	if offset >= total {
		return []domain.AgreementListItem{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func containsValue[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func (r *memAgreementRepo) FindLatestAccepted(_ context.Context, field domain.PartyField, userID uuid.UUID, limit int) ([]domain.AgreementListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastField, r.lastLimit = field, limit
	var items []domain.AgreementListItem
	for _, a := range r.agreements {
		party := a.TenantID
		if field == domain.PartyLandlord {
			party = a.LandlordID
		}
		if party == userID && a.Status == domain.StatusAccepted {
			items = append(items, domain.AgreementListItem{Agreement: a})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UpdatedAt.After(items[j].UpdatedAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *memAgreementRepo) FindAcceptedOverlapping(_ context.Context, field domain.PartyField, _ uuid.UUID, from, to time.Time) ([]domain.Agreement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastField, r.lastFrom, r.lastTo = field, from, to
	return r.overlapping, nil
}

// transition применяет изменения, только если узел все еще pending
func (r *memAgreementRepo) transition(a *domain.Agreement) error {
	stored, ok := r.agreements[a.ID]
	if !ok {
		return domain.ErrAgreementNotFound
	}
	if stored.Status != domain.StatusPending {
		return domain.ErrAgreementNotPending
	}
	r.agreements[a.ID] = *a
	return nil
}

func (r *memAgreementRepo) UpdateTerms(_ context.Context, a *domain.Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transition(a)
}

func (r *memAgreementRepo) Accept(_ context.Context, a *domain.Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.transition(a); err != nil {
		return err
	}
	r.properties.setStatus(a.PropertyID, domain.PropertySold)
	r.roster[rosterKey{a.LandlordID, a.TenantID}] = struct{}{}
	return nil
}

func (r *memAgreementRepo) Decline(_ context.Context, a *domain.Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transition(a)
}

func (r *memAgreementRepo) Counter(_ context.Context, original, counter *domain.Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.transition(original); err != nil {
		return err
	}
	r.agreements[counter.ID] = *counter
	return nil
}

func (r *memAgreementRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agreements, id)
	for childID, a := range r.agreements {
		if a.ParentID != nil && *a.ParentID == id {
			a.ParentID = nil
			r.agreements[childID] = a
		}
	}
	return nil
}

// staleAgreementRepo отдает снимок узла, сделанный до параллельного изменения
type staleAgreementRepo struct {
	*memAgreementRepo
	snapshot domain.Agreement
}

func (r *staleAgreementRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Agreement, error) {
	if id == r.snapshot.ID {
		a := r.snapshot
		return &a, nil
	}
	return r.memAgreementRepo.FindByID(context.Background(), id)
}

// --- уведомления ---

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: map[uuid.UUID]domain.Notification{}}
}

func (r *memNotificationRepo) Create(_ context.Context, n *domain.Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.notifications[n.ID]; exists {
		return false, nil
	}
	r.notifications[n.ID] = *n
	return true, nil
}

func (r *memNotificationRepo) byReceiver(receiverID uuid.UUID) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memNotificationRepo) FindByReceiver(_ context.Context, receiverID uuid.UUID, limit, offset int) ([]domain.Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.byReceiver(receiverID)
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memNotificationRepo) FindLatest(_ context.Context, receiverID uuid.UUID, limit int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.byReceiver(receiverID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, receiverID uuid.UUID, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, id := range ids {
		n, ok := r.notifications[id]
		if !ok || n.ReceiverID != receiverID || n.IsRead {
			continue
		}
		n.IsRead = true
		r.notifications[id] = n
		updated++
	}
	return updated, nil
}

// --- моки ---

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishAgreementEvent(ctx context.Context, event domain.AgreementEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockNumbers struct{ mock.Mock }

func (m *mockNumbers) Next() int {
	args := m.Called()
	return args.Int(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, n domain.Notification) {
	m.Called(ctx, n)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GenerateToken(ctx context.Context, user *domain.User, ttl time.Duration) (string, error) {
	args := m.Called(ctx, user, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*domain.Claims)
	return claims, args.Error(1)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	_ port.AgreementRepositoryPort     = (*memAgreementRepo)(nil)
	_ port.PropertyRepositoryPort      = (*memPropertyRepo)(nil)
	_ port.UserRepositoryPort          = (*memUserRepo)(nil)
	_ port.NotificationRepositoryPort  = (*memNotificationRepo)(nil)
	_ port.AgreementEventPublisherPort = (*mockPublisher)(nil)
	_ port.UniqueNumberGeneratorPort   = (*mockNumbers)(nil)
	_ port.RealtimeNotifierPort        = (*mockNotifier)(nil)
	_ port.TokenServicePort            = (*mockTokenService)(nil)
	_ port.ClockPort                   = fixedClock{}
)
