package rest

import (
	"time"

	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port/usecases_port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Запросы ---

// AgreementTermsRequest - условия в теле POST /agreements, PUT и counter.
type AgreementTermsRequest struct {
	Type          domain.AgreementType `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	StartDate     string               `json:"startDate"`
	EndDate       *string              `json:"endDate,omitempty"`
	PaymentPeriod domain.PaymentPeriod `json:"paymentPeriod"`
}

type CreateAgreementRequest struct {
	AgreementTermsRequest
	TenantID   uuid.UUID  `json:"tenantId"`
	LandlordID uuid.UUID  `json:"landlordId"`
	PropertyID uuid.UUID  `json:"propertyId"`
	ParentID   *uuid.UUID `json:"parentId,omitempty"`
}

// FilterAgreementsRequest - тело POST /agreements/filter. Даты - календарные дни.
type FilterAgreementsRequest struct {
	Statuses       []domain.AgreementStatus `json:"statuses"`
	Types          []domain.AgreementType   `json:"types"`
	PaymentPeriods []domain.PaymentPeriod   `json:"paymentPeriods"`
	CreatedAfter   *string                  `json:"createdAfter,omitempty"`
	CreatedBefore  *string                  `json:"createdBefore,omitempty"`
}

type RegisterRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (t AgreementTermsRequest) toDomain(loc *time.Location) (domain.AgreementTerms, error) {
	start, err := parseDate(t.StartDate, loc)
	if err != nil {
		return domain.AgreementTerms{}, err
	}
	terms := domain.AgreementTerms{
		Type:          t.Type,
		Amount:        t.Amount,
		StartDate:     start,
		PaymentPeriod: t.PaymentPeriod,
	}
	if t.EndDate != nil && *t.EndDate != "" {
		end, err := parseDate(*t.EndDate, loc)
		if err != nil {
			return domain.AgreementTerms{}, err
		}
		terms.EndDate = &end
	}
	return terms, nil
}

func (r CreateAgreementRequest) toDomain(loc *time.Location) (usecases_port.CreateAgreementRequest, error) {
	terms, err := r.AgreementTermsRequest.toDomain(loc)
	if err != nil {
		return usecases_port.CreateAgreementRequest{}, err
	}
	return usecases_port.CreateAgreementRequest{
		Parties: domain.AgreementParties{
			TenantID:   r.TenantID,
			LandlordID: r.LandlordID,
			PropertyID: r.PropertyID,
			ParentID:   r.ParentID,
		},
		Terms: terms,
	}, nil
}

func (r FilterAgreementsRequest) toDomain(loc *time.Location) (*domain.AgreementFilters, error) {
	filters := &domain.AgreementFilters{
		Statuses:       r.Statuses,
		Types:          r.Types,
		PaymentPeriods: r.PaymentPeriods,
	}
	if r.CreatedAfter != nil && *r.CreatedAfter != "" {
		t, err := parseDate(*r.CreatedAfter, loc)
		if err != nil {
			return nil, err
		}
		filters.CreatedAfter = &t
	}
	if r.CreatedBefore != nil && *r.CreatedBefore != "" {
		t, err := parseDate(*r.CreatedBefore, loc)
		if err != nil {
			return nil, err
		}
		filters.CreatedBefore = &t
	}
	return filters, nil
}

// --- Ответы ---

type PropertySummaryResponse struct {
	ID      uuid.UUID             `json:"id"`
	Title   string                `json:"title"`
	Address string                `json:"address"`
	Status  domain.PropertyStatus `json:"status"`
}

type UserProfileResponse struct {
	ID    uuid.UUID   `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

type AgreementResponse struct {
	ID            uuid.UUID                `json:"id"`
	UniqueNumber  int                      `json:"uniqueNumber"`
	TenantID      uuid.UUID                `json:"tenantId"`
	LandlordID    uuid.UUID                `json:"landlordId"`
	CreatorID     uuid.UUID                `json:"creatorId"`
	PropertyID    uuid.UUID                `json:"propertyId"`
	ParentID      *uuid.UUID               `json:"parentId"`
	Type          domain.AgreementType     `json:"type"`
	Amount        decimal.Decimal          `json:"amount"`
	StartDate     time.Time                `json:"startDate"`
	EndDate       *time.Time               `json:"endDate"`
	PaymentPeriod domain.PaymentPeriod     `json:"paymentPeriod"`
	Status        domain.AgreementStatus   `json:"status"`
	IsArchived    bool                     `json:"isArchived"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
	Property      *PropertySummaryResponse `json:"property,omitempty"`
}

type AgreementDetailsResponse struct {
	AgreementResponse
	Tenant   *UserProfileResponse `json:"tenant"`
	Landlord *UserProfileResponse `json:"landlord"`
	Parent   *AgreementResponse   `json:"parent"`
}

type PaginatedAgreementsResponse struct {
	Data   []AgreementResponse `json:"data"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type DeleteAgreementResponse struct {
	ID uuid.UUID `json:"id"`
}

type TotalsPointResponse struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type AuthResponse struct {
	Token string              `json:"token"`
	User  UserProfileResponse `json:"user"`
}

type NotificationResponse struct {
	ID          uuid.UUID               `json:"id"`
	SenderID    uuid.UUID               `json:"senderId"`
	Type        domain.NotificationType `json:"type"`
	Content     string                  `json:"content"`
	AgreementID uuid.UUID               `json:"agreementId"`
	IsRead      bool                    `json:"isRead"`
	CreatedAt   time.Time               `json:"createdAt"`
}

type PaginatedNotificationsResponse struct {
	Data   []NotificationResponse `json:"data"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

func toPropertyResponse(p *domain.PropertySummary) *PropertySummaryResponse {
	if p == nil {
		return nil
	}
	return &PropertySummaryResponse{ID: p.ID, Title: p.Title, Address: p.Address, Status: p.Status}
}

func toProfileResponse(u *domain.UserProfile) *UserProfileResponse {
	if u == nil {
		return nil
	}
	return &UserProfileResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func toAgreementResponse(a *domain.Agreement) AgreementResponse {
	return AgreementResponse{
		ID:            a.ID,
		UniqueNumber:  a.UniqueNumber,
		TenantID:      a.TenantID,
		LandlordID:    a.LandlordID,
		CreatorID:     a.CreatorID,
		PropertyID:    a.PropertyID,
		ParentID:      a.ParentID,
		Type:          a.Type,
		Amount:        a.Amount,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		PaymentPeriod: a.PaymentPeriod,
		Status:        a.Status,
		IsArchived:    a.IsArchived,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toAgreementListResponse(items []domain.AgreementListItem) []AgreementResponse {
	resp := make([]AgreementResponse, 0, len(items))
	for i := range items {
		dto := toAgreementResponse(&items[i].Agreement)
		dto.Property = toPropertyResponse(items[i].Property)
		resp = append(resp, dto)
	}
	return resp
}

func toAgreementDetailsResponse(d *domain.AgreementDetails) AgreementDetailsResponse {
	resp := AgreementDetailsResponse{
		AgreementResponse: toAgreementResponse(&d.Agreement),
		Tenant:            toProfileResponse(d.Tenant),
		Landlord:          toProfileResponse(d.Landlord),
	}
	resp.Property = toPropertyResponse(d.Property)
	if d.Parent != nil {
		parent := toAgreementResponse(d.Parent)
		resp.Parent = &parent
	}
	return resp
}

func toTotalsResponse(points []domain.TotalsPoint) []TotalsPointResponse {
	resp := make([]TotalsPointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, TotalsPointResponse{Label: p.Label, Value: p.Value})
	}
	return resp
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		SenderID:    n.SenderID,
		Type:        n.Type,
		Content:     n.Content,
		AgreementID: n.AgreementID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

func toNotificationsResponse(items []domain.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toNotificationResponse(&items[i]))
	}
	return resp
}

func toAuthResponse(u *domain.User, token string) AuthResponse {
	profile := u.Profile()
	return AuthResponse{Token: token, User: *toProfileResponse(&profile)}
}
