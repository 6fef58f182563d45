package port

import (
	"context"
	"real-estate-system/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// AgreementRepositoryPort - контракт хранилища договоров.
// Find* возвращают (nil, nil), если запись не найдена.
// Методы переходов пишут только узлы в статусе pending и иначе возвращают domain.ErrAgreementNotPending.
type AgreementRepositoryPort interface {
	Create(ctx context.Context, agreement *domain.Agreement) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Agreement, error)
	FindDetails(ctx context.Context, id uuid.UUID) (*domain.AgreementDetails, error)
	Find(ctx context.Context, query domain.AgreementQuery, limit, offset int) ([]domain.AgreementListItem, int, error)
	FindLatestAccepted(ctx context.Context, field domain.PartyField, userID uuid.UUID, limit int) ([]domain.AgreementListItem, error)
	// FindAcceptedOverlapping - принятые договоры пользователя, которые могут начислить что-то в [from, to).
	FindAcceptedOverlapping(ctx context.Context, field domain.PartyField, userID uuid.UUID, from, to time.Time) ([]domain.Agreement, error)

	UpdateTerms(ctx context.Context, agreement *domain.Agreement) error
	// Accept одной транзакцией: статус, объект продан, арендатор в списке арендодателя.
	Accept(ctx context.Context, agreement *domain.Agreement) error
	Decline(ctx context.Context, agreement *domain.Agreement) error
	// Counter одной транзакцией сохраняет новый узел и архивирует исходный.
	Counter(ctx context.Context, original, counter *domain.Agreement) error
	// Delete удаляет узел и обнуляет parent у его потомков.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PropertyRepositoryPort - чтение объектов недвижимости.
type PropertyRepositoryPort interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
}
