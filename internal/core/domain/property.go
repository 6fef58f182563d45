package domain

import "github.com/google/uuid"

type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertySold      PropertyStatus = "sold"
)

// Property - объект недвижимости. Создается сервисом объявлений,
// здесь только читается и помечается проданным.
type Property struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Title   string
	Address string
	Status  PropertyStatus
}

func (p *Property) IsAvailable() bool {
	return p.Status == PropertyAvailable
}
