package contracts

import (
	"testing"
	"testing/fstest"

	"real-estate-system/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(schemas.SchemasFS)
	require.NoError(t, err)
	return registry
}

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "AgreementNotificationEvent/1.0.0", generateKeyFromPath("events/agreement-notification/v1.json"))
	assert.Equal(t, "CreateAgreementRequest/2.0.0", generateKeyFromPath("requests/create-agreement/v2.json"))
	assert.Equal(t, "", generateKeyFromPath("other/x/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/x/latest.json"))
}

func TestNewRegistry_Embedded(t *testing.T) {
	registry := newTestRegistry(t)

	assert.ElementsMatch(t, []string{
		"AgreementNotificationEvent/1.0.0",
		"AgreementTermsRequest/1.0.0",
		"CreateAgreementRequest/1.0.0",
	}, registry.Keys())
}

func TestValidateEvent(t *testing.T) {
	registry := newTestRegistry(t)
	valid := `{
		"eventId": "6f1c1b0e-8d3a-4a57-9f0a-0d1c9b1f2a3b",
		"type": "agreement_accepted",
		"senderId": "0b6f3d52-3f0e-4c39-8c53-6a6f1c0b9e41",
		"receiverId": "9a2f9b4e-2b1d-4c8e-a0f5-5b8c7d6e4f31",
		"agreementId": "5c3e2d1f-7a6b-4c9d-8e0f-1a2b3c4d5e6f",
		"occurredAt": "2024-03-10T12:00:00Z"
	}`

	require.NoError(t, registry.ValidateEvent("AgreementNotificationEvent", "1.0.0", []byte(valid)))

	tests := []struct {
		name    string
		version string
		body    string
	}{
		{"unknown version", "2.0.0", valid},
		{"not json", "1.0.0", `{"eventId":`},
		{"unknown type", "1.0.0", `{"eventId":"6f1c1b0e-8d3a-4a57-9f0a-0d1c9b1f2a3b","type":"boom","senderId":"0b6f3d52-3f0e-4c39-8c53-6a6f1c0b9e41","receiverId":"9a2f9b4e-2b1d-4c8e-a0f5-5b8c7d6e4f31","agreementId":"5c3e2d1f-7a6b-4c9d-8e0f-1a2b3c4d5e6f","occurredAt":"2024-03-10T12:00:00Z"}`},
		{"bad uuid", "1.0.0", `{"eventId":"nope","type":"new_agreement","senderId":"0b6f3d52-3f0e-4c39-8c53-6a6f1c0b9e41","receiverId":"9a2f9b4e-2b1d-4c8e-a0f5-5b8c7d6e4f31","agreementId":"5c3e2d1f-7a6b-4c9d-8e0f-1a2b3c4d5e6f","occurredAt":"2024-03-10T12:00:00Z"}`},
		{"missing field", "1.0.0", `{"eventId":"6f1c1b0e-8d3a-4a57-9f0a-0d1c9b1f2a3b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, registry.ValidateEvent("AgreementNotificationEvent", tt.version, []byte(tt.body)))
		})
	}
}

func TestValidateRequest_CreateAgreement(t *testing.T) {
	registry := newTestRegistry(t)

	sale := `{
		"tenantId": "0b6f3d52-3f0e-4c39-8c53-6a6f1c0b9e41",
		"landlordId": "9a2f9b4e-2b1d-4c8e-a0f5-5b8c7d6e4f31",
		"propertyId": "5c3e2d1f-7a6b-4c9d-8e0f-1a2b3c4d5e6f",
		"type": "sale",
		"amount": 150000,
		"startDate": "2024-03-15",
		"paymentPeriod": "once"
	}`
	require.NoError(t, registry.ValidateRequest("CreateAgreement", 1, []byte(sale)))

	rentWithoutEnd := `{
		"tenantId": "0b6f3d52-3f0e-4c39-8c53-6a6f1c0b9e41",
		"landlordId": "9a2f9b4e-2b1d-4c8e-a0f5-5b8c7d6e4f31",
		"propertyId": "5c3e2d1f-7a6b-4c9d-8e0f-1a2b3c4d5e6f",
		"type": "rent",
		"amount": "900.50",
		"startDate": "2024-03-15",
		"paymentPeriod": "monthly"
	}`
	err := registry.ValidateRequest("CreateAgreement", 1, []byte(rentWithoutEnd))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	noParties := `{"type":"sale","amount":10,"startDate":"2024-03-15","paymentPeriod":"once"}`
	assert.ErrorIs(t, registry.ValidateRequest("CreateAgreement", 1, []byte(noParties)), ErrInvalidPayload)
	assert.NoError(t, registry.ValidateRequest("AgreementTerms", 1, []byte(noParties)))
}

func TestNewRegistry_BrokenSchema(t *testing.T) {
	fsys := fstest.MapFS{
		"events/broken/v1.json": {Data: []byte(`{"type": 12}`)},
		"requests/ok/v1.json":   {Data: []byte(`{"type": "object"}`)},
	}

	_, err := NewRegistry(fsys)

	assert.Error(t, err)
}
