package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/port/usecases_port"
)

// RequestValidator проверяет тело запроса по JSON-схеме контракта.
type RequestValidator interface {
	ValidateRequest(name string, version int, body []byte) error
}

// AgreementUseCases - набор use case'ов, которые обслуживает AgreementHandler.
type AgreementUseCases struct {
	Create    usecases_port.CreateAgreementUseCasePort
	Accept    usecases_port.AcceptAgreementUseCasePort
	Decline   usecases_port.DeclineAgreementUseCasePort
	Counter   usecases_port.CounterAgreementUseCasePort
	Update    usecases_port.UpdateAgreementUseCasePort
	Delete    usecases_port.DeleteAgreementUseCasePort
	List      usecases_port.ListAgreementsUseCasePort
	GetByID   usecases_port.GetAgreementByIdUseCasePort
	GetLatest usecases_port.GetLatestAgreementsUseCasePort
	Totals    usecases_port.GetAgreementTotalsUseCasePort
}

type AgreementHandler struct {
	uc        AgreementUseCases
	validator RequestValidator
	loc       *time.Location
}

// NewAgreementHandler - конструктор. loc - пояс, в котором трактуются даты без времени.
func NewAgreementHandler(uc AgreementUseCases, validator RequestValidator, loc *time.Location) *AgreementHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AgreementHandler{uc: uc, validator: validator, loc: loc}
}

func handlerLogger(r *http.Request, handler string) port.LoggerPort {
	return contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": handler})
}

// readValidated читает тело, проверяет его схемой schemaName и декодирует в dst.
func (h *AgreementHandler) readValidated(w http.ResponseWriter, r *http.Request, schemaName string, dst interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := h.validator.ValidateRequest(schemaName, 1, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return decodeJSON(body, dst)
}

// CreateAgreement обрабатывает POST /api/v1/agreements
func (h *AgreementHandler) CreateAgreement(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CreateAgreement")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req CreateAgreementRequest
	if err := h.readValidated(w, r, "CreateAgreement", &req); err != nil {
		respondError(w, logger, err, "Failed to create agreement")
		return
	}
	cmd, err := req.toDomain(h.loc)
	if err != nil {
		respondError(w, logger, err, "Failed to create agreement")
		return
	}

	agreement, err := h.uc.Create.Execute(r.Context(), actor, cmd)
	if err != nil {
		respondError(w, logger, err, "Failed to create agreement")
		return
	}

	RespondWithJSON(w, http.StatusCreated, toAgreementResponse(agreement))
}

// AcceptAgreement обрабатывает PUT /api/v1/agreements/{id}/accept
func (h *AgreementHandler) AcceptAgreement(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "AcceptAgreement")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	details, err := h.uc.Accept.Execute(r.Context(), actor, id)
	if err != nil {
		respondError(w, logger, err, "Failed to accept agreement")
		return
	}
	RespondWithJSON(w, http.StatusOK, toAgreementDetailsResponse(details))
}

// DeclineAgreement обрабатывает PUT /api/v1/agreements/{id}/decline
func (h *AgreementHandler) DeclineAgreement(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeclineAgreement")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	agreement, err := h.uc.Decline.Execute(r.Context(), actor, id)
	if err != nil {
		respondError(w, logger, err, "Failed to decline agreement")
		return
	}
	RespondWithJSON(w, http.StatusOK, toAgreementResponse(agreement))
}

// CounterAgreement обрабатывает POST /api/v1/agreements/{id}/counter
func (h *AgreementHandler) CounterAgreement(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "CounterAgreement")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	terms, err := h.readTerms(w, r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	counter, err := h.uc.Counter.Execute(r.Context(), actor, id, terms)
	if err != nil {
		respondError(w, logger, err, "Failed to counter agreement")
		return
	}
	RespondWithJSON(w, http.StatusCreated, toAgreementResponse(counter))
}

// UpdateAgreement обрабатывает PUT /api/v1/agreements/{id}
func (h *AgreementHandler) UpdateAgreement(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "UpdateAgreement")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	terms, err := h.readTerms(w, r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	agreement, err := h.uc.Update.Execute(r.Context(), actor, id, terms)
	if err != nil {
		respondError(w, logger, err, "Failed to update agreement")
		return
	}
	RespondWithJSON(w, http.StatusOK, toAgreementResponse(agreement))
}

func (h *AgreementHandler) readTerms(w http.ResponseWriter, r *http.Request) (domain.AgreementTerms, error) {
	var req AgreementTermsRequest
	if err := h.readValidated(w, r, "AgreementTerms", &req); err != nil {
		return domain.AgreementTerms{}, err
	}
	return req.toDomain(h.loc)
}

// DeleteAgreement обрабатывает DELETE /api/v1/agreements/{id}
func (h *AgreementHandler) DeleteAgreement(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "DeleteAgreement")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	if err := h.uc.Delete.Execute(r.Context(), actor, id); err != nil {
		respondError(w, logger, err, "Failed to delete agreement")
		return
	}
	RespondWithJSON(w, http.StatusOK, DeleteAgreementResponse{ID: id})
}

// GetAgreement обрабатывает GET /api/v1/agreements/{id}
func (h *AgreementHandler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetAgreement")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	details, err := h.uc.GetByID.Execute(r.Context(), actor, id)
	if err != nil {
		respondError(w, logger, err, "Failed to retrieve agreement")
		return
	}
	RespondWithJSON(w, http.StatusOK, toAgreementDetailsResponse(details))
}

// listParams читает общие параметры списка: isArchived, createdBy, limit, offset.
func listParams(r *http.Request) (domain.ListAgreementsParams, error) {
	var params domain.ListAgreementsParams
	var err error
	if params.IsArchived, err = queryBool(r, "isArchived"); err != nil {
		return params, err
	}
	if params.Limit, params.Offset, err = GetPage(r); err != nil {
		return params, err
	}
	params.CreatedBy = domain.CreatorScope(strings.ToLower(r.URL.Query().Get("createdBy")))
	return params, nil
}

func (h *AgreementHandler) respondList(w http.ResponseWriter, r *http.Request, logger port.LoggerPort, actor domain.Actor, params domain.ListAgreementsParams) {
	page, err := h.uc.List.Execute(r.Context(), actor, params)
	if err != nil {
		respondError(w, logger, err, "Failed to retrieve agreements")
		return
	}
	RespondWithJSON(w, http.StatusOK, PaginatedAgreementsResponse{
		Data:   toAgreementListResponse(page.Items),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// ListAgreements обрабатывает GET /api/v1/agreements
func (h *AgreementHandler) ListAgreements(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "ListAgreements")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	params, err := listParams(r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	h.respondList(w, r, logger, actor, params)
}

// SearchAgreements обрабатывает GET /api/v1/agreements/search?q=
func (h *AgreementHandler) SearchAgreements(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "SearchAgreements")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	params, err := listParams(r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	params.Search = strings.TrimSpace(r.URL.Query().Get("q"))
	if params.Search == "" {
		respondError(w, logger, badRequest("query parameter q is required"), "")
		return
	}
	h.respondList(w, r, logger, actor, params)
}

// FilterAgreements обрабатывает POST /api/v1/agreements/filter
func (h *AgreementHandler) FilterAgreements(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "FilterAgreements")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	params, err := listParams(r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	var req FilterAgreementsRequest
	if len(body) > 0 {
		if err := decodeJSON(body, &req); err != nil {
			respondError(w, logger, err, "")
			return
		}
	}
	if params.Filters, err = req.toDomain(h.loc); err != nil {
		respondError(w, logger, err, "")
		return
	}
	h.respondList(w, r, logger, actor, params)
}

// GetLatestAgreements обрабатывает GET /api/v1/agreements/latest
func (h *AgreementHandler) GetLatestAgreements(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetLatestAgreements")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	items, err := h.uc.GetLatest.Execute(r.Context(), actor)
	if err != nil {
		respondError(w, logger, err, "Failed to retrieve latest agreements")
		return
	}
	RespondWithJSON(w, http.StatusOK, toAgreementListResponse(items))
}

// GetTotals обрабатывает GET /api/v1/agreements/total?interval=monthly
func (h *AgreementHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetTotals")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	granularity, err := domain.ParseGranularity(r.URL.Query().Get("interval"))
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	points, err := h.uc.Totals.Execute(r.Context(), actor, granularity)
	if err != nil {
		respondError(w, logger, err, "Failed to calculate totals")
		return
	}
	RespondWithJSON(w, http.StatusOK, toTotalsResponse(points))
}
