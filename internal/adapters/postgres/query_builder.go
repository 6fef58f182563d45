package postgres_adapter

import (
	"fmt"
	"strings"

	"real-estate-system/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: make([]string, 0),
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// nextArg резервирует плейсхолдер для аргументов, которые идут после WHERE (LIMIT, OFFSET).
func (qb *queryBuilder) nextArg(arg interface{}) string {
	placeholder := fmt.Sprintf("$%d", qb.argId)
	qb.args = append(qb.args, arg)
	qb.argId++
	return placeholder
}

// build создает WHERE-часть запроса
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// partyColumn - колонка договора, в которой ищется пользователь.
func partyColumn(field domain.PartyField) string {
	switch field {
	case domain.PartyLandlord:
		return "a.landlord_id"
	default:
		return "a.tenant_id"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// applyAgreementQuery переводит предикат выборки договоров в SQL.
// Пустые списки статусов, типов и периодов не ограничивают выборку.
func applyAgreementQuery(q domain.AgreementQuery) *queryBuilder {
	qb := newQueryBuilder()

	qb.addCondition("%s = $%d", partyColumn(q.PartyField), q.UserID)
	qb.addCondition("%s = $%d", "a.is_archived", q.IsArchived)

	if q.CreatorID != nil {
		qb.addCondition("%s = $%d", "a.creator_id", *q.CreatorID)
	}
	if q.ExcludeCreatorID != nil {
		qb.addCondition("%s <> $%d", "a.creator_id", *q.ExcludeCreatorID)
	}

	if len(q.Statuses) > 0 {
		qb.addCondition("%s = ANY($%d)", "a.status", toStrings(q.Statuses))
	}
	if len(q.Types) > 0 {
		qb.addCondition("%s = ANY($%d)", "a.type", toStrings(q.Types))
	}
	if len(q.PaymentPeriods) > 0 {
		qb.addCondition("%s = ANY($%d)", "a.payment_period", toStrings(q.PaymentPeriods))
	}

	if q.CreatedFrom != nil {
		qb.addCondition("%s >= $%d", "a.created_at", *q.CreatedFrom)
	}
	if q.CreatedTo != nil {
		qb.addCondition("%s < $%d", "a.created_at", *q.CreatedTo)
	}

	if q.UniqueNumberLike != "" {
		qb.addCondition("%s ILIKE $%d", "a.unique_number::text", "%"+likeEscaper.Replace(q.UniqueNumberLike)+"%")
	}

	return qb
}
