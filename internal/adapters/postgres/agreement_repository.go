package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
	"real-estate-system/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const agreementColumns = `a.id, a.unique_number, a.tenant_id, a.landlord_id, a.creator_id, a.property_id, a.parent_id,
	a.type, a.amount, a.start_date, a.end_date, a.payment_period, a.status, a.is_archived, a.created_at, a.updated_at`

const propertySummaryColumns = `p.id, p.title, p.address, p.status`

// PostgresAgreementRepository - реализация AgreementRepositoryPort для PostgreSQL.
type PostgresAgreementRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAgreementRepository(pool *pgxpool.Pool) (*PostgresAgreementRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresAgreementRepository{pool: pool}, nil
}

func (r *PostgresAgreementRepository) logger(ctx context.Context, method string, fields port.Fields) port.LoggerPort {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresAgreementRepository",
		"method":    method,
	})
	if len(fields) > 0 {
		repoLogger = repoLogger.WithFields(fields)
	}
	return repoLogger
}

func scanAgreement(row pgx.Row, a *domain.Agreement, extra ...any) error {
	dest := []any{
		&a.ID, &a.UniqueNumber, &a.TenantID, &a.LandlordID, &a.CreatorID, &a.PropertyID, &a.ParentID,
		&a.Type, &a.Amount, &a.StartDate, &a.EndDate, &a.PaymentPeriod, &a.Status, &a.IsArchived, &a.CreatedAt, &a.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func scanListItem(rows pgx.Rows) (domain.AgreementListItem, error) {
	var item domain.AgreementListItem
	var property domain.PropertySummary
	err := scanAgreement(rows, &item.Agreement, &property.ID, &property.Title, &property.Address, &property.Status)
	if err != nil {
		return item, err
	}
	item.Property = &property
	return item, nil
}

func collectListItems(rows pgx.Rows, capacity int) ([]domain.AgreementListItem, error) {
	defer rows.Close()

	items := make([]domain.AgreementListItem, 0, capacity)
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agreement row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during agreements iteration: %w", err)
	}
	return items, nil
}

// mapWriteError переводит ошибки ограничений БД в доменные.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: referenced entity does not exist (%s)", domain.ErrNotFound, pgErr.ConstraintName)
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

const insertAgreementQuery = `INSERT INTO agreements
	(id, unique_number, tenant_id, landlord_id, creator_id, property_id, parent_id,
	 type, amount, start_date, end_date, payment_period, status, is_archived, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

// execer - общее у *pgxpool.Pool и pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertAgreement(ctx context.Context, q execer, a *domain.Agreement) error {
	_, err := q.Exec(ctx, insertAgreementQuery,
		a.ID, a.UniqueNumber, a.TenantID, a.LandlordID, a.CreatorID, a.PropertyID, a.ParentID,
		string(a.Type), a.Amount, a.StartDate, a.EndDate, string(a.PaymentPeriod), string(a.Status), a.IsArchived, a.CreatedAt, a.UpdatedAt,
	)
	return mapWriteError(err)
}

// Create сохраняет новый договор.
func (r *PostgresAgreementRepository) Create(ctx context.Context, agreement *domain.Agreement) error {
	repoLogger := r.logger(ctx, "Create", port.Fields{"agreement_id": agreement.ID.String()})

	repoLogger.Debug("Executing query to create agreement.", nil)
	if err := insertAgreement(ctx, r.pool, agreement); err != nil {
		repoLogger.Error("Failed to create agreement", err, nil)
		return fmt.Errorf("failed to create agreement: %w", err)
	}

	repoLogger.Debug("Agreement created successfully.", nil)
	return nil
}

// FindByID находит договор по id. Возвращает (nil, nil), если договора нет.
func (r *PostgresAgreementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Agreement, error) {
	repoLogger := r.logger(ctx, "FindByID", port.Fields{"agreement_id": id.String()})

	query := `SELECT ` + agreementColumns + ` FROM agreements a WHERE a.id = $1`

	var a domain.Agreement
	if err := scanAgreement(r.pool.QueryRow(ctx, query, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Agreement not found by ID.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to find agreement by ID", err, nil)
		return nil, fmt.Errorf("failed to find agreement by id: %w", err)
	}
	return &a, nil
}

// FindDetails возвращает договор вместе с участниками, объектом и родительским узлом.
func (r *PostgresAgreementRepository) FindDetails(ctx context.Context, id uuid.UUID) (*domain.AgreementDetails, error) {
	repoLogger := r.logger(ctx, "FindDetails", port.Fields{"agreement_id": id.String()})

	query := `SELECT ` + agreementColumns + `,
		t.id, t.email, t.name, t.role,
		l.id, l.email, l.name, l.role,
		` + propertySummaryColumns + `
		FROM agreements a
		JOIN users t ON t.id = a.tenant_id
		JOIN users l ON l.id = a.landlord_id
		JOIN properties p ON p.id = a.property_id
		WHERE a.id = $1`

	var (
		details  domain.AgreementDetails
		tenant   domain.UserProfile
		landlord domain.UserProfile
		property domain.PropertySummary
	)
	err := scanAgreement(r.pool.QueryRow(ctx, query, id), &details.Agreement,
		&tenant.ID, &tenant.Email, &tenant.Name, &tenant.Role,
		&landlord.ID, &landlord.Email, &landlord.Name, &landlord.Role,
		&property.ID, &property.Title, &property.Address, &property.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Agreement not found by ID.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to load agreement details", err, nil)
		return nil, fmt.Errorf("failed to load agreement details: %w", err)
	}
	details.Tenant = &tenant
	details.Landlord = &landlord
	details.Property = &property

	if details.ParentID != nil {
		parent, err := r.FindByID(ctx, *details.ParentID)
		if err != nil {
			return nil, err
		}
		details.Parent = parent
	}

	return &details, nil
}

// Find возвращает страницу договоров по предикату и общее количество.
func (r *PostgresAgreementRepository) Find(ctx context.Context, query domain.AgreementQuery, limit, offset int) ([]domain.AgreementListItem, int, error) {
	repoLogger := r.logger(ctx, "Find", port.Fields{
		"user_id":     query.UserID.String(),
		"is_archived": query.IsArchived,
		"limit":       limit,
		"offset":      offset,
	})

	qb := applyAgreementQuery(query)
	whereClause, countArgs := qb.build()
	limitArg := qb.nextArg(limit)
	offsetArg := qb.nextArg(offset)
	_, dataArgs := qb.build()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	countQuery := "SELECT COUNT(*) FROM agreements a " + whereClause
	if err := tx.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count agreements", err, port.Fields{"query": countQuery})
		return nil, 0, fmt.Errorf("failed to count agreements: %w", err)
	}

	if total == 0 || offset >= total {
		return []domain.AgreementListItem{}, total, nil
	}

	dataQuery := fmt.Sprintf(`SELECT %s, %s FROM agreements a
		JOIN properties p ON p.id = a.property_id
		%s
		ORDER BY a.created_at DESC, a.id
		LIMIT %s OFFSET %s`, agreementColumns, propertySummaryColumns, whereClause, limitArg, offsetArg)

	repoLogger.Debug("Executing agreements page query.", port.Fields{"total_count": total})
	rows, err := tx.Query(ctx, dataQuery, dataArgs...)
	if err != nil {
		repoLogger.Error("Failed to query agreements", err, port.Fields{"query": dataQuery})
		return nil, 0, fmt.Errorf("failed to query agreements: %w", err)
	}
	items, err := collectListItems(rows, limit)
	if err != nil {
		repoLogger.Error("Failed to read agreements page", err, nil)
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Successfully found agreements page.", port.Fields{"found_on_page": len(items)})
	return items, total, nil
}

// FindLatestAccepted - последние по времени изменения принятые договоры пользователя.
func (r *PostgresAgreementRepository) FindLatestAccepted(ctx context.Context, field domain.PartyField, userID uuid.UUID, limit int) ([]domain.AgreementListItem, error) {
	repoLogger := r.logger(ctx, "FindLatestAccepted", port.Fields{"user_id": userID.String(), "limit": limit})

	query := fmt.Sprintf(`SELECT %s, %s FROM agreements a
		JOIN properties p ON p.id = a.property_id
		WHERE %s = $1 AND a.status = 'accepted'
		ORDER BY a.updated_at DESC
		LIMIT $2`, agreementColumns, propertySummaryColumns, partyColumn(field))

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		repoLogger.Error("Failed to query latest agreements", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query latest agreements: %w", err)
	}
	items, err := collectListItems(rows, limit)
	if err != nil {
		repoLogger.Error("Failed to read latest agreements", err, nil)
		return nil, err
	}
	return items, nil
}

// FindAcceptedOverlapping выбирает принятые договоры, которые могут дать начисления в [from, to).
// Разовые - по дате начала внутри окна, аренда - по пересечению срока с окном.
func (r *PostgresAgreementRepository) FindAcceptedOverlapping(ctx context.Context, field domain.PartyField, userID uuid.UUID, from, to time.Time) ([]domain.Agreement, error) {
	repoLogger := r.logger(ctx, "FindAcceptedOverlapping", port.Fields{
		"user_id": userID.String(),
		"from":    from,
		"to":      to,
	})

	query := fmt.Sprintf(`SELECT %s FROM agreements a
		WHERE %s = $1 AND a.status = 'accepted' AND (
			((a.type = 'sale' OR a.payment_period = 'once') AND a.start_date >= $2 AND a.start_date < $3)
			OR
			(a.type = 'rent' AND a.payment_period <> 'once' AND a.start_date < $3 AND (a.end_date IS NULL OR a.end_date >= $2))
		)`, agreementColumns, partyColumn(field))

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		repoLogger.Error("Failed to query accepted agreements", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query accepted agreements: %w", err)
	}
	defer rows.Close()

	agreements := make([]domain.Agreement, 0)
	for rows.Next() {
		var a domain.Agreement
		if err := scanAgreement(rows, &a); err != nil {
			repoLogger.Error("Failed to scan agreement row", err, nil)
			return nil, fmt.Errorf("failed to scan agreement: %w", err)
		}
		agreements = append(agreements, a)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during agreements iteration", err, nil)
		return nil, fmt.Errorf("error during agreements iteration: %w", err)
	}

	repoLogger.Debug("Accepted agreements loaded.", port.Fields{"count": len(agreements)})
	return agreements, nil
}

// transitionPending обновляет статус узла, только если он все еще pending.
func transitionPending(ctx context.Context, tx pgx.Tx, a *domain.Agreement) error {
	tag, err := tx.Exec(ctx,
		`UPDATE agreements SET status = $2, is_archived = $3, updated_at = $4 WHERE id = $1 AND status = 'pending'`,
		a.ID, string(a.Status), a.IsArchived, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update agreement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAgreementNotPending
	}
	return nil
}

// UpdateTerms перезаписывает условия pending-узла.
func (r *PostgresAgreementRepository) UpdateTerms(ctx context.Context, a *domain.Agreement) error {
	repoLogger := r.logger(ctx, "UpdateTerms", port.Fields{"agreement_id": a.ID.String()})

	query := `UPDATE agreements
		SET type = $2, amount = $3, start_date = $4, end_date = $5, payment_period = $6, updated_at = $7
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query, a.ID, string(a.Type), a.Amount, a.StartDate, a.EndDate, string(a.PaymentPeriod), a.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to update agreement terms", err, nil)
		return fmt.Errorf("failed to update agreement terms: %w", err)
	}
	if tag.RowsAffected() == 0 {
		repoLogger.Warn("Agreement is no longer pending, terms not updated.", nil)
		return domain.ErrAgreementNotPending
	}
	return nil
}

// Accept одной транзакцией принимает договор, помечает объект проданным
// и добавляет арендатора в список арендодателя.
func (r *PostgresAgreementRepository) Accept(ctx context.Context, a *domain.Agreement) error {
	repoLogger := r.logger(ctx, "Accept", port.Fields{"agreement_id": a.ID.String()})

	err := postgres.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := transitionPending(ctx, tx, a); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE properties SET status = $2 WHERE id = $1`, a.PropertyID, string(domain.PropertySold)); err != nil {
			return fmt.Errorf("failed to mark property as sold: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO landlord_tenants (landlord_id, tenant_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			a.LandlordID, a.TenantID,
		); err != nil {
			return fmt.Errorf("failed to add tenant to landlord: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAgreementNotPending) {
			repoLogger.Warn("Agreement is no longer pending, accept rejected.", nil)
			return err
		}
		repoLogger.Error("Failed to accept agreement", err, nil)
		return fmt.Errorf("failed to accept agreement: %w", err)
	}

	repoLogger.Debug("Agreement accepted.", nil)
	return nil
}

// Decline архивирует pending-узел со статусом declined.
func (r *PostgresAgreementRepository) Decline(ctx context.Context, a *domain.Agreement) error {
	repoLogger := r.logger(ctx, "Decline", port.Fields{"agreement_id": a.ID.String()})

	err := postgres.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return transitionPending(ctx, tx, a)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAgreementNotPending) {
			repoLogger.Warn("Agreement is no longer pending, decline rejected.", nil)
			return err
		}
		repoLogger.Error("Failed to decline agreement", err, nil)
		return fmt.Errorf("failed to decline agreement: %w", err)
	}
	return nil
}

// Counter архивирует исходный узел и сохраняет встречное предложение.
func (r *PostgresAgreementRepository) Counter(ctx context.Context, original, counter *domain.Agreement) error {
	repoLogger := r.logger(ctx, "Counter", port.Fields{
		"agreement_id":         original.ID.String(),
		"counter_agreement_id": counter.ID.String(),
	})

	err := postgres.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := transitionPending(ctx, tx, original); err != nil {
			return err
		}
		return insertAgreement(ctx, tx, counter)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAgreementNotPending) {
			repoLogger.Warn("Agreement is no longer pending, counter rejected.", nil)
			return err
		}
		repoLogger.Error("Failed to counter agreement", err, nil)
		return fmt.Errorf("failed to counter agreement: %w", err)
	}

	repoLogger.Debug("Counter agreement stored.", nil)
	return nil
}

// Delete удаляет узел. Потомки остаются в цепочке без родителя.
func (r *PostgresAgreementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	repoLogger := r.logger(ctx, "Delete", port.Fields{"agreement_id": id.String()})

	var detached int64
	err := postgres.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE agreements SET parent_id = NULL WHERE parent_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to detach child agreements: %w", err)
		}
		detached = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM agreements WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete agreement: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAgreementNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAgreementNotFound) {
			repoLogger.Warn("Attempted to delete an agreement that did not exist.", nil)
			return err
		}
		repoLogger.Error("Failed to delete agreement", err, nil)
		return fmt.Errorf("failed to delete agreement: %w", err)
	}

	repoLogger.Debug("Agreement deleted.", port.Fields{"detached_children": detached})
	return nil
}
