package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tvdoutor/contratos/internal/entity"
)

const staleProcessingMessage = "Tempo limite da geração do documento excedido"

type ContractRepository struct {
	DB *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{DB: db}
}

// Create grava o contrato e os contratantes na mesma transação.
func (r *ContractRepository) Create(ctx context.Context, p entity.ContractPayload) (string, error) {
	id := uuid.NewString()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO contracts (
			id, title, city, state, signature_date, due_date, plan_contracted,
			implementation_unit_value, implementation_value, monthly_plan_value, total_contract_value,
			payment_method, contract_term, generated_contract_text,
			equipment_43, equipment_55, players,
			status_enum, processing_status, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17,
			$18, $19, NULLIF($20, '')::uuid
		)`,
		id, p.Title, p.City, p.State, p.SignatureDate, p.DueDate, string(p.PlanContracted),
		p.ImplementationUnitValue, p.ImplementationValue, p.MonthlyPlanValue, p.TotalContractValue,
		string(p.PaymentMethod), int(p.ContractTerm), p.GeneratedContractText,
		p.Equipment.Equipment43, p.Equipment.Equipment55, p.Equipment.Players,
		string(entity.StatusPending), string(entity.ProcessingRunning), p.CreatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("erro ao criar contrato: %w", err)
	}

	for i, c := range p.Contractors {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO contract_contractors (
				contract_id, position, name, cnpj, address, legal_representative, representative_cpf
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, i, c.Name, c.CNPJ, c.Address, c.LegalRepresentative, c.RepresentativeCPF,
		)
		if err != nil {
			return "", fmt.Errorf("erro ao criar contratante %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id string) (*entity.Contract, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrContractNotFound
	}

	var (
		c             entity.Contract
		title         sql.NullString
		city          sql.NullString
		state         sql.NullString
		signature     sql.NullTime
		due           sql.NullTime
		plan          sql.NullString
		paymentMethod sql.NullString
		createdBy     sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, title, city, state, signature_date, due_date, plan_contracted,
			implementation_unit_value, implementation_value, monthly_plan_value, total_contract_value,
			payment_method, contract_term, generated_contract_text,
			equipment_43, equipment_55, players,
			status_enum, processing_status, processing_message, download_url, archive_key,
			created_by, created_at, updated_at
		FROM contracts WHERE id = $1`, id,
	).Scan(
		&c.ID, &title, &city, &state, &signature, &due, &plan,
		&c.ImplementationUnitValue, &c.ImplementationValue, &c.MonthlyPlanValue, &c.TotalContractValue,
		&paymentMethod, &c.ContractTerm, &c.GeneratedContractText,
		&c.Equipment.Equipment43, &c.Equipment.Equipment55, &c.Equipment.Players,
		&c.Status, &c.ProcessingStatus, &c.ProcessingMessage, &c.DownloadURL, &c.ArchiveKey,
		&createdBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar contrato: %w", err)
	}

	c.Title = title.String
	c.City = city.String
	c.State = state.String
	c.SignatureDate = signature.Time
	c.DueDate = due.Time
	c.PlanContracted = entity.Plan(plan.String)
	c.PaymentMethod = entity.PaymentMethod(paymentMethod.String)
	c.CreatedBy = createdBy.String

	rows, err := r.DB.QueryContext(ctx, `
		SELECT name, cnpj, address, legal_representative, representative_cpf
		FROM contract_contractors WHERE contract_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar contratantes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cr entity.ContractorRecord
		if err := rows.Scan(&cr.Name, &cr.CNPJ, &cr.Address, &cr.LegalRepresentative, &cr.RepresentativeCPF); err != nil {
			return nil, err
		}
		c.Contractors = append(c.Contractors, cr)
	}
	return &c, rows.Err()
}

func (r *ContractRepository) Search(ctx context.Context, params entity.SearchContractsParams) ([]entity.ContractRow, error) {
	query, args := buildContractSearch(params)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao pesquisar contratos: %w", err)
	}
	defer rows.Close()

	out := []entity.ContractRow{}
	for rows.Next() {
		var row entity.ContractRow
		if err := rows.Scan(
			&row.ID, &row.Title, &row.City, &row.State, &row.SignatureDate,
			&row.Status, &row.PlanContracted, &row.MonthlyPlanValue, &row.TotalContractValue,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func buildContractSearch(params entity.SearchContractsParams) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR city ILIKE $%d OR state ILIKE $%d)", n, n, n))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status_enum = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, title, city, state, to_char(signature_date, 'YYYY-MM-DD'), status_enum,
		plan_contracted, monthly_plan_value, total_contract_value FROM contracts`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, params.Limit, params.Offset)
	fmt.Fprintf(&b, " ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status entity.ContractStatus) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrContractNotFound
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE contracts SET status_enum = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	return affectedOne(res, err)
}

func (r *ContractRepository) UpdateProcessing(ctx context.Context, id string, u entity.ProcessingUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrContractNotFound
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE contracts
		SET processing_status = $1, processing_message = $2,
			download_url = COALESCE(NULLIF($3, ''), download_url), updated_at = NOW()
		WHERE id = $4`,
		string(u.Status), u.Message, u.DownloadURL, id)
	return affectedOne(res, err)
}

func (r *ContractRepository) SetArchiveKey(ctx context.Context, id, key string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrContractNotFound
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE contracts SET archive_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	return affectedOne(res, err)
}

// ExpireStaleProcessing marca como erro as gerações paradas há mais de olderThan.
func (r *ContractRepository) ExpireStaleProcessing(ctx context.Context, olderThan time.Duration) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE contracts
		SET processing_status = $1, processing_message = $2, updated_at = NOW()
		WHERE processing_status = $3 AND updated_at < NOW() - make_interval(secs => $4)
		RETURNING id`,
		string(entity.ProcessingError), staleProcessingMessage, string(entity.ProcessingRunning), olderThan.Seconds())
	if err != nil {
		return nil, fmt.Errorf("erro ao expirar processamentos: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrContractNotFound
	}
	return nil
}
