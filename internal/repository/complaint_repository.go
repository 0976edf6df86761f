package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintFilter captures admin search parameters. Zero values match everything.
type ComplaintFilter struct {
	Status   domain.ComplaintStatus
	Priority domain.ComplaintPriority
	Search   string
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `c.id, c.title, c.description, c.category, c.priority, c.status,
               c.date_submitted, c.updated_at, c.user_id, u.name, u.email`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, description, category, priority, status, user_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, date_submitted, updated_at`
	if err := r.pool.QueryRow(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.UserID,
	).Scan(&complaint.ID, &complaint.DateSubmitted, &complaint.UpdatedAt); err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + complaintColumns + `
        FROM complaints c LEFT JOIN users u ON u.id = c.user_id
        WHERE c.id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("select complaint: %w", err)
	}
	defer rows.Close()

	complaints, err := scanComplaints(rows)
	if err != nil {
		return nil, err
	}
	if len(complaints) == 0 {
		return nil, ErrNotFound
	}
	return &complaints[0], nil
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	const query = `
        UPDATE complaints SET status=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return nil, fmt.Errorf("update complaint status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		clauses = append(clauses, fmt.Sprintf("c.priority=$%d", len(args)))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, containsPattern(term))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(c.title) LIKE %[1]s ESCAPE '\' OR LOWER(c.description) LIKE %[1]s ESCAPE '\' OR LOWER(c.category) LIKE %[1]s ESCAPE '\')`, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s
        FROM complaints c LEFT JOIN users u ON u.id = c.user_id
        WHERE %s ORDER BY c.date_submitted DESC`, complaintColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()
	return scanComplaints(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a case-folded LIKE pattern that
// matches it literally anywhere in the column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	result := []domain.Complaint{}
	for rows.Next() {
		var (
			complaint domain.Complaint
			ownerName *string
			ownerMail *string
		)
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.Category,
			&complaint.Priority,
			&complaint.Status,
			&complaint.DateSubmitted,
			&complaint.UpdatedAt,
			&complaint.UserID,
			&ownerName,
			&ownerMail,
		); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		if ownerName != nil && ownerMail != nil {
			complaint.User = &domain.ComplaintOwner{ID: complaint.UserID, Name: *ownerName, Email: *ownerMail}
		}
		result = append(result, complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}
	return result, nil
}
