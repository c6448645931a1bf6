package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, user_id, full_name, email, position_name, working_hour,
	is_active, is_pic, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.FullName, &emp.Email, &emp.PositionName, &emp.WorkingHour,
		&emp.IsActive, &emp.IsPIC, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// withPICs attaches the employee's PIC links.
func (e *employeeRepositoryImpl) withPICs(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	picIDs, err := e.ListPICIDs(ctx, emp.ID)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.PICIDs = picIDs
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}

	return e.withPICs(ctx, emp)
}

// GetActiveByUserID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1 AND is_active = TRUE`

	emp, err := scanEmployee(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNoActiveEmployment
		}
		return employee.Employee{}, fmt.Errorf("failed to get active employee for user %s: %w", userID, err)
	}

	return e.withPICs(ctx, emp)
}

// LockByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) LockByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 FOR UPDATE`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to lock employee %s: %w", id, err)
	}

	return emp, nil
}

// ListPICIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListPICIDs(ctx context.Context, employeeID string) ([]string, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT pic_employee_id
		FROM employee_person_in_charges
		WHERE employee_id = $1
		ORDER BY pic_employee_id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list PICs of employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	picIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		picIDs = append(picIDs, id)
	}

	return picIDs, rows.Err()
}

// IsPersonInCharge implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) IsPersonInCharge(ctx context.Context, picEmployeeID string, employeeID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM employee_person_in_charges
			WHERE employee_id = $1 AND pic_employee_id = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, picEmployeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check PIC link: %w", err)
	}

	return exists, nil
}
