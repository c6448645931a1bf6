package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type employeeRepository struct {
	store *Store
}

// PutEmployee inserts or replaces an employment record, then links its PICIDs.
// It enforces one active record per user and that every PIC exists and is flagged as one.
func (s *Store) PutEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	unlock := s.lock(ctx)
	defer unlock()

	var errs validator.ValidationErrors
	if validator.IsEmpty(emp.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if validator.IsEmpty(emp.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name is required"})
	}
	if !validator.IsValidEmail(emp.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is invalid"})
	}
	if len(errs) > 0 {
		return employee.Employee{}, errs
	}
	if !emp.WorkingHour.IsValid() {
		return employee.Employee{}, fmt.Errorf("%w: %q", schedule.ErrInvalidWorkingHour, emp.WorkingHour)
	}

	if emp.ID == "" {
		id, err := newID()
		if err != nil {
			return employee.Employee{}, err
		}
		emp.ID = id
	}

	if emp.IsActive {
		for _, other := range s.data.employees {
			if other.ID != emp.ID && other.UserID == emp.UserID && other.IsActive {
				return employee.Employee{}, employee.ErrActiveRecordExists
			}
		}
	}

	for _, picID := range emp.PICIDs {
		if picID == emp.ID {
			return employee.Employee{}, employee.ErrSelfPICNotPermitted
		}
		pic, ok := s.data.employees[picID]
		if !ok {
			return employee.Employee{}, fmt.Errorf("pic %s: %w", picID, employee.ErrEmployeeNotFound)
		}
		if !pic.IsPIC {
			return employee.Employee{}, fmt.Errorf("pic %s: %w", picID, employee.ErrEmployeeNotPIC)
		}
	}

	now := time.Now()
	if existing, ok := s.data.employees[emp.ID]; ok {
		emp.CreatedAt = existing.CreatedAt
	} else if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	emp.UpdatedAt = now

	links := make(map[string]struct{}, len(emp.PICIDs))
	for _, picID := range emp.PICIDs {
		links[picID] = struct{}{}
	}
	s.data.picLinks[emp.ID] = links

	emp.PICIDs = nil
	s.data.employees[emp.ID] = emp
	return s.withPICs(emp), nil
}

// SwitchEmployment deactivates every active record of the user and activates the given one.
func (s *Store) SwitchEmployment(ctx context.Context, userID string, employeeID string) error {
	unlock := s.lock(ctx)
	defer unlock()

	target, ok := s.data.employees[employeeID]
	if !ok || target.UserID != userID {
		return employee.ErrEmployeeNotFound
	}

	now := time.Now()
	for id, emp := range s.data.employees {
		if emp.UserID == userID && emp.IsActive && id != employeeID {
			emp.IsActive = false
			emp.UpdatedAt = now
			s.data.employees[id] = emp
		}
	}
	target.IsActive = true
	target.UpdatedAt = now
	s.data.employees[employeeID] = target
	return nil
}

func (s *Store) withPICs(emp employee.Employee) employee.Employee {
	emp.PICIDs = s.picIDs(emp.ID)
	return emp
}

func (s *Store) picIDs(employeeID string) []string {
	ids := make([]string, 0, len(s.data.picLinks[employeeID]))
	for id := range s.data.picLinks[employeeID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	emp, ok := r.store.data.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.store.withPICs(emp), nil
}

// GetActiveByUserID implements employee.EmployeeRepository.
func (r *employeeRepository) GetActiveByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, emp := range r.store.data.employees {
		if emp.UserID == userID && emp.IsActive {
			return r.store.withPICs(emp), nil
		}
	}
	return employee.Employee{}, employee.ErrNoActiveEmployment
}

// LockByID implements employee.EmployeeRepository. The store lock already
// serializes transactions, so this is a plain read.
func (r *employeeRepository) LockByID(ctx context.Context, id string) (employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	emp, ok := r.store.data.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// ListPICIDs implements employee.EmployeeRepository.
func (r *employeeRepository) ListPICIDs(ctx context.Context, employeeID string) ([]string, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	return r.store.picIDs(employeeID), nil
}

// IsPersonInCharge implements employee.EmployeeRepository.
func (r *employeeRepository) IsPersonInCharge(ctx context.Context, picEmployeeID string, employeeID string) (bool, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	_, ok := r.store.data.picLinks[employeeID][picEmployeeID]
	return ok, nil
}
