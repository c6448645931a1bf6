package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
)

type seedEmployee struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	PositionName *string  `json:"position_name,omitempty"`
	WorkingHour  string   `json:"working_hour"`
	IsActive     bool     `json:"is_active"`
	IsPIC        bool     `json:"is_pic"`
	PICIDs       []string `json:"pic_ids,omitempty"`
}

type seedFile struct {
	Employees []seedEmployee `json:"employees"`
}

// LoadSeedFile fills the directory from a JSON file. Employees are inserted
// first and their PIC links afterwards, so the file order does not matter.
func (s *Store) LoadSeedFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	err = s.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, se := range seed.Employees {
			if se.ID == "" {
				return fmt.Errorf("seed employee %q: id is required", se.FullName)
			}
			if _, err := s.PutEmployee(txCtx, se.toEmployee(nil)); err != nil {
				return fmt.Errorf("seed employee %s: %w", se.ID, err)
			}
		}
		for _, se := range seed.Employees {
			if len(se.PICIDs) == 0 {
				continue
			}
			if _, err := s.PutEmployee(txCtx, se.toEmployee(se.PICIDs)); err != nil {
				return fmt.Errorf("seed PICs of employee %s: %w", se.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(seed.Employees), nil
}

func (se seedEmployee) toEmployee(picIDs []string) employee.Employee {
	return employee.Employee{
		ID:           se.ID,
		UserID:       se.UserID,
		FullName:     se.FullName,
		Email:        se.Email,
		PositionName: se.PositionName,
		WorkingHour:  schedule.WorkingHour(se.WorkingHour),
		IsActive:     se.IsActive,
		IsPIC:        se.IsPIC,
		PICIDs:       picIDs,
	}
}
