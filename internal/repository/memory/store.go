// Package memory is an in-process Store implementing every repository and the
// transactor. It backs the unit tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/google/uuid"
)

type txKey struct{}

type tables struct {
	employees   map[string]employee.Employee
	picLinks    map[string]map[string]struct{} // employee id -> pic employee ids
	attendances map[string]attendance.Attendance
	approvals   map[string]approval.Approval
}

func (t tables) clone() tables {
	c := tables{
		employees:   make(map[string]employee.Employee, len(t.employees)),
		picLinks:    make(map[string]map[string]struct{}, len(t.picLinks)),
		attendances: make(map[string]attendance.Attendance, len(t.attendances)),
		approvals:   make(map[string]approval.Approval, len(t.approvals)),
	}
	for k, v := range t.employees {
		c.employees[k] = v
	}
	for k, links := range t.picLinks {
		cl := make(map[string]struct{}, len(links))
		for id := range links {
			cl[id] = struct{}{}
		}
		c.picLinks[k] = cl
	}
	for k, v := range t.attendances {
		c.attendances[k] = v
	}
	for k, v := range t.approvals {
		c.approvals[k] = v
	}
	return c
}

// Store serializes every transaction and every standalone call on one mutex,
// which gives the same guarantees the row locks and unique indexes give in PostgreSQL.
type Store struct {
	mu   sync.Mutex
	data tables
}

func NewStore() *Store {
	return &Store{
		data: tables{
			employees:   map[string]employee.Employee{},
			picLinks:    map[string]map[string]struct{}{},
			attendances: map[string]attendance.Attendance{},
			approvals:   map[string]approval.Approval{},
		},
	}
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock acquires the store unless ctx already runs inside one of its transactions.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction implements database.Transactor. On error or panic the
// tables are restored to the snapshot taken at begin.
func (s *Store) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{store: s}
}

func (s *Store) Attendances() attendance.AttendanceRepository {
	return &attendanceRepository{store: s}
}

func (s *Store) Approvals() approval.ApprovalRepository {
	return &approvalRepository{store: s}
}
