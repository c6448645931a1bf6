package approval

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fixture struct {
	store    *memory.Store
	clock    *clock.Fixed
	service  approval.ApprovalService
	boss     employee.Employee // PIC of lead
	lead     employee.Employee // PIC of staff
	staff    employee.Employee
	outsider employee.Employee // a PIC with no link to staff
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store: memory.NewStore(),
		clock: clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, wib)),
	}

	put := func(e employee.Employee) employee.Employee {
		e.WorkingHour = schedule.WorkingHourNineToSix
		e.IsActive = true
		created, err := f.store.PutEmployee(ctx, e)
		require.NoError(t, err)
		return created
	}
	f.boss = put(employee.Employee{UserID: "user-boss", FullName: "Boss", Email: "boss@example.com", IsPIC: true})
	f.lead = put(employee.Employee{UserID: "user-lead", FullName: "Lead", Email: "lead@example.com", IsPIC: true, PICIDs: []string{f.boss.ID}})
	f.staff = put(employee.Employee{UserID: "user-staff", FullName: "Staff", Email: "staff@example.com", PICIDs: []string{f.lead.ID}})
	f.outsider = put(employee.Employee{UserID: "user-outsider", FullName: "Outsider", Email: "outsider@example.com", IsPIC: true})

	f.service = NewApprovalService(f.store, f.store.Approvals(), f.store.Employees(), f.clock)
	return f
}

// pendingApproval records a clock-in for staff and returns its pending approval.
func (f *fixture) pendingApproval(t *testing.T) approval.Approval {
	t.Helper()
	ctx := context.Background()
	clockIn := f.clock.Now()

	var created approval.Approval
	err := f.store.WithinTransaction(ctx, func(txCtx context.Context) error {
		att, err := f.store.Attendances().Create(txCtx, attendance.Attendance{
			EmployeeID: f.staff.ID,
			WorkDate:   clock.Today(f.clock),
			ClockIn:    &clockIn,
			CreatedAt:  clockIn,
		})
		if err != nil {
			return err
		}
		created, err = f.service.Create(txCtx, att.ID, attendance.TypeClockIn)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, created.Status)
	return created
}

func decision(id, userID, remark string) approval.DecisionRequest {
	return approval.DecisionRequest{ID: id, UserID: userID, Remark: remark}
}

func TestApprovalService_Create_RejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Create(context.Background(), "att-1", attendance.Type("Break"))
	assert.ErrorIs(t, err, schedule.ErrUnknownEventType)
}

func TestApprovalService_TransitionTable(t *testing.T) {
	ctx := context.Background()

	t.Run("approve from pending", func(t *testing.T) {
		f := newFixture(t)
		ap := f.pendingApproval(t)
		resp, err := f.service.Approve(ctx, decision(ap.ID, "user-lead", "ok"))
		require.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, resp.Status)
		assert.NotNil(t, resp.DecidedAt)
	})

	t.Run("reject from pending then approve", func(t *testing.T) {
		f := newFixture(t)
		ap := f.pendingApproval(t)
		resp, err := f.service.Reject(ctx, decision(ap.ID, "user-lead", "needs proof"))
		require.NoError(t, err)
		assert.Equal(t, approval.StatusRejected, resp.Status)

		resp, err = f.service.Approve(ctx, decision(ap.ID, "user-lead", "proof received"))
		require.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, resp.Status)
	})

	t.Run("reject from rejected", func(t *testing.T) {
		f := newFixture(t)
		ap := f.pendingApproval(t)
		_, err := f.service.Reject(ctx, decision(ap.ID, "user-lead", "no"))
		require.NoError(t, err)
		_, err = f.service.Reject(ctx, decision(ap.ID, "user-lead", "still no"))
		assert.ErrorIs(t, err, approval.ErrApprovalNotActionable)
	})

	t.Run("approved is terminal", func(t *testing.T) {
		f := newFixture(t)
		ap := f.pendingApproval(t)
		_, err := f.service.Approve(ctx, decision(ap.ID, "user-lead", "ok"))
		require.NoError(t, err)

		_, err = f.service.Approve(ctx, decision(ap.ID, "user-lead", "ok again"))
		assert.ErrorIs(t, err, approval.ErrApprovalNotActionable)
		_, err = f.service.Reject(ctx, decision(ap.ID, "user-lead", "changed my mind"))
		assert.ErrorIs(t, err, approval.ErrApprovalNotActionable)
	})
}

func TestApprovalService_RemarkRequired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ap := f.pendingApproval(t)

	_, err := f.service.Approve(ctx, decision(ap.ID, "user-lead", ""))
	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	assert.Equal(t, "Remark for approve is required", vErrs.ToMap()["remark"])

	_, err = f.service.Reject(ctx, decision(ap.ID, "user-lead", " "))
	require.ErrorAs(t, err, &vErrs)
	assert.Equal(t, "Remark for reject is required", vErrs.ToMap()["remark"])
}

func TestApprovalService_UnauthorizedCallerRegardlessOfStatus(t *testing.T) {
	ctx := context.Background()

	for _, setup := range []struct {
		name   string
		status func(t *testing.T, f *fixture, id string)
	}{
		{"pending", func(*testing.T, *fixture, string) {}},
		{"rejected", func(t *testing.T, f *fixture, id string) {
			_, err := f.service.Reject(ctx, decision(id, "user-lead", "no"))
			require.NoError(t, err)
		}},
		{"approved", func(t *testing.T, f *fixture, id string) {
			_, err := f.service.Approve(ctx, decision(id, "user-lead", "ok"))
			require.NoError(t, err)
		}},
	} {
		t.Run(setup.name, func(t *testing.T) {
			f := newFixture(t)
			ap := f.pendingApproval(t)
			setup.status(t, f, ap.ID)

			// outsider: a PIC, but not of staff. boss: PIC of the lead only.
			// staff: the owner of the attendance.
			for _, userID := range []string{"user-outsider", "user-boss", "user-staff"} {
				_, err := f.service.Approve(ctx, decision(ap.ID, userID, "ok"))
				assert.ErrorIs(t, err, approval.ErrApprovalNotActionable, userID)
				_, err = f.service.Reject(ctx, decision(ap.ID, userID, "no"))
				assert.ErrorIs(t, err, approval.ErrApprovalNotActionable, userID)
			}
		})
	}
}

func TestApprovalService_NotFoundAndUnknownCaller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ap := f.pendingApproval(t)

	_, err := f.service.Approve(ctx, decision("0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", "user-lead", "ok"))
	assert.ErrorIs(t, err, approval.ErrApprovalNotFound)

	_, err = f.service.Approve(ctx, decision(ap.ID, "user-ghost", "ok"))
	assert.ErrorIs(t, err, employee.ErrNoActiveEmployment)

	_, err = f.service.Approve(ctx, decision("42", "user-lead", "ok"))
	var vErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &vErrs)
}

func TestApprovalService_IsAuthorizedPIC_IsNotTransitive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ok, err := f.service.IsAuthorizedPIC(ctx, f.lead.ID, f.staff.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.IsAuthorizedPIC(ctx, f.boss.ID, f.lead.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.IsAuthorizedPIC(ctx, f.boss.ID, f.staff.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.service.IsAuthorizedPIC(ctx, f.staff.ID, f.staff.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApprovalService_ListForPIC(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.pendingApproval(t)

	list, err := f.service.ListForPIC(ctx, "user-lead", approval.ApprovalFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Staff", list[0].Employee.FullName)
	assert.Equal(t, f.staff.ID, list[0].Attendance.EmployeeID)

	_, err = f.service.Approve(ctx, decision(first.ID, "user-lead", "ok"))
	require.NoError(t, err)

	pending := string(approval.StatusPending)
	list, err = f.service.ListForPIC(ctx, "user-lead", approval.ApprovalFilter{Status: &pending})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = f.service.ListForPIC(ctx, "user-boss", approval.ApprovalFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	bogus := "Escalated"
	_, err = f.service.ListForPIC(ctx, "user-lead", approval.ApprovalFilter{Status: &bogus})
	assert.Error(t, err)
}

func TestApprovalService_Get(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ap := f.pendingApproval(t)

	detail, err := f.service.Get(ctx, "user-lead", ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.ID, detail.ID)
	assert.Equal(t, attendance.TypeClockIn, detail.Type)

	_, err = f.service.Get(ctx, "user-outsider", ap.ID)
	assert.ErrorIs(t, err, approval.ErrNotPersonInCharge)

	_, err = f.service.Get(ctx, "user-lead", "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b")
	assert.ErrorIs(t, err, approval.ErrApprovalNotFound)
}

func TestApprovalService_ConcurrentDecisionsOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ap := f.pendingApproval(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []approval.Status
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var (
				resp approval.ApprovalResponse
				err  error
			)
			if i%2 == 0 {
				resp, err = f.service.Reject(ctx, decision(ap.ID, "user-lead", "no"))
			} else {
				resp, err = f.service.Approve(ctx, decision(ap.ID, "user-lead", "ok"))
			}
			if err == nil {
				mu.Lock()
				wins = append(wins, resp.Status)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	// Approved is terminal; a rejection can be followed by at most one approval.
	require.NotEmpty(t, wins)
	assert.LessOrEqual(t, len(wins), 2)
	if len(wins) == 2 {
		assert.ElementsMatch(t, []approval.Status{approval.StatusRejected, approval.StatusApproved}, wins)
	}
}

func TestApprovalService_NonPICCannotTellMissingFromExisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ap := f.pendingApproval(t)
	missing := "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"

	for _, id := range []string{ap.ID, missing} {
		_, err := f.service.Get(ctx, "user-staff", id)
		assert.ErrorIs(t, err, approval.ErrNotPersonInCharge, id)

		_, err = f.service.GetEvidence(ctx, "user-staff", id)
		assert.ErrorIs(t, err, approval.ErrNotPersonInCharge, id)

		_, err = f.service.Approve(ctx, decision(id, "user-staff", "ok"))
		assert.ErrorIs(t, err, approval.ErrApprovalNotActionable, id)
	}
}

func TestApprovalService_GetEvidence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := f.clock.Now()
	out := in.Add(8 * time.Hour)
	inPhoto, outPhoto, remark := "attendance/in.jpg", "attendance/out.jpg", "done"

	var clockInID, clockOutID string
	err := f.store.WithinTransaction(ctx, func(txCtx context.Context) error {
		att, err := f.store.Attendances().Create(txCtx, attendance.Attendance{
			EmployeeID:   f.staff.ID,
			WorkDate:     clock.Today(f.clock),
			ClockIn:      &in,
			ClockInPhoto: &inPhoto,
			CreatedAt:    in,
		})
		if err != nil {
			return err
		}
		apIn, err := f.service.Create(txCtx, att.ID, attendance.TypeClockIn)
		if err != nil {
			return err
		}

		att.ClockOut = &out
		att.ClockOutPhoto = &outPhoto
		att.ClockOutRemark = &remark
		att.UpdatedAt = out
		if _, err := f.store.Attendances().UpdateClockOut(txCtx, att); err != nil {
			return err
		}
		apOut, err := f.service.Create(txCtx, att.ID, attendance.TypeClockOut)
		if err != nil {
			return err
		}

		clockInID, clockOutID = apIn.ID, apOut.ID
		return nil
	})
	require.NoError(t, err)

	key, err := f.service.GetEvidence(ctx, "user-lead", clockInID)
	require.NoError(t, err)
	assert.Equal(t, inPhoto, key)

	key, err = f.service.GetEvidence(ctx, "user-lead", clockOutID)
	require.NoError(t, err)
	assert.Equal(t, outPhoto, key)

	_, err = f.service.GetEvidence(ctx, "user-outsider", clockInID)
	assert.ErrorIs(t, err, approval.ErrNotPersonInCharge)
}

func TestApprovalService_GetEvidence_NoPhotoRecorded(t *testing.T) {
	f := newFixture(t)
	ap := f.pendingApproval(t)

	_, err := f.service.GetEvidence(context.Background(), "user-lead", ap.ID)
	assert.ErrorIs(t, err, approval.ErrEvidenceNotFound)
}
