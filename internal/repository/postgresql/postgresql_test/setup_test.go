package postgresql_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase migrates and connects to TEST_DATABASE_URL.
func NewTestDatabase(ctx context.Context, dsn string) (*TestDatabaseSetup, error) {
	if err := database.RunMigrations(dsn, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes every row the tests may have written.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendance_approvals",
		"attendances",
		"employee_person_in_charges",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

var testDB *TestDatabaseSetup

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		// integration tests skip themselves through requireDB
		os.Exit(m.Run())
	}

	setup, err := NewTestDatabase(context.Background(), dsn)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testDB = setup

	code := m.Run()
	setup.Close()
	os.Exit(code)
}

// requireDB skips the test without TEST_DATABASE_URL and starts it from empty tables.
func requireDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	require.NoError(t, testDB.TruncateAllTables(context.Background()))
	return testDB.DB
}

type testEmployee struct {
	ID          string
	UserID      string
	WorkingHour string
	IsPIC       bool
}

func insertEmployee(t *testing.T, db *database.DB, userID, workingHour string, isPIC bool) testEmployee {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), `
		INSERT INTO employees (id, user_id, full_name, email, working_hour, is_active, is_pic)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
	`, id.String(), userID, "Employee "+userID, userID+"@example.com", workingHour, isPIC)
	require.NoError(t, err)

	return testEmployee{ID: id.String(), UserID: userID, WorkingHour: workingHour, IsPIC: isPIC}
}

func linkPIC(t *testing.T, db *database.DB, employeeID, picEmployeeID string) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO employee_person_in_charges (employee_id, pic_employee_id) VALUES ($1, $2)
	`, employeeID, picEmployeeID)
	require.NoError(t, err)
}
