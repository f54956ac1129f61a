package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talentbridge/backend/internal/models"
)

// setupTestDB opens an isolated in-memory database with the production
// schema, including the partial unique index that enforces the
// one-pending-transaction rule.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lecture{},
		&models.Question{},
		&models.Transaction{},
		&models.CourseProgress{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	err = db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_single_pending " +
			"ON transactions (user_id, course_id) " +
			"WHERE status = 'pending' AND deleted_at IS NULL",
	).Error
	if err != nil {
		t.Fatalf("create pending index: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "irrelevant",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createCourse(t *testing.T, db *gorm.DB, priceMinor int) *models.Course {
	t.Helper()

	course := models.Course{
		ID:       uuid.New(),
		Title:    "Data Structures",
		Category: "engineering",
		Price:    priceMinor,
		Currency: "INR",
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return &course
}

// reloadUser fetches a fresh copy with the enrollment set preloaded.
func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()

	var user models.User
	if err := db.Preload("EnrolledCourses").First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &user
}

type mailCall struct {
	kind   string
	to     string
	reason string
}

type mockMailer struct {
	mu    sync.Mutex
	calls []mailCall
	err   error
}

func (m *mockMailer) record(call mailCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.err
}

func (m *mockMailer) SendPaymentSubmitted(userName, userEmail, courseTitle, utr string, amount int) error {
	return m.record(mailCall{kind: "submitted", to: userEmail})
}

func (m *mockMailer) SendAccessGranted(to, courseTitle string) error {
	return m.record(mailCall{kind: "granted", to: to})
}

func (m *mockMailer) SendPaymentDeclined(to, courseTitle, reason string) error {
	return m.record(mailCall{kind: "declined", to: to, reason: reason})
}

// waitForCall polls for an async dispatch of the given kind.
func (m *mockMailer) waitForCall(t *testing.T, kind string) mailCall {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		for _, call := range m.calls {
			if call.kind == kind {
				m.mu.Unlock()
				return call
			}
		}
		m.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no %q notification dispatched", kind)
	return mailCall{}
}

type mockGateway struct {
	orderID string
	err     error
	lastAmt int
}

func (g *mockGateway) CreateOrder(amount int, currency, receipt string, notes map[string]interface{}) (string, error) {
	g.lastAmt = amount
	if g.err != nil {
		return "", g.err
	}
	return g.orderID, nil
}
