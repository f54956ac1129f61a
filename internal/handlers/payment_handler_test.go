package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talentbridge/backend/internal/helpers"
	"github.com/talentbridge/backend/internal/middleware"
	"github.com/talentbridge/backend/internal/models"
)

const testJWTSecret = "test-jwt-secret"

type stubMailer struct{}

func (stubMailer) SendPaymentSubmitted(userName, userEmail, courseTitle, utr string, amount int) error {
	return nil
}
func (stubMailer) SendAccessGranted(to, courseTitle string) error      { return nil }
func (stubMailer) SendPaymentDeclined(to, courseTitle, reason string) error { return nil }

type stubGateway struct {
	orderID string
}

func (g stubGateway) CreateOrder(amount int, currency, receipt string, notes map[string]interface{}) (string, error) {
	return g.orderID, nil
}

// newTestRouter wires the production middleware chain and routes onto an
// isolated in-memory database.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.GatewayMiddleware(stubGateway{orderID: "order_test"}))
	r.Use(middleware.MailerMiddleware(stubMailer{}))

	public := r.Group("/v1")
	coursePublic := public.Group("/courses")
	coursePublic.Use(middleware.OptionalJWTAuthMiddleware())
	coursePublic.GET("", ListCourses)
	coursePublic.GET("/:id", GetCourse)

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	payments := protected.Group("/payments")
	payments.POST("/manual", SubmitManualPayment)
	payments.GET("/status", PaymentStatus)
	payments.POST("/order", CreateOrder)
	payments.POST("/verify", VerifyPayment)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.POST("/transactions/:id/approve", ApproveTransaction)
	admin.POST("/transactions/:id/decline", DeclineTransaction)
	admin.GET("/transactions", ListTransactions)

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "irrelevant",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedCourse(t *testing.T, db *gorm.DB, priceMinor int) *models.Course {
	t.Helper()
	course := models.Course{
		ID:       uuid.New(),
		Title:    "Data Structures",
		Category: "engineering",
		Price:    priceMinor,
		Currency: "INR",
		Lectures: []models.Lecture{
			{Title: "Introduction", VideoURL: "https://videos.example.com/intro.mp4", IsPreview: true, Position: 1},
			{Title: "Linked Lists", VideoURL: "https://videos.example.com/lists.mp4", NotesURL: "https://notes.example.com/lists.pdf", Position: 2},
		},
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return &course
}

func mintToken(t *testing.T, user *models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestGetCourseAccessGating(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db := newTestRouter(t)
	course := seedCourse(t, db, 49900)

	lectureByTitle := func(body map[string]interface{}, title string) map[string]interface{} {
		lectures := body["course"].(map[string]interface{})["lectures"].([]interface{})
		for _, raw := range lectures {
			lecture := raw.(map[string]interface{})
			if lecture["title"] == title {
				return lecture
			}
		}
		t.Fatalf("lecture %q not in response", title)
		return nil
	}

	t.Run("anonymous sees previews only", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/v1/courses/"+course.ID.String(), "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["has_access"] != false {
			t.Error("anonymous reported as having access")
		}
		if url, _ := lectureByTitle(body, "Introduction")["video_url"].(string); url == "" {
			t.Error("preview lecture was stripped")
		}
		if url, _ := lectureByTitle(body, "Linked Lists")["video_url"].(string); url != "" {
			t.Errorf("locked lecture leaked video url %q", url)
		}
	})

	t.Run("enrolled learner sees everything", func(t *testing.T) {
		learner := seedUser(t, db, models.RoleLearner)
		if err := db.Model(learner).Association("EnrolledCourses").Append(course); err != nil {
			t.Fatalf("enroll: %v", err)
		}

		w := doRequest(t, r, http.MethodGet, "/v1/courses/"+course.ID.String(), mintToken(t, learner), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["has_access"] != true {
			t.Error("enrolled learner reported as locked out")
		}
		if url, _ := lectureByTitle(body, "Linked Lists")["video_url"].(string); url == "" {
			t.Error("enrolled learner got a stripped lecture")
		}
	})

	t.Run("unknown course is a 404", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/v1/courses/"+uuid.NewString(), "", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestManualPaymentEndpoint(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db := newTestRouter(t)
	course := seedCourse(t, db, 49900)
	learner := seedUser(t, db, models.RoleLearner)
	token := mintToken(t, learner)

	payload := gin.H{"course_id": course.ID, "utr": "UTR123", "amount": "499"}

	t.Run("requires authentication", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/v1/payments/manual", "", payload)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("first submission is accepted as pending", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/v1/payments/manual", token, payload)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if body := decodeBody(t, w); body["status"] != models.TransactionPending {
			t.Errorf("status field = %v, want pending", body["status"])
		}
	})

	t.Run("duplicate while pending maps to 409", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/v1/payments/manual", token, payload)
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("status endpoint reflects the pending attempt", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/v1/payments/status?course_id="+course.ID.String(), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if body := decodeBody(t, w); body["status"] != models.TransactionPending {
			t.Errorf("status field = %v, want pending", body["status"])
		}
	})

	t.Run("status is null with no attempts", func(t *testing.T) {
		other := seedCourse(t, db, 49900)
		w := doRequest(t, r, http.MethodGet, "/v1/payments/status?course_id="+other.ID.String(), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if body := decodeBody(t, w); body["status"] != nil {
			t.Errorf("status field = %v, want null", body["status"])
		}
	})
}

func TestAdminTransactionEndpoints(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db := newTestRouter(t)
	course := seedCourse(t, db, 49900)
	learner := seedUser(t, db, models.RoleLearner)
	admin := seedUser(t, db, models.RoleAdmin)

	submit := func(t *testing.T, user *models.User, c *models.Course) string {
		t.Helper()
		w := doRequest(t, r, http.MethodPost, "/v1/payments/manual", mintToken(t, user),
			gin.H{"course_id": c.ID, "utr": "UTR123", "amount": "499"})
		if w.Code != http.StatusOK {
			t.Fatalf("submit status = %d, body %s", w.Code, w.Body.String())
		}
		return decodeBody(t, w)["transaction_id"].(string)
	}

	t.Run("learner token is rejected at the group boundary", func(t *testing.T) {
		transactionID := submit(t, learner, course)
		w := doRequest(t, r, http.MethodPost, "/v1/admin/transactions/"+transactionID+"/approve", mintToken(t, learner), nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}

		w = doRequest(t, r, http.MethodPost, "/v1/admin/transactions/"+transactionID+"/decline", mintToken(t, admin), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("cleanup decline status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("approve flips status and repeats conflict", func(t *testing.T) {
		transactionID := submit(t, learner, course)

		w := doRequest(t, r, http.MethodPost, "/v1/admin/transactions/"+transactionID+"/approve", mintToken(t, admin), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if body := decodeBody(t, w); body["status"] != models.TransactionSuccess {
			t.Errorf("status field = %v, want success", body["status"])
		}

		w = doRequest(t, r, http.MethodPost, "/v1/admin/transactions/"+transactionID+"/approve", mintToken(t, admin), nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("repeat approve status = %d, want 409", w.Code)
		}
	})

	t.Run("decline accepts an empty body", func(t *testing.T) {
		otherLearner := seedUser(t, db, models.RoleLearner)
		transactionID := submit(t, otherLearner, course)

		w := doRequest(t, r, http.MethodPost, "/v1/admin/transactions/"+transactionID+"/decline", mintToken(t, admin), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if body := decodeBody(t, w); body["status"] != models.TransactionFailed {
			t.Errorf("status field = %v, want failed", body["status"])
		}
	})

	t.Run("ledger listing is admin-only", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/v1/admin/transactions", mintToken(t, learner), nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("learner listing status = %d, want 403", w.Code)
		}

		w = doRequest(t, r, http.MethodGet, "/v1/admin/transactions", mintToken(t, admin), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("admin listing status = %d, body %s", w.Code, w.Body.String())
		}
	})
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("RAZORPAY_KEY_SECRET", "test_key_secret")
	r, db := newTestRouter(t)
	course := seedCourse(t, db, 49900)
	learner := seedUser(t, db, models.RoleLearner)
	token := mintToken(t, learner)

	orderID, paymentID := "order_test", "pay_test"
	signature := helpers.ComputeGatewaySignature(orderID, paymentID, "test_key_secret")

	t.Run("tampered signature maps to 400", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/v1/payments/verify", token, gin.H{
			"course_id":  course.ID,
			"order_id":   orderID,
			"payment_id": paymentID,
			"signature":  "deadbeef" + signature[8:],
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("valid signature verifies and enrolls", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/v1/payments/verify", token, gin.H{
			"course_id":  course.ID,
			"order_id":   orderID,
			"payment_id": paymentID,
			"signature":  signature,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if body := decodeBody(t, w); body["success"] != true {
			t.Errorf("success field = %v", body["success"])
		}

		var enrolled models.User
		if err := db.Preload("EnrolledCourses").First(&enrolled, "id = ?", learner.ID).Error; err != nil {
			t.Fatalf("reload learner: %v", err)
		}
		if !enrolled.IsEnrolled(course.ID) {
			t.Error("learner not enrolled after verified payment")
		}
	})

	t.Run("gateway order uses the stored price", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/v1/payments/order", token, gin.H{"course_id": course.ID})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["order_id"] != "order_test" {
			t.Errorf("order_id = %v", body["order_id"])
		}
		if body["amount"] != float64(49900) {
			t.Errorf("amount = %v, want 49900", body["amount"])
		}
	})
}
