package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bellenoire/salon-api/internal/audit"
	dbpkg "github.com/bellenoire/salon-api/internal/db"
	"github.com/bellenoire/salon-api/internal/infra/repository"
	"github.com/bellenoire/salon-api/internal/middleware"
	"github.com/bellenoire/salon-api/internal/models"
	"github.com/bellenoire/salon-api/internal/notify"
	"github.com/bellenoire/salon-api/internal/usecase/pos"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

// asStaff stands in for the auth middleware on test routers.
func asStaff(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, middleware.RoleWorker)
		c.Next()
	}
}

func TestProcessPaymentRespondsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)

	user := models.User{
		Name:         "Awa Mbemba",
		Email:        uuid.NewString() + "@example.cd",
		PasswordHash: "x",
		Role:         "client",
	}
	require.NoError(t, db.Create(&user).Error)
	profile := models.ClientProfile{UserID: user.ID, ReferralCode: uuid.NewString()}
	require.NoError(t, db.Create(&profile).Error)

	service := models.Service{
		Name:   "Tresses Box Braids",
		Price:  decimal.NewFromInt(8000),
		Active: true,
	}
	require.NoError(t, db.Create(&service).Error)

	tax, err := decimal.NewFromString("1.60")
	require.NoError(t, err)

	settle := pos.NewSettle(
		repository.NewSaleGormRepository(db),
		notify.NewDispatcher(db, zerolog.Nop()),
		tax,
		"BN",
		time.UTC,
	)
	h := NewPaymentHandler(settle, audit.NewDispatcher(audit.New(db), zerolog.Nop()))

	r := gin.New()
	r.POST("/api/payments/process", asStaff(42), h.Process)

	body := fmt.Sprintf(
		`{"client_id":%d,"items":[{"service_id":%d,"quantity":1,"price":"8000"}],"payment_method":"cash"}`,
		profile.ID, service.ID,
	)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"receipt_number"`)
}

func TestProcessPaymentBadBodyRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testDB(t)

	tax := decimal.NewFromInt(0)
	settle := pos.NewSettle(
		repository.NewSaleGormRepository(db),
		notify.NewDispatcher(db, zerolog.Nop()),
		tax,
		"BN",
		time.UTC,
	)
	h := NewPaymentHandler(settle, audit.NewDispatcher(audit.New(db), zerolog.Nop()))

	r := gin.New()
	r.POST("/api/payments/process", asStaff(42), h.Process)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/process", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
