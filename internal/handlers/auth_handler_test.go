package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "gagyebu/internal/errors"
	"gagyebu/internal/middleware"
	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
	"gagyebu/internal/services"
	"gagyebu/internal/validator"
)

// --- mock services ---

type mockAuthService struct {
	enabled          bool
	verifyPasswordFn func(password string) error
}

func (m *mockAuthService) Enabled() bool { return m.enabled }

func (m *mockAuthService) VerifyOwnerPassword(password string) error {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(password)
	}
	return nil
}

var _ services.AuthServicer = (*mockAuthService)(nil)

type auditEntry struct {
	action     string
	resourceID string
	changes    map[string]interface{}
}

type mockAuditService struct {
	entries   []auditEntry
	historyFn func(page pagination.PageRequest, filter services.AuditFilter) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Log(action, _, resourceID, _ string, changes map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{action: action, resourceID: resourceID, changes: changes})
}

func (m *mockAuditService) History(page pagination.PageRequest, filter services.AuditFilter) (*pagination.PageResponse[models.AuditLog], error) {
	if m.historyFn != nil {
		return m.historyFn(page, filter)
	}
	result := pagination.NewPageResponse[models.AuditLog](nil, 1, 20, 0)
	return &result, nil
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

const (
	testID      = "01890a5d-ac96-774b-bcce-b302099a8057"
	otherTestID = "01890a5d-ac96-774b-bcce-b302099a8058"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// newTestRouter mounts ErrorHandler the way RegisterRoutes does, so handler
// errors render as JSON.
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token on correct password", func(t *testing.T) {
		var gotPassword string
		handler := NewAuthHandler(&mockAuthService{
			enabled: true,
			verifyPasswordFn: func(password string) error {
				gotPassword = password
				return nil
			},
		})
		r := newTestRouter()
		r.POST("/auth/login", handler.Login)

		rec := doRequest(r, "POST", "/auth/login", `{"password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPassword != "password123" {
			t.Errorf("expected password to reach the service, got %q", gotPassword)
		}
		result := parseJSON(t, rec)
		token, ok := result["token"].(string)
		if !ok || token == "" {
			t.Fatalf("expected token, got %v", result)
		}
		claims, err := middleware.ParseToken(token)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.Subject != middleware.OwnerSubject {
			t.Errorf("expected owner subject, got %q", claims.Subject)
		}
		if _, ok := result["expires_at"].(string); !ok {
			t.Errorf("expected expires_at, got %v", result["expires_at"])
		}
	})

	t.Run("returns 401 on wrong password", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{
			enabled: true,
			verifyPasswordFn: func(string) error {
				return apperrors.ErrInvalidCredentials
			},
		})
		r := newTestRouter()
		r.POST("/auth/login", handler.Login)

		rec := doRequest(r, "POST", "/auth/login", `{"password":"nope"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		handler := NewAuthHandler(&mockAuthService{enabled: true})
		r := newTestRouter()
		r.POST("/auth/login", handler.Login)

		rec := doRequest(r, "POST", "/auth/login", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"precondition", apperrors.ErrMonthAlreadyClosed, http.StatusConflict, "MONTH_ALREADY_CLOSED"},
		{"configuration", apperrors.ErrInvalidExchangeRate, http.StatusUnprocessableEntity, "INVALID_EXCHANGE_RATE"},
		{"integrity", apperrors.Wrap(apperrors.ErrClosingWriteFailed, http.ErrHandlerTimeout), http.StatusInternalServerError, "CLOSING_WRITE_FAILED"},
		{"unexpected", http.ErrHandlerTimeout, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recorded error
			r := newTestRouter()
			r.GET("/", func(c *gin.Context) {
				respondWithError(c, tt.err)
				if len(c.Errors) > 0 {
					recorded = c.Errors.Last().Err
				}
			})

			rec := doRequest(r, "GET", "/", "")

			if recorded != tt.err {
				t.Errorf("expected the error to be recorded on the context, got %v", recorded)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), tt.code)
		})
	}
}
