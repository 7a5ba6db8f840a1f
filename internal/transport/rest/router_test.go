package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/auth"
	"github.com/frahmantamala/access-request/internal/testutil"
	"github.com/frahmantamala/access-request/internal/transport/rest"
	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type apiResponse struct {
	Code   int
	Body   []byte
	Header http.Header
}

func (r apiResponse) JSON() map[string]interface{} {
	var out map[string]interface{}
	ExpectWithOffset(1, json.Unmarshal(r.Body, &out)).To(Succeed(), string(r.Body))
	return out
}

func (r apiResponse) List() []map[string]interface{} {
	var out []map[string]interface{}
	ExpectWithOffset(1, json.Unmarshal(r.Body, &out)).To(Succeed(), string(r.Body))
	return out
}

var _ = Describe("Router", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		cfg    *internal.Config
	)

	call := func(method, path, token string, body interface{}) apiResponse {
		var reader *bytes.Reader
		switch b := body.(type) {
		case nil:
			reader = bytes.NewReader(nil)
		case string:
			reader = bytes.NewReader([]byte(b))
		default:
			raw, err := json.Marshal(b)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		}

		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return apiResponse{Code: w.Code, Body: w.Body.Bytes(), Header: w.Header()}
	}

	register := func(username, password, role string) string {
		resp := call(http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": username, "password": password, "role": role,
		})
		ExpectWithOffset(1, resp.Code).To(Equal(http.StatusCreated), string(resp.Body))
		return resp.JSON()["token"].(string)
	}

	countRows := func(table string) int64 {
		var n int64
		Expect(db.Table(table).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		db = testutil.OpenInMemoryDB(GinkgoT())
		cfg = &internal.Config{
			Server:   internal.ServerConfig{AllowedOrigins: "http://localhost:3000", MaxBodyBytes: 4 << 10},
			Database: internal.DatabaseConfig{Driver: internal.DriverSQLite},
			Security: internal.SecurityConfig{
				JWTSecret:           testutil.TestSecret,
				JWTIssuer:           "access-request",
				AccessTokenDuration: time.Hour,
				BCryptCost:          bcrypt.MinCost,
			},
		}
		slogger := slog.New(slog.NewTextHandler(GinkgoWriter, &slog.HandlerOptions{Level: slog.LevelError}))

		handlers, err := rest.NewHandlers(db, cfg, slogger)
		Expect(err).NotTo(HaveOccurred())
		router = rest.NewRouter(handlers)
	})

	Describe("registration", func() {
		It("issues a token, then rejects the same username", func() {
			resp := call(http.MethodPost, "/api/auth/register", "", `{"username":"alice","password":"pw1","role":"Employee"}`)
			Expect(resp.Code).To(Equal(http.StatusCreated))
			body := resp.JSON()
			Expect(body["token"]).NotTo(BeEmpty())
			Expect(body["user"]).To(HaveKeyWithValue("role", "Employee"))

			resp = call(http.MethodPost, "/api/auth/register", "", `{"username":"alice","password":"pw2"}`)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.JSON()).To(HaveKeyWithValue("message", "Username already exists"))

			Expect(countRows("users")).To(BeEquivalentTo(1))
		})

		It("defaults the role to Employee", func() {
			resp := call(http.MethodPost, "/api/auth/register", "", `{"username":"bob","password":"pw"}`)
			Expect(resp.Code).To(Equal(http.StatusCreated))
			Expect(resp.JSON()["user"]).To(HaveKeyWithValue("role", "Employee"))
		})

		It("refuses bodies over the size limit", func() {
			huge := fmt.Sprintf(`{"username":"%s","password":"pw"}`, strings.Repeat("a", 8<<10))
			resp := call(http.MethodPost, "/api/auth/register", "", huge)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.JSON()).To(HaveKeyWithValue("code", "INVALID_BODY"))
			Expect(countRows("users")).To(BeZero())
		})

		It("rejects bodies that do not match the API document", func() {
			resp := call(http.MethodPost, "/api/auth/register", "", `{"username":"bob"}`)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.JSON()).To(HaveKeyWithValue("code", "VALIDATION_FAILED"))
			Expect(countRows("users")).To(BeZero())
		})

		It("rejects malformed JSON", func() {
			resp := call(http.MethodPost, "/api/auth/register", "", `{"username":`)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.JSON()).To(HaveKey("status"))
		})
	})

	Describe("login", func() {
		It("embeds the stored role in the token", func() {
			register("mona", "secret", "Manager")

			resp := call(http.MethodPost, "/api/auth/login", "", `{"username":"mona","password":"secret"}`)
			Expect(resp.Code).To(Equal(http.StatusOK))
			token := resp.JSON()["token"].(string)

			claims, err := auth.NewJWTTokenGenerator(testutil.TestSecret, "access-request", time.Hour).ValidateToken(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(claims.Role)).To(Equal("Manager"))
			Expect(claims.Username).To(Equal("mona"))
		})

		It("answers 401 for a wrong password", func() {
			register("mona", "secret", "Manager")

			resp := call(http.MethodPost, "/api/auth/login", "", `{"username":"mona","password":"nope"}`)
			Expect(resp.Code).To(Equal(http.StatusUnauthorized))
			Expect(resp.JSON()).To(HaveKeyWithValue("message", "Invalid credentials"))
		})
	})

	Describe("the review workflow", func() {
		var adminToken, managerToken, employeeToken string

		BeforeEach(func() {
			adminToken = register("root", "pw", "Admin")
			managerToken = register("boss", "pw", "Manager")
			employeeToken = register("alice", "pw1", "Employee")
		})

		It("takes a request from submission to approval", func() {
			resp := call(http.MethodPost, "/api/software", adminToken, `{"name":"Editor","version":"1.0"}`)
			Expect(resp.Code).To(Equal(http.StatusCreated))
			softwareID := resp.JSON()["id"]

			resp = call(http.MethodPost, "/api/requests", employeeToken, map[string]interface{}{
				"softwareId": softwareID, "reason": "writing docs",
			})
			Expect(resp.Code).To(Equal(http.StatusCreated))
			created := resp.JSON()
			Expect(created).To(HaveKeyWithValue("status", "Pending"))
			requestID := int64(created["id"].(float64))

			resp = call(http.MethodPatch, fmt.Sprintf("/api/requests/%d", requestID), managerToken, `{"status":"Approved"}`)
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.JSON()).To(HaveKeyWithValue("status", "Approved"))

			resp = call(http.MethodGet, "/api/requests/my", employeeToken, nil)
			Expect(resp.Code).To(Equal(http.StatusOK))
			mine := resp.List()
			Expect(mine).To(HaveLen(1))
			Expect(mine[0]).To(HaveKeyWithValue("status", "Approved"))
			Expect(mine[0]["software"]).To(HaveKeyWithValue("name", "Editor"))
			Expect(mine[0]["user"]).To(HaveKeyWithValue("username", "alice"))
		})

		It("refuses to re-review a decided request", func() {
			resp := call(http.MethodPost, "/api/software", adminToken, `{"name":"Editor","version":"1.0"}`)
			softwareID := resp.JSON()["id"]
			resp = call(http.MethodPost, "/api/requests", employeeToken, map[string]interface{}{"softwareId": softwareID})
			requestID := int64(resp.JSON()["id"].(float64))

			resp = call(http.MethodPut, fmt.Sprintf("/api/requests/%d/reject", requestID), managerToken, nil)
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.JSON()).To(HaveKeyWithValue("status", "Rejected"))

			resp = call(http.MethodPut, fmt.Sprintf("/api/requests/%d/approve", requestID), managerToken, nil)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))

			resp = call(http.MethodGet, "/api/requests", managerToken, nil)
			Expect(resp.List()[0]).To(HaveKeyWithValue("status", "Rejected"))
		})

		It("rejects an unknown status and leaves the request pending", func() {
			resp := call(http.MethodPost, "/api/software", adminToken, `{"name":"Editor","version":"1.0"}`)
			softwareID := resp.JSON()["id"]
			resp = call(http.MethodPost, "/api/requests", employeeToken, map[string]interface{}{"softwareId": softwareID})
			requestID := int64(resp.JSON()["id"].(float64))

			resp = call(http.MethodPatch, fmt.Sprintf("/api/requests/%d", requestID), managerToken, `{"status":"Maybe"}`)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.JSON()).To(HaveKeyWithValue("code", "INVALID_STATUS"))

			resp = call(http.MethodGet, "/api/requests/pending", managerToken, nil)
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.List()).To(HaveLen(1))
		})

		It("answers 404 for unknown software and inserts nothing", func() {
			resp := call(http.MethodPost, "/api/requests", employeeToken, `{"softwareId":999}`)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
			Expect(countRows("requests")).To(BeZero())
		})

		It("only lists the caller's own requests", func() {
			otherToken := register("carol", "pw", "Employee")
			resp := call(http.MethodPost, "/api/software", adminToken, `{"name":"Editor","version":"1.0"}`)
			softwareID := resp.JSON()["id"]

			Expect(call(http.MethodPost, "/api/requests", employeeToken, map[string]interface{}{"softwareId": softwareID}).Code).To(Equal(http.StatusCreated))
			Expect(call(http.MethodPost, "/api/requests", otherToken, map[string]interface{}{"softwareId": softwareID}).Code).To(Equal(http.StatusCreated))

			mine := call(http.MethodGet, "/api/requests/my", otherToken, nil).List()
			Expect(mine).To(HaveLen(1))
			Expect(mine[0]["user"]).To(HaveKeyWithValue("username", "carol"))
		})

		It("keeps software that is referenced by a request", func() {
			resp := call(http.MethodPost, "/api/software", adminToken, `{"name":"Editor","version":"1.0"}`)
			softwareID := resp.JSON()["id"]
			call(http.MethodPost, "/api/requests", employeeToken, map[string]interface{}{"softwareId": softwareID})

			resp = call(http.MethodDelete, fmt.Sprintf("/api/software/%v", softwareID), adminToken, nil)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(countRows("software")).To(BeEquivalentTo(1))
		})

		DescribeTable("guards manager-only routes",
			func(tokenOf func() string, expected int) {
				for _, route := range []struct{ method, path string }{
					{http.MethodGet, "/api/requests"},
					{http.MethodGet, "/api/requests/pending"},
					{http.MethodPatch, "/api/requests/1"},
					{http.MethodPut, "/api/requests/1/approve"},
				} {
					resp := call(route.method, route.path, tokenOf(), `{"status":"Approved"}`)
					Expect(resp.Code).To(Equal(expected), route.method+" "+route.path)
				}
			},
			Entry("without a token", func() string { return "" }, http.StatusUnauthorized),
			Entry("with a garbage token", func() string { return "not-a-jwt" }, http.StatusUnauthorized),
			Entry("as an employee", func() string { return employeeToken }, http.StatusForbidden),
			Entry("as an admin", func() string { return adminToken }, http.StatusForbidden),
		)

		It("keeps the catalog admin-only", func() {
			resp := call(http.MethodPost, "/api/software", managerToken, `{"name":"Editor","version":"1.0"}`)
			Expect(resp.Code).To(Equal(http.StatusForbidden))
			Expect(countRows("software")).To(BeZero())
		})

		It("rejects the token of a user who no longer exists", func() {
			Expect(db.Exec("DELETE FROM users WHERE username = ?", "alice").Error).To(Succeed())

			resp := call(http.MethodGet, "/api/users/me", employeeToken, nil)
			Expect(resp.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns the current user profile", func() {
			resp := call(http.MethodGet, "/api/users/me", managerToken, nil)
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.JSON()).To(And(
				HaveKeyWithValue("username", "boss"),
				HaveKeyWithValue("role", "Manager"),
			))
		})
	})

	Describe("catalog", func() {
		It("answers 404 when deleting unknown software", func() {
			adminToken := register("root", "pw", "Admin")
			resp := call(http.MethodDelete, "/api/software/424242", adminToken, nil)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})

		It("returns identical listings without intervening writes", func() {
			adminToken := register("root", "pw", "Admin")
			call(http.MethodPost, "/api/software", adminToken, `{"name":"Editor","version":"1.0"}`)
			call(http.MethodPost, "/api/software", adminToken, `{"name":"Slack","version":"4.0"}`)

			first := call(http.MethodGet, "/api/software", "", nil)
			second := call(http.MethodGet, "/api/software", "", nil)
			Expect(first.Code).To(Equal(http.StatusOK))
			Expect(second.Body).To(Equal(first.Body))
			Expect(first.List()).To(HaveLen(2))
		})

		It("rejects a non-numeric id", func() {
			resp := call(http.MethodGet, "/api/software/abc", "", nil)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(resp.JSON()).To(HaveKeyWithValue("code", "INVALID_ID"))
		})
	})

	Describe("plumbing", func() {
		It("answers health and ping", func() {
			resp := call(http.MethodGet, "/api/ping", "", nil)
			Expect(resp.Code).To(Equal(http.StatusOK))

			resp = call(http.MethodGet, "/api/health", "", nil)
			Expect(resp.Code).To(Equal(http.StatusOK))
			body := resp.JSON()
			Expect(body).To(HaveKeyWithValue("status", "healthy"))
			Expect(body["components"]).To(HaveKey("sqlite"))
		})

		It("reports 503 when the database is gone", func() {
			sqlDB, err := db.DB()
			Expect(err).NotTo(HaveOccurred())
			Expect(sqlDB.Close()).To(Succeed())

			resp := call(http.MethodGet, "/api/health", "", nil)
			Expect(resp.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(resp.JSON()).To(HaveKeyWithValue("status", "unhealthy"))
		})

		It("serves the OpenAPI document", func() {
			resp := call(http.MethodGet, "/openapi.yml", "", nil)
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(string(resp.Body)).To(ContainSubstring("openapi: 3.0.3"))
		})

		It("serves Swagger UI", func() {
			resp := call(http.MethodGet, "/swagger/index.html", "", nil)
			Expect(resp.Code).To(Equal(http.StatusOK))
		})

		It("renders unknown routes as JSON 404", func() {
			resp := call(http.MethodGet, "/api/nope", "", nil)
			Expect(resp.Code).To(Equal(http.StatusNotFound))
			Expect(resp.JSON()).To(HaveKeyWithValue("message", "Not Found"))
		})

		It("echoes a caller supplied trace id", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			req.Header.Set("X-Trace-ID", "trace-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Header().Get("X-Trace-ID")).To(Equal("trace-123"))
		})

		It("answers CORS preflight for allowed origins", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/software", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		})
	})
})
