package software_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/access-request/internal/software"
	softwarePostgres "github.com/frahmantamala/access-request/internal/software/postgres"
	"github.com/frahmantamala/access-request/internal/testutil"
	"github.com/frahmantamala/access-request/internal/transport"
	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Software Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(GinkgoWriter, &slog.HandlerOptions{Level: slog.LevelError}))
		db := testutil.OpenInMemoryDB(GinkgoT())
		service := software.NewService(softwarePostgres.NewSoftwareRepository(db), &mockRequestCounter{}, slogger)
		handler := software.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/software", handler.List)
		router.Post("/software", handler.Create)
		router.Get("/software/{id}", handler.Get)
		router.Patch("/software/{id}", handler.Update)
		router.Delete("/software/{id}", handler.Delete)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("creates, reads, patches and deletes a title", func() {
		w := do(http.MethodPost, "/software", `{"name":"Editor","version":"1.0","description":"Text editor"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created["isActive"]).To(BeTrue())
		Expect(created).To(HaveKey("createdAt"))

		w = do(http.MethodPatch, "/software/1", `{"isActive":false}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/software/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var fetched software.Software
		Expect(json.Unmarshal(w.Body.Bytes(), &fetched)).To(Succeed())
		Expect(fetched.IsActive).To(BeFalse())
		Expect(fetched.Version).To(Equal("1.0"))

		w = do(http.MethodDelete, "/software/1", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Body.Len()).To(BeZero())

		Expect(do(http.MethodGet, "/software/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("returns an empty array, not null, for an empty catalog", func() {
		w := do(http.MethodGet, "/software", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("[]"))
	})

	It("rejects a duplicate name with 400", func() {
		Expect(do(http.MethodPost, "/software", `{"name":"Editor","version":"1"}`).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPost, "/software", `{"name":"Editor","version":"2"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Software name already exists"))
	})

	It("rejects non-numeric ids with 400", func() {
		Expect(do(http.MethodGet, "/software/abc", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 when patching or deleting a missing title", func() {
		Expect(do(http.MethodPatch, "/software/77", `{"version":"2"}`).Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/software/77", "").Code).To(Equal(http.StatusNotFound))
	})
})
