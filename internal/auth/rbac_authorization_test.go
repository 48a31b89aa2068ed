package auth

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/deevseek/washcorner/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type stubAuthorizer struct {
	grants map[string][]string
	calls  int
}

func (s *stubAuthorizer) Authorize(ctx context.Context, role, permission string) bool {
	s.calls++
	for _, p := range s.grants[role] {
		if p == permission {
			return true
		}
	}
	return false
}

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		authorizer *stubAuthorizer
		rbac       *RBACAuthorization
		ok         http.Handler
	)

	serve := func(h http.Handler, actor *internal.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/roles", nil)
		if actor != nil {
			req = req.WithContext(internal.ContextWithActor(req.Context(), actor))
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	ginkgo.BeforeEach(func() {
		authorizer = &stubAuthorizer{grants: map[string][]string{
			"admin":   {"roles.view", "customers.view"},
			"manager": {"roles.view", "customers.view"},
			"kasir":   {"customers.view"},
		}}
		rbac = NewRBACAuthorization(authorizer, discardLogger())
		ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	})

	ginkgo.It("answers 401 without an actor", func() {
		w := serve(rbac.Require("customers.view")(ok), nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(authorizer.calls).To(gomega.BeZero())
	})

	ginkgo.It("answers 403 when the role lacks the permission", func() {
		w := serve(rbac.Require("roles.view")(ok), &internal.Actor{UserID: 5, Role: "kasir"})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("PERMISSION_DENIED"))
	})

	ginkgo.It("passes through when the role holds the permission", func() {
		w := serve(rbac.Require("customers.view")(ok), &internal.Actor{UserID: 5, Role: "kasir"})
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("requires both gates for admin-only management routes", func() {
		stacked := rbac.Require("roles.view")(rbac.RequireAdmin()(ok))

		gomega.Expect(serve(stacked, &internal.Actor{Role: "manager"}).Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(serve(stacked, &internal.Actor{Role: "admin"}).Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("denies admin when the fine-grained gate denies", func() {
		stacked := rbac.Require("users.delete")(rbac.RequireAdmin()(ok))
		gomega.Expect(serve(stacked, &internal.Actor{Role: "admin"}).Code).To(gomega.Equal(http.StatusForbidden))
	})
})
