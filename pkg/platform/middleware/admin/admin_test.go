package admin_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"skibazar/pkg/platform/middleware/admin"
)

const adminToken = "secret-token"

func newGatedHandler() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return admin.RequireAdminToken(adminToken, logger)(next)
}

func TestRequireAdminToken(t *testing.T) {
	cases := []struct {
		name       string
		token      string
		setHeader  bool
		wantStatus int
	}{
		{name: "missing header", setHeader: false, wantStatus: http.StatusForbidden},
		{name: "empty token", token: "", setHeader: true, wantStatus: http.StatusForbidden},
		{name: "wrong token", token: "not-the-secret", setHeader: true, wantStatus: http.StatusForbidden},
		{name: "token with suffix", token: adminToken + "x", setHeader: true, wantStatus: http.StatusForbidden},
		{name: "exact token", token: adminToken, setHeader: true, wantStatus: http.StatusOK},
	}

	handler := newGatedHandler()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/registrations", nil)
			if tc.setHeader {
				req.Header.Set("X-Admin-Token", tc.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
