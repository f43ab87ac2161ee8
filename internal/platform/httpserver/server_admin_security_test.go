package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	nominationservice "accolade/contexts/award-lifecycle/nomination-service"
	syncdispatcher "accolade/contexts/award-lifecycle/sync-dispatcher"
	voteledger "accolade/contexts/award-lifecycle/vote-ledger"
	adminsession "accolade/contexts/identity-access/admin-session-service"
	sessionhttp "accolade/contexts/identity-access/admin-session-service/transport/http"
	"accolade/internal/platform/crm"
)

func newTestServer() *Server {
	collaborator := crm.NewCollaborator()
	sessions := adminsession.NewModule(adminsession.Dependencies{
		APIKey:     "test-api-key",
		SigningKey: []byte("test-signing-secret"),
		SessionTTL: time.Hour,
	})
	return New(
		nominationservice.NewInMemoryModule(nil),
		voteledger.NewInMemoryModule(nil),
		syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil),
		sessions,
		nil,
		":0",
	)
}

func adminToken(t *testing.T, server *Server) string {
	t.Helper()
	body, _ := json.Marshal(sessionhttp.CreateSessionRequest{APIKey: "test-api-key"})
	req := httptest.NewRequest(http.MethodPost, "/api/awards/v1/admin/sessions", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("session issue failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp sessionhttp.SessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	return resp.Token
}

func TestAdminEndpointsRequireBearerToken(t *testing.T) {
	server := newTestServer()
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/awards/v1/admin/nominations"},
		{http.MethodPost, "/api/awards/v1/admin/nominations/nom-1/approve"},
		{http.MethodPost, "/api/awards/v1/admin/nominations/nom-1/reject"},
		{http.MethodPut, "/api/awards/v1/admin/nominations/nom-1/additional-votes"},
		{http.MethodPost, "/api/awards/v1/admin/nominations/nom-1/state"},
		{http.MethodGet, "/api/awards/v1/admin/subcategories/subcat-1/tally"},
		{http.MethodGet, "/api/awards/v1/admin/nominations/nom-1/tally"},
		{http.MethodGet, "/api/awards/v1/admin/outbox/health"},
		{http.MethodGet, "/api/awards/v1/admin/outbox/dead"},
	}
	for _, route := range paths {
		req := httptest.NewRequest(route.method, route.path, bytes.NewReader([]byte(`{}`)))
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d body=%s", route.method, route.path, rr.Code, rr.Body.String())
		}
	}
}

func TestAdminEndpointsRejectGarbageToken(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/awards/v1/admin/outbox/health", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminEndpointsAcceptIssuedSession(t *testing.T) {
	server := newTestServer()
	token := adminToken(t, server)

	req := httptest.NewRequest(http.MethodGet, "/api/awards/v1/admin/outbox/health", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPublicEndpointsNeedNoSession(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/awards/v1/subcategories/subcat-1/leaderboard", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubmitNominationOverHTTP(t *testing.T) {
	server := newTestServer()
	body := []byte(`{
		"nominator": {"email": "nominator@example.com", "display_name": "Nora Minator"},
		"nominee": {
			"kind": "person",
			"display_name": "Jane Doe",
			"contact_email": "jane@example.com",
			"asset_url": "https://cdn.example.com/jane.jpg",
			"pitch": "Shipped the impossible."
		},
		"category": {"category_group_id": "group-1", "subcategory_id": "subcat-1"}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/awards/v1/nominations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	token := adminToken(t, server)
	listReq := httptest.NewRequest(http.MethodGet, "/api/awards/v1/admin/nominations?state=submitted", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listRR := httptest.NewRecorder()
	server.mux.ServeHTTP(listRR, listReq)
	if listRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", listRR.Code, listRR.Body.String())
	}
}
