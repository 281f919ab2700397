package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockContactService implements services.ContactService for handler tests.
type mockContactService struct {
	err         error
	lastSubject string
	lastMessage string
}

func (m *mockContactService) Send(ctx context.Context, userID uuid.UUID, subject, message string) error {
	m.lastSubject = subject
	m.lastMessage = message
	return m.err
}

func TestContactHandler_Send(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		svc := &mockContactService{}
		h := NewContactHandler(svc, zap.NewNop())

		body, _ := json.Marshal(ContactRequest{Subject: "Broken pagination", Message: "Page three is empty."})
		rec := httptest.NewRecorder()
		h.Send(rec, authedRequest(http.MethodPost, "/api/contact", body))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "Broken pagination", svc.lastSubject)
		assert.Equal(t, "Page three is empty.", svc.lastMessage)
	})

	t.Run("blank subject rejected", func(t *testing.T) {
		h := NewContactHandler(&mockContactService{}, zap.NewNop())

		body, _ := json.Marshal(ContactRequest{Subject: " ", Message: "hello"})
		rec := httptest.NewRecorder()
		h.Send(rec, authedRequest(http.MethodPost, "/api/contact", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := NewContactHandler(&mockContactService{}, zap.NewNop())

		rec := httptest.NewRecorder()
		h.Send(rec, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
