package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient_RequiresAppID(t *testing.T) {
	_, err := NewClient(Config{APIKey: "key"})
	if err == nil || err.Error() != "ONESIGNAL_APP_ID must be set" {
		t.Errorf("expected ONESIGNAL_APP_ID error, got %v", err)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{AppID: "app"})
	if err == nil || err.Error() != "ONESIGNAL_API_KEY must be set" {
		t.Errorf("expected ONESIGNAL_API_KEY error, got %v", err)
	}
}

func TestClient_Send(t *testing.T) {
	var got struct {
		AppID                  string            `json:"app_id"`
		Contents               map[string]string `json:"contents"`
		IncludeSubscriptionIDs []string          `json:"include_subscription_ids"`
		Name                   string            `json:"name"`
	}
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{AppID: "app-1", APIKey: "key-1", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	err = client.Send(context.Background(), Notification{
		Contents: map[string]string{
			"en": "A prescription is about to expire, open the app to review.",
			"fr": "Une ordonnance est sur le point d'expirer, ouvrez l'application pour la consulter.",
		},
		IncludeSubscriptionIDs: []string{"sub-a", "sub-b"},
		Name:                   "PRESCRIPTION EXPIRE SOON",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/notifications" {
		t.Errorf("expected POST /notifications, got %s", gotPath)
	}
	if gotAuth != "Basic key-1" {
		t.Errorf("expected Basic auth with API key, got %s", gotAuth)
	}
	if got.AppID != "app-1" {
		t.Errorf("expected app_id app-1, got %s", got.AppID)
	}
	if got.Name != "PRESCRIPTION EXPIRE SOON" {
		t.Errorf("expected name PRESCRIPTION EXPIRE SOON, got %s", got.Name)
	}
	if len(got.IncludeSubscriptionIDs) != 2 {
		t.Errorf("expected 2 subscription ids in one request, got %d", len(got.IncludeSubscriptionIDs))
	}
	if got.Contents["fr"] == "" || got.Contents["en"] == "" {
		t.Errorf("expected fr and en contents, got %v", got.Contents)
	}
}

func TestClient_SendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":["bad subscription"]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{AppID: "app", APIKey: "key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	err = client.Send(context.Background(), Notification{
		Contents:               map[string]string{"en": "hi"},
		IncludeSubscriptionIDs: []string{"sub-a"},
	})
	if err == nil {
		t.Error("expected error for 400 response")
	}
}

func TestMockSender_Records(t *testing.T) {
	mock := NewMockSender()

	n := Notification{Contents: map[string]string{"en": "hi"}, IncludeSubscriptionIDs: []string{"s1"}}
	if err := mock.Send(context.Background(), n); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if mock.SentCount() != 1 {
		t.Fatalf("expected 1 sent, got %d", mock.SentCount())
	}
	if mock.Sent[0].IncludeSubscriptionIDs[0] != "s1" {
		t.Errorf("expected s1 recorded, got %v", mock.Sent[0].IncludeSubscriptionIDs)
	}
}

func TestMockSender_Failure(t *testing.T) {
	mock := NewMockSender()
	mock.ShouldFail = true

	err := mock.Send(context.Background(), Notification{})
	if err == nil {
		t.Error("expected failure")
	}
	if mock.SentCount() != 0 {
		t.Errorf("expected nothing recorded on failure, got %d", mock.SentCount())
	}
}
