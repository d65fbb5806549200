package talks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateTalk(t *testing.T) {
	var gotReq CreateTalkRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/talks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "tlk_42", "status": "created"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "dXNlcjpwYXNz")
	talk, err := c.CreateTalk(context.Background(), CreateTalkRequest{
		Script:    TalkScript{Type: "audio", AudioURL: "https://storage.test/clips/c1/audio.wav"},
		SourceURL: "https://images.test/presenter.jpg",
		Config:    TalkConfig{Fluent: true, PadAudio: 0.0, Stitch: true},
	})
	if err != nil {
		t.Fatalf("CreateTalk failed: %v", err)
	}

	if talk.ID != "tlk_42" {
		t.Errorf("expected talk id tlk_42, got %s", talk.ID)
	}
	if gotAuth != "Basic dXNlcjpwYXNz" {
		t.Errorf("expected Basic auth header, got %q", gotAuth)
	}
	if gotReq.Script.Type != "audio" {
		t.Errorf("expected audio script type, got %q", gotReq.Script.Type)
	}
	if gotReq.Script.AudioURL != "https://storage.test/clips/c1/audio.wav" {
		t.Errorf("unexpected audio url: %s", gotReq.Script.AudioURL)
	}
	if !gotReq.Config.Fluent || !gotReq.Config.Stitch {
		t.Errorf("expected fluent and stitch enabled: %+v", gotReq.Config)
	}
}

func TestCreateTalkRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"description":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad")
	_, err := c.CreateTalk(context.Background(), CreateTalkRequest{})
	if err == nil {
		t.Fatal("expected an error for 401")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid credentials") {
		t.Errorf("error should carry status and body snippet: %v", err)
	}
}

func TestCreateTalkRequiresID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "created"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "creds")
	if _, err := c.CreateTalk(context.Background(), CreateTalkRequest{}); err == nil {
		t.Fatal("expected an error when the provider omits the talk id")
	}
}

func TestGetTalk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/talks/tlk_42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":         "tlk_42",
			"status":     "done",
			"result_url": "https://provider.test/results/tlk_42.mp4",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "creds")
	talk, err := c.GetTalk(context.Background(), "tlk_42")
	if err != nil {
		t.Fatalf("GetTalk failed: %v", err)
	}
	if talk.Status != StatusDone {
		t.Errorf("expected done status, got %q", talk.Status)
	}
	if talk.ResultURL != "https://provider.test/results/tlk_42.mp4" {
		t.Errorf("unexpected result url: %s", talk.ResultURL)
	}
}

func TestErrorDetail(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"string error", `{"id":"t","status":"error","error":"face not detected"}`, "face not detected"},
		{"object error", `{"id":"t","status":"error","error":{"kind":"RenderError","description":"gpu"}}`, `{"kind":"RenderError","description":"gpu"}`},
		{"no error field", `{"id":"t","status":"error"}`, "unknown provider error"},
	}

	for _, tc := range cases {
		var talk Talk
		if err := json.Unmarshal([]byte(tc.raw), &talk); err != nil {
			t.Fatalf("%s: unmarshal: %v", tc.name, err)
		}
		if got := talk.ErrorDetail(); got != tc.want {
			t.Errorf("%s: ErrorDetail() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDownloadResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("mp4-bytes"))
	}))
	defer srv.Close()

	c := NewClient("https://api.example.test", "creds")
	data, err := c.DownloadResult(context.Background(), srv.URL+"/results/tlk_42.mp4")
	if err != nil {
		t.Fatalf("DownloadResult failed: %v", err)
	}
	if string(data) != "mp4-bytes" {
		t.Errorf("unexpected payload: %q", data)
	}
}

func TestDownloadResultRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("https://api.example.test", "creds")
	if _, err := c.DownloadResult(context.Background(), srv.URL+"/gone.mp4"); err == nil {
		t.Fatal("expected an error for 404")
	}
}
