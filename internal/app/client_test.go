package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, NewLogger(nil))
}

func TestUpload_Success(t *testing.T) {
	var gotField, gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart body: %v", err)
		}
		if files := r.MultipartForm.File["file"]; len(files) == 1 {
			gotField = "file"
			gotName = files[0].Filename
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"summary": "Case closed."}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	summary, err := c.UploadReader(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("UploadReader: %v", err)
	}
	if summary != "Case closed." {
		t.Fatalf("summary = %q, want %q", summary, "Case closed.")
	}
	if gotField != "file" || gotName != "report.pdf" {
		t.Fatalf("multipart field/name = %q/%q, want file/report.pdf", gotField, gotName)
	}
}

func TestUpload_MissingSummaryDefaultsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	summary, err := newTestClient(srv.URL).UploadReader(context.Background(), "a.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("UploadReader: %v", err)
	}
	if summary != "" {
		t.Fatalf("summary = %q, want empty", summary)
	}
}

func TestUpload_ServerErrorIncludesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "No text extracted"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).UploadReader(context.Background(), "a.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "No text extracted") {
		t.Fatalf("error %q does not carry the backend detail", err)
	}
}

func TestUpload_InternalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).UploadReader(context.Background(), "a.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error %q does not mention the status", err)
	}
}

func TestUpload_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).UploadReader(context.Background(), "a.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestUpload_UnsupportedExtensionIsLocal(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Upload(context.Background(), "archive.zip")
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("Upload = %v, want ErrUnsupportedFile", err)
	}
	if requests != 0 {
		t.Fatalf("unsupported file still hit the backend %d times", requests)
	}
}

func TestSupportedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"notes.TXT", true},
		{"scan.jpeg", true},
		{"photo.JPG", true},
		{"image.png", true},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tc := range tests {
		if got := SupportedFile(tc.name); got != tc.want {
			t.Fatalf("SupportedFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAsk_Success(t *testing.T) {
	var gotQuestion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotQuestion = r.URL.Query().Get("question")
		_, _ = w.Write([]byte(`{"answer": "John Doe"}`))
	}))
	defer srv.Close()

	answer, err := newTestClient(srv.URL).Ask(context.Background(), "Who is the suspect? 100%")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "John Doe" {
		t.Fatalf("answer = %q, want %q", answer, "John Doe")
	}
	if gotQuestion != "Who is the suspect? 100%" {
		t.Fatalf("question survived encoding as %q", gotQuestion)
	}
}

func TestAsk_MissingAnswerDefaultsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	answer, err := newTestClient(srv.URL).Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "" {
		t.Fatalf("answer = %q, want empty", answer)
	}
}

func TestAsk_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Upload a document first"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Ask(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "Upload a document first") {
		t.Fatalf("error %q does not carry the backend detail", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status": "ok", "ocr_available": true}`))
	}))
	defer srv.Close()

	status, err := newTestClient(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status.Status != "ok" || !status.OCRAvailable {
		t.Fatalf("status = %+v", status)
	}
}

func TestMockMode_NoNetwork(t *testing.T) {
	c := newTestClient(MockBaseURL)

	summary, err := c.Upload(context.Background(), "report.pdf")
	if err != nil {
		t.Fatalf("mock Upload: %v", err)
	}
	if summary == "" {
		t.Fatal("mock upload returned an empty summary")
	}

	answer, err := c.Ask(context.Background(), "Who wrote this?")
	if err != nil {
		t.Fatalf("mock Ask: %v", err)
	}
	if answer == "" {
		t.Fatal("mock ask returned an empty answer")
	}
}
