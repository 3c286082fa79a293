package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadPostsMultipartAndReturnsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("upload_preset"); got != "unsigned-test" {
			t.Errorf("upload_preset = %q", got)
		}
		if got := r.FormValue("public_id"); got != "users/bob" {
			t.Errorf("public_id = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "photo.jpg" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://cdn.example.com/users/bob.jpg"}`))
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "unsigned-test")
	url, err := u.Upload(context.Background(), "photo.jpg", []byte("jpegbytes"), "users/bob")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.example.com/users/bob.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestUploadSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid preset", http.StatusBadRequest)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "unsigned-test")
	_, err := u.Upload(context.Background(), "photo.jpg", []byte("x"), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("err = %v, want status in message", err)
	}
}

func TestUploadRejectsMissingSecureURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "unsigned-test")
	if _, err := u.Upload(context.Background(), "photo.jpg", []byte("x"), ""); err == nil {
		t.Fatal("expected error for missing secure_url")
	}
}
