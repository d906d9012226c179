package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateStudentReturnsID(t *testing.T) {
	var gotPath string
	var gotPerson Person
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPerson); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]int{"id": 12})
	}))
	defer srv.Close()

	client := New(srv.URL)
	id, err := client.CreateStudent(context.Background(), Person{
		UserID:   4,
		Name:     "Ada",
		LastName: "Lovelace",
		Email:    "ada@example.com",
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if id != 12 {
		t.Fatalf("id = %d, want 12", id)
	}
	if gotPath != "/student" {
		t.Fatalf("path = %q, want /student", gotPath)
	}
	if gotPerson.Email != "ada@example.com" || gotPerson.UserID != 4 {
		t.Fatalf("payload = %+v", gotPerson)
	}
}

func TestStudentIDForUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/student/user/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 99})
	}))
	defer srv.Close()

	id, err := New(srv.URL).StudentIDForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("StudentIDForUser: %v", err)
	}
	if id != 99 {
		t.Fatalf("id = %d, want 99", id)
	}
}

func TestEnrollStudentPayload(t *testing.T) {
	var got map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/course-class-student" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	if err := New(srv.URL).EnrollStudent(context.Background(), 99, 42); err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}
	if got["studentID"] != 99 || got["courseClassID"] != 42 {
		t.Fatalf("payload = %v", got)
	}
}

func TestNonSuccessStatusIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateProfessor(context.Background(), Person{Name: "X"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestUnreachableServiceIsUpstreamError(t *testing.T) {
	err := New("http://127.0.0.1:1").UpdateStudent(context.Background(), 1, Person{Name: "X"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}
