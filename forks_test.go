package forgeseal

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestCreateFork_AlreadyExists(t *testing.T) {
	t.Parallel()
	var forkCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octotest/widgets", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":9,"full_name":"octotest/widgets"}`))
	})
	mux.HandleFunc("POST /repos/upstream/widgets/forks", func(w http.ResponseWriter, r *http.Request) {
		forkCalls.Add(1)
		w.WriteHeader(202)
		w.Write([]byte(`{"id":9,"full_name":"octotest/widgets"}`))
	})
	client := newTestServer(t, mux)

	fork, err := client.CreateFork(context.Background(), "upstream/widgets")
	if err != nil {
		t.Fatalf("CreateFork() error = %v", err)
	}
	if fork != "octotest/widgets" {
		t.Errorf("CreateFork() = %q, want octotest/widgets", fork)
	}
	if forkCalls.Load() != 0 {
		t.Error("fork endpoint called although the fork already exists")
	}
}

func TestCreateFork_New(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octotest/widgets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`{"message":"Not Found"}`))
	})
	mux.HandleFunc("POST /repos/upstream/widgets/forks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(202)
		w.Write([]byte(`{"id":9,"full_name":"octotest/widgets"}`))
	})
	client := newTestServer(t, mux)

	fork, err := client.CreateFork(context.Background(), "upstream/widgets")
	if err != nil {
		t.Fatalf("CreateFork() error = %v", err)
	}
	if fork != "octotest/widgets" {
		t.Errorf("CreateFork() = %q, want octotest/widgets", fork)
	}
}

func TestCreateFork_InvalidRepo(t *testing.T) {
	t.Parallel()
	client := newTestServer(t, nil)
	if _, err := client.CreateFork(context.Background(), "no-slash"); err == nil {
		t.Error("CreateFork() accepted a repo without owner/name form")
	}
}

func TestWaitForFork(t *testing.T) {
	oldPoll := waitPoll
	waitPoll = 10 * time.Millisecond
	defer func() { waitPoll = oldPoll }()

	var polls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octotest/widgets", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			w.WriteHeader(404)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Write([]byte(`{"id":9,"full_name":"octotest/widgets"}`))
	})
	client := newTestServer(t, mux)

	if err := client.WaitForFork(context.Background(), "octotest/widgets"); err != nil {
		t.Fatalf("WaitForFork() error = %v", err)
	}
}

func TestWaitForFork_Timeout(t *testing.T) {
	oldPoll := waitPoll
	waitPoll = 10 * time.Millisecond
	defer func() { waitPoll = oldPoll }()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octotest/widgets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`{"message":"Not Found"}`))
	})
	client := newTestServer(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.WaitForFork(ctx, "octotest/widgets")
	if !errors.Is(err, ErrForkTimeout) {
		t.Errorf("WaitForFork() error = %v, want ErrForkTimeout", err)
	}
}

func TestDeleteRepository(t *testing.T) {
	t.Parallel()
	var deleted atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /repos/octotest/widgets", func(w http.ResponseWriter, r *http.Request) {
		deleted.Store(true)
		w.WriteHeader(204)
	})
	client := newTestServer(t, mux)

	if err := client.DeleteRepository(context.Background(), "octotest/widgets"); err != nil {
		t.Fatalf("DeleteRepository() error = %v", err)
	}
	if !deleted.Load() {
		t.Error("delete endpoint was never called")
	}
}
