package orchestrate

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	forgeseal "github.com/forgeseal/client-go"
	"github.com/forgeseal/client-go/internal/state"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// accountClient builds a client against a stub forge that serves /user
// as login plus the routes registered on mux.
func accountClient(t *testing.T, mux *http.ServeMux, login string) *forgeseal.Client {
	t.Helper()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"login":%q,"id":1}`, login)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := forgeseal.New("ghp_test", forgeseal.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("build client for %s: %v", login, err)
	}
	return client
}

// serveBilling registers a billing endpoint reporting the given usage.
func serveBilling(mux *http.ServeMux, login string, used, included float64) {
	mux.HandleFunc("GET /users/"+login+"/settings/billing/actions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"total_minutes_used":%v,"included_minutes":%v}`, used, included)
	})
}

// servePublicKey registers a secrets public-key endpoint with a random
// but well-formed 32-byte key.
func servePublicKey(t *testing.T, mux *http.ServeMux, repo string) {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("random key: %v", err)
	}
	mux.HandleFunc("GET /repos/"+repo+"/actions/secrets/public-key", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"key_id": "1",
			"key":    base64.StdEncoding.EncodeToString(key),
		})
	})
}

// chainManager seeds a state dir with an active fork for account 0.
func chainManager(t *testing.T, repo string) *state.Manager {
	t.Helper()
	m, err := state.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	s, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := m.AddFork(s, state.ForkNode{
		AccountIndex: 0,
		Login:        "alpha",
		Repo:         repo,
		Parent:       "upstream/miner",
		Status:       state.StatusActive,
	}); err != nil {
		t.Fatalf("AddFork() error = %v", err)
	}
	return m
}

func TestValidateWorkflow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "valid",
			content: `
name: Run
on:
  workflow_dispatch: {}
jobs:
  run:
    runs-on: ubuntu-latest
    steps:
      - run: echo hi
`,
		},
		{
			name: "no trigger",
			content: `
name: Run
jobs:
  run:
    runs-on: ubuntu-latest
`,
			wantErr: true,
		},
		{
			name: "no jobs",
			content: `
name: Run
on: [push]
`,
			wantErr: true,
		},
		{name: "not yaml", content: "{{{{", wantErr: true},
		{name: "empty", content: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateWorkflow([]byte(tt.content))
			if tt.wantErr {
				if !errors.Is(err, ErrBadWorkflow) {
					t.Errorf("ValidateWorkflow() error = %v, want ErrBadWorkflow", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateWorkflow() error = %v", err)
			}
		})
	}
}

func TestDeploy(t *testing.T) {
	t.Parallel()
	workflow := []byte("name: Run\non: [workflow_dispatch]\njobs:\n  run:\n    runs-on: ubuntu-latest\n")

	var putBody struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alpha/miner", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"full_name":"alpha/miner","default_branch":"main"}`))
	})
	mux.HandleFunc("GET /repos/alpha/miner/contents/.github/workflows/run.yml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		w.Write([]byte(`{"message":"Not Found"}`))
	})
	mux.HandleFunc("PUT /repos/alpha/miner/contents/.github/workflows/run.yml", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&putBody)
		w.WriteHeader(201)
		w.Write([]byte(`{"content":{"path":".github/workflows/run.yml"}}`))
	})
	client := accountClient(t, mux, "alpha")

	o, err := New(Config{
		Accounts:     []Account{{Index: 0, Login: "alpha", Client: client}},
		SourceRepo:   "upstream/miner",
		WorkflowFile: "run.yml",
		States:       chainManager(t, "alpha/miner"),
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := o.Deploy(context.Background(), workflow, "deploy workflow"); err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(putBody.Content)
	if err != nil {
		t.Fatalf("committed content not base64: %v", err)
	}
	if string(raw) != string(workflow) {
		t.Errorf("committed content = %q", raw)
	}
	if putBody.Branch != "main" {
		t.Errorf("committed to branch %q, want main", putBody.Branch)
	}
}

func TestDeploy_RejectsBadWorkflow(t *testing.T) {
	t.Parallel()
	client := accountClient(t, http.NewServeMux(), "alpha")
	o, err := New(Config{
		Accounts:     []Account{{Index: 0, Login: "alpha", Client: client}},
		SourceRepo:   "upstream/miner",
		WorkflowFile: "run.yml",
		States:       chainManager(t, "alpha/miner"),
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = o.Deploy(context.Background(), []byte("jobs: {}\n"), "deploy")
	if !errors.Is(err, ErrBadWorkflow) {
		t.Errorf("Deploy() error = %v, want ErrBadWorkflow", err)
	}
}

func TestSetSecrets(t *testing.T) {
	t.Parallel()
	var puts atomic.Int64
	mux := http.NewServeMux()
	servePublicKey(t, mux, "alpha/miner")
	mux.HandleFunc("PUT /repos/alpha/miner/actions/secrets/{name}", func(w http.ResponseWriter, r *http.Request) {
		puts.Add(1)
		w.WriteHeader(201)
	})
	client := accountClient(t, mux, "alpha")

	o, err := New(Config{
		Accounts:     []Account{{Index: 0, Login: "alpha", Client: client}},
		SourceRepo:   "upstream/miner",
		WorkflowFile: "run.yml",
		States:       chainManager(t, "alpha/miner"),
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	secrets := []forgeseal.Secret{
		{Name: "MATRIX", Value: []byte(`{"include":[]}`)},
		{Name: "WALLET", Value: []byte("0xabc")},
	}
	if err := o.SetSecrets(context.Background(), secrets); err != nil {
		t.Fatalf("SetSecrets() error = %v", err)
	}
	if puts.Load() != 2 {
		t.Errorf("stored %d secrets, want 2", puts.Load())
	}
}

func TestRotate_NotNeeded(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	serveBilling(mux, "alpha", 100, 2000)
	client := accountClient(t, mux, "alpha")

	states := chainManager(t, "alpha/miner")
	o, err := New(Config{
		Accounts:     []Account{{Index: 0, Login: "alpha", Client: client}},
		SourceRepo:   "upstream/miner",
		WorkflowFile: "run.yml",
		States:       states,
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := o.Rotate(context.Background())
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if res.Rotated {
		t.Error("rotated although minutes remain")
	}

	s, _ := states.Load()
	if s.ForkChain[0].BillingUsed != 100 {
		t.Errorf("billing not recorded: %v", s.ForkChain[0].BillingUsed)
	}
}

func TestRotate_Exhausted(t *testing.T) {
	t.Parallel()

	// Account alpha: exhausted, with a workflow to disable.
	var disabled atomic.Bool
	alphaMux := http.NewServeMux()
	serveBilling(alphaMux, "alpha", 1990, 2000)
	alphaMux.HandleFunc("GET /repos/alpha/miner/actions/workflows", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_count":1,"workflows":[{"id":7,"name":"Run","path":".github/workflows/run.yml","state":"active"}]}`))
	})
	alphaMux.HandleFunc("PUT /repos/alpha/miner/actions/workflows/7/disable", func(w http.ResponseWriter, r *http.Request) {
		disabled.Store(true)
		w.WriteHeader(204)
	})
	alpha := accountClient(t, alphaMux, "alpha")

	// Account beta: forks the chain tip.
	var forked atomic.Bool
	betaMux := http.NewServeMux()
	betaMux.HandleFunc("GET /repos/beta/miner", func(w http.ResponseWriter, r *http.Request) {
		if !forked.Load() {
			w.WriteHeader(404)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Write([]byte(`{"id":2,"full_name":"beta/miner"}`))
	})
	betaMux.HandleFunc("POST /repos/alpha/miner/forks", func(w http.ResponseWriter, r *http.Request) {
		forked.Store(true)
		w.WriteHeader(202)
		w.Write([]byte(`{"id":2,"full_name":"beta/miner"}`))
	})
	beta := accountClient(t, betaMux, "beta")

	states := chainManager(t, "alpha/miner")
	o, err := New(Config{
		Accounts: []Account{
			{Index: 0, Login: "alpha", Client: alpha},
			{Index: 1, Login: "beta", Client: beta},
		},
		SourceRepo:   "upstream/miner",
		WorkflowFile: "run.yml",
		States:       states,
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := o.Rotate(context.Background())
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if !res.Rotated {
		t.Fatal("exhausted account did not rotate")
	}
	if res.From != "alpha" || res.To != "beta" || res.Repo != "beta/miner" {
		t.Errorf("rotation = %+v", res)
	}
	if !disabled.Load() {
		t.Error("workflow not disabled on exhausted fork")
	}

	s, _ := states.Load()
	if s.ForkChain[0].Status != state.StatusExhausted {
		t.Errorf("old fork status = %q, want exhausted", s.ForkChain[0].Status)
	}
	node, _, err := s.ActiveFork()
	if err != nil {
		t.Fatalf("ActiveFork() error = %v", err)
	}
	if node.Login != "beta" || node.Parent != "alpha/miner" {
		t.Errorf("new active node = %+v, want beta forked from chain tip", node)
	}
}

func TestRotate_ChainExhausted(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	serveBilling(mux, "alpha", 1990, 2000)
	mux.HandleFunc("GET /repos/alpha/miner/actions/workflows", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_count":0,"workflows":[]}`))
	})
	client := accountClient(t, mux, "alpha")

	o, err := New(Config{
		Accounts:     []Account{{Index: 0, Login: "alpha", Client: client}},
		SourceRepo:   "upstream/miner",
		WorkflowFile: "run.yml",
		States:       chainManager(t, "alpha/miner"),
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = o.Rotate(context.Background())
	if !errors.Is(err, ErrChainExhausted) {
		t.Errorf("Rotate() error = %v, want ErrChainExhausted", err)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	alphaMux := http.NewServeMux()
	serveBilling(alphaMux, "alpha", 100, 2000)
	alpha := accountClient(t, alphaMux, "alpha")

	betaMux := http.NewServeMux()
	serveBilling(betaMux, "beta", 1950, 2000)
	beta := accountClient(t, betaMux, "beta")

	o, err := New(Config{
		Accounts: []Account{
			{Index: 0, Login: "alpha", Client: alpha},
			{Index: 1, Login: "beta", Client: beta},
		},
		SourceRepo:   "upstream/miner",
		WorkflowFile: "run.yml",
		States:       chainManager(t, "alpha/miner"),
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report, err := o.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if report.OK != 1 || report.Exhausted != 1 {
		t.Errorf("report = %+v, want one ok and one exhausted", report)
	}
	if report.Accounts[0].Status != HealthOK {
		t.Errorf("alpha status = %q", report.Accounts[0].Status)
	}
	if report.Accounts[1].Status != HealthExhausted {
		t.Errorf("beta status = %q", report.Accounts[1].Status)
	}
}
