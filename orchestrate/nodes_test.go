package orchestrate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/forgeseal/client-go/internal/config"
	"github.com/forgeseal/client-go/internal/sealbox"
)

const testWallet = "0x8254a986319461bf29ae35940a96786e507ad9ac"

// testRoster builds an n-node roster with distinct node ids and the same
// well-formed wallet everywhere.
func testRoster(n int) *config.NodeSet {
	set := &config.NodeSet{}
	for i := 0; i < n; i++ {
		set.NodeIDs = append(set.NodeIDs, fmt.Sprintf("node-%04d", i+1))
		set.Wallets = append(set.Wallets, testWallet)
	}
	return set
}

func TestSetNodeSecrets(t *testing.T) {
	t.Parallel()
	pub, priv, err := sealbox.GenerateKeypairForTesting()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}

	var mu sync.Mutex
	sealed := make(map[string]string)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alpha/miner/actions/secrets/public-key", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"key_id": "1",
			"key":    base64.StdEncoding.EncodeToString(pub[:]),
		})
	})
	mux.HandleFunc("PUT /repos/alpha/miner/actions/secrets/{name}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			EncryptedValue string `json:"encrypted_value"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		sealed[r.PathValue("name")] = body.EncryptedValue
		mu.Unlock()
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

	set := testRoster(3)
	if err := o.SetNodeSecrets(context.Background(), set); err != nil {
		t.Fatalf("SetNodeSecrets() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for name, want := range map[string]string{
		"NODE_IDS": strings.Join(set.NodeIDs, "\n"),
		"WALLETS":  strings.Join(set.Wallets, "\n"),
	} {
		got, ok := sealed[name]
		if !ok {
			t.Fatalf("secret %s was never stored", name)
		}
		plain, err := sealbox.OpenForTesting(got, pub, priv)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		if string(plain) != want {
			t.Errorf("%s = %q, want %q", name, plain, want)
		}
	}
}

func TestSetNodeSecrets_InvalidRoster(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /repos/alpha/miner/actions/secrets/{name}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
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

	set := testRoster(2)
	set.Wallets[1] = "not-a-wallet"
	if err := o.SetNodeSecrets(context.Background(), set); !errors.Is(err, config.ErrInvalidWallet) {
		t.Fatalf("SetNodeSecrets() error = %v, want ErrInvalidWallet", err)
	}
	if calls.Load() != 0 {
		t.Errorf("stored %d secrets for a bad roster, want 0", calls.Load())
	}
}

func TestDispatchBatches(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var matrices []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/alpha/miner", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"full_name":"alpha/miner","default_branch":"main"}`))
	})
	mux.HandleFunc("POST /repos/alpha/miner/actions/workflows/run.yml/dispatches", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Ref    string            `json:"ref"`
			Inputs map[string]string `json:"inputs"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Ref != "main" {
			t.Errorf("dispatched ref = %q, want main", body.Ref)
		}
		mu.Lock()
		matrices = append(matrices, body.Inputs["matrix"])
		mu.Unlock()
		w.WriteHeader(204)
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

	runs, err := o.DispatchBatches(context.Background(), testRoster(45), 20)
	if err != nil {
		t.Fatalf("DispatchBatches() error = %v", err)
	}
	if runs != 3 {
		t.Fatalf("DispatchBatches() = %d runs, want 3", runs)
	}

	mu.Lock()
	defer mu.Unlock()
	var sizes []int
	for _, m := range matrices {
		var matrix struct {
			Include []struct {
				Index  int    `json:"index"`
				NodeID string `json:"node_id"`
				Wallet string `json:"wallet"`
			} `json:"include"`
		}
		if err := json.Unmarshal([]byte(m), &matrix); err != nil {
			t.Fatalf("matrix input is not JSON: %v", err)
		}
		sizes = append(sizes, len(matrix.Include))
	}
	if len(sizes) != 3 || sizes[0] != 20 || sizes[1] != 20 || sizes[2] != 5 {
		t.Errorf("batch sizes = %v, want [20 20 5]", sizes)
	}
}
