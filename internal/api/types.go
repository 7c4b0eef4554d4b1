package api

import "time"

// User represents the authenticated account.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"`
}

// Repository represents a repository, trimmed to the fields the SDK uses.
type Repository struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Fork          bool   `json:"fork"`
	Parent        *struct {
		FullName string `json:"full_name"`
	} `json:"parent,omitempty"`
}

// PublicKey is a repository's Actions secrets public key. Key is the
// base64-encoded 32-byte encryption key; KeyID must be echoed back when
// submitting a sealed secret so the server knows which key it was sealed
// under.
type PublicKey struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

// PutSecretRequest is the payload for creating or updating a secret.
// EncryptedValue is the base64-encoded sealed ciphertext.
type PutSecretRequest struct {
	EncryptedValue string `json:"encrypted_value"`
	KeyID          string `json:"key_id"`
}

// Secret is a secret's metadata; values are never readable back.
type Secret struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SecretList is the response for listing repository secrets.
type SecretList struct {
	TotalCount int      `json:"total_count"`
	Secrets    []Secret `json:"secrets"`
}

// Workflow represents a workflow definition in a repository.
type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

// WorkflowList is the response for listing workflows.
type WorkflowList struct {
	TotalCount int        `json:"total_count"`
	Workflows  []Workflow `json:"workflows"`
}

// WorkflowRun represents one execution of a workflow.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkflowRunList is the response for listing workflow runs.
type WorkflowRunList struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// DispatchRequest triggers a workflow_dispatch event on the given ref.
type DispatchRequest struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs,omitempty"`
}

// ActionsBilling is the Actions usage report for a user account.
type ActionsBilling struct {
	TotalMinutesUsed     float64 `json:"total_minutes_used"`
	TotalPaidMinutesUsed float64 `json:"total_paid_minutes_used"`
	IncludedMinutes      float64 `json:"included_minutes"`
}

// ContentFile is a file fetched through the contents API.
type ContentFile struct {
	SHA     string `json:"sha"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// PutContentRequest creates or updates a file through the contents API.
// Content is base64-encoded; SHA is required when updating an existing
// file and must be omitted when creating one.
type PutContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}
