package storage

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name       string
		publicBase string
		key        string
		want       string
	}{
		{
			"plain base",
			"http://localhost:9000/images",
			"add09d36-9d1f-4c1d-b177-e1dd6baf76f9.png",
			"http://localhost:9000/images/add09d36-9d1f-4c1d-b177-e1dd6baf76f9.png",
		},
		{
			"trailing slash trimmed at construction",
			"http://cdn.example.com/images",
			"k.jpg",
			"http://cdn.example.com/images/k.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &MinioStorage{publicBase: strings.TrimRight(tt.publicBase, "/")}
			if got := s.PublicURL(tt.key); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPublicReadPolicy(t *testing.T) {
	raw := publicReadPolicy("images")

	var policy struct {
		Version   string
		Statement []struct {
			Effect   string
			Action   string
			Resource string
		}
	}
	if err := json.Unmarshal([]byte(raw), &policy); err != nil {
		t.Fatalf("policy is not valid JSON: %v", err)
	}
	if len(policy.Statement) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(policy.Statement))
	}
	if policy.Statement[0].Action != "s3:GetObject" {
		t.Errorf("expected s3:GetObject, got %s", policy.Statement[0].Action)
	}
	if policy.Statement[0].Resource != "arn:aws:s3:::images/*" {
		t.Errorf("unexpected resource %s", policy.Statement[0].Resource)
	}
}
