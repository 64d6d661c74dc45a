package services

import (
	"context"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/errors"
)

func TestHealthSource_Collect(t *testing.T) {
	hs := NewHealthSource([]string{"echo", `{"healthInfo": []}`}, 5*time.Second, testLogger())

	output, err := hs.Collect(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, `"healthInfo"`) {
		t.Errorf("Expected tool output to contain healthInfo, got %q", output)
	}
}

func TestHealthSource_CommandNotFound(t *testing.T) {
	hs := NewHealthSource([]string{"walrus-health-tool-that-does-not-exist"}, 5*time.Second, testLogger())

	_, err := hs.Collect(context.Background())
	if !apperrors.IsSubprocessError(err) {
		t.Errorf("Expected subprocess error, got %v", err)
	}
}

func TestHealthSource_AbnormalExit(t *testing.T) {
	hs := NewHealthSource([]string{"false"}, 5*time.Second, testLogger())

	_, err := hs.Collect(context.Background())
	if !apperrors.IsSubprocessError(err) {
		t.Errorf("Expected subprocess error, got %v", err)
	}
}

func TestHealthSource_NoCommandConfigured(t *testing.T) {
	hs := NewHealthSource(nil, 5*time.Second, testLogger())

	_, err := hs.Collect(context.Background())
	if !apperrors.IsSubprocessError(err) {
		t.Errorf("Expected subprocess error, got %v", err)
	}
}

func TestHealthSource_Timeout(t *testing.T) {
	hs := NewHealthSource([]string{"sleep", "5"}, 50*time.Millisecond, testLogger())

	start := time.Now()
	_, err := hs.Collect(context.Background())
	if !apperrors.IsSubprocessError(err) {
		t.Errorf("Expected subprocess error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Expected the timeout to cut the subprocess off")
	}
}
