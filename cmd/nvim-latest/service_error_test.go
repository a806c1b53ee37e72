// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nvim-latest/nvim-latest/internal/issue"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		if msg, ok := r.(string); !ok || msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestNewServiceError(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.FileExistsId, "styled message")

	if svcErr.IssueID != issue.FileExistsId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.FileExistsId)
	}
	if svcErr.StyledMessage != "styled message" {
		t.Errorf("StyledMessage = %q", svcErr.StyledMessage)
	}
	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find the underlying error via Unwrap")
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		svcErr  *ServiceError
		want    string
		exact   bool
	}{
		{name: "nil", svcErr: nil, want: "", exact: true},
		{name: "styled message only", svcErr: newServiceError(errors.New("x"), 0, "styled output\n"), want: "styled output\n", exact: true},
		{name: "issue page", svcErr: newServiceError(errors.New("x"), issue.FileExistsId, ""), want: "already exists"},
		{name: "styled message and issue page", svcErr: newServiceError(errors.New("x"), issue.FileNotFoundId, "styled: "), want: "styled: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			renderServiceError(&buf, tt.svcErr, "notty")

			got := buf.String()
			if tt.exact {
				if got != tt.want {
					t.Errorf("output = %q, want %q", got, tt.want)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
			if len(got) <= len(tt.want) {
				t.Errorf("expected the issue page to be rendered, got %q", got)
			}
		})
	}
}
