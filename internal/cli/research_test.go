package cli

import (
	"strings"
	"testing"
)

func TestNewResearchCmd(t *testing.T) {
	cmd := NewResearchCmd()

	if cmd == nil {
		t.Fatal("NewResearchCmd() returned nil")
	}

	if !strings.HasPrefix(cmd.Use, "research") {
		t.Errorf("Expected Use to start with 'research', got %q", cmd.Use)
	}

	// Verify flags are registered
	if cmd.Flags().Lookup("method") == nil {
		t.Error("Flag 'method' not registered")
	}
	if cmd.Flags().Lookup("json") == nil {
		t.Error("Flag 'json' not registered")
	}
}

func TestResearchCmd_RequiresQuery(t *testing.T) {
	cmd := NewResearchCmd()
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when no query argument is given")
	}
}

func TestRunResearch_InvalidMethod(t *testing.T) {
	err := RunResearch("What is X?", "telepathy", false)
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
	if !strings.Contains(err.Error(), "telepathy") {
		t.Errorf("expected method name in error, got: %v", err)
	}
}

func TestResearchCmd_Flags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantMethod string
		wantJSON   bool
	}{
		{
			name:       "no flags",
			args:       []string{"query"},
			wantMethod: "",
			wantJSON:   false,
		},
		{
			name:       "method flag",
			args:       []string{"query", "--method", "deep_research_api"},
			wantMethod: "deep_research_api",
			wantJSON:   false,
		},
		{
			name:       "short flags",
			args:       []string{"query", "-m", "openai_agents", "-j"},
			wantMethod: "openai_agents",
			wantJSON:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewResearchCmd()

			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() failed: %v", err)
			}

			method, _ := cmd.Flags().GetString("method")
			if method != tt.wantMethod {
				t.Errorf("method flag = %q, want %q", method, tt.wantMethod)
			}

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag != tt.wantJSON {
				t.Errorf("json flag = %v, want %v", jsonFlag, tt.wantJSON)
			}
		})
	}
}
