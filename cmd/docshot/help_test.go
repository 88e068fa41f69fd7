package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{nil, "Run 'docshot help <command>'"},
		{[]string{"capture"}, "Usage: docshot capture"},
		{[]string{"show"}, "Usage: docshot show"},
		{[]string{"recent"}, "--updated-after"},
		{[]string{"count"}, "Usage: docshot count"},
		{[]string{"relevant"}, "Usage: docshot relevant"},
		{[]string{"history"}, "Usage: docshot history"},
		{[]string{"task"}, "submit <save|refresh>"},
		{[]string{"doctor"}, "Usage: docshot doctor"},
		{[]string{"version"}, "Usage: docshot version"},
		{[]string{"help"}, "Usage: docshot help"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := newTestEnv(nil)
			if code := runHelp(tt.args, env); code != ExitSuccess {
				t.Fatalf("runHelp(%v) = %d, want %d", tt.args, code, ExitSuccess)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("runHelp(%v) output missing %q:\n%s", tt.args, tt.want, stdout.String())
			}
		})
	}
}
