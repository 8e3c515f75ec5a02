package app

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  Command
		wantRest []string
	}{
		{"空はhelp", nil, CommandHelp, nil},
		{"login", []string{"login", "-u", "alice"}, CommandLogin, []string{"-u", "alice"}},
		{"check-in", []string{"check-in", "--yes"}, CommandCheckIn, []string{"--yes"}},
		{"check-out", []string{"check-out"}, CommandCheckOut, []string{}},
		{"admin", []string{"admin", "--user", "2"}, CommandAdmin, []string{"--user", "2"}},
		{"devserver", []string{"devserver"}, CommandDevServer, []string{}},
		{"healthcheck", []string{"healthcheck"}, CommandHealthcheck, []string{}},
		{"--help", []string{"--help"}, CommandHelp, []string{}},
		{"未知のコマンドはhelp", []string{"serve"}, CommandHelp, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, rest := ParseCommand(tt.args)
			if cmd != tt.wantCmd {
				t.Errorf("cmd = %q, want %q", cmd, tt.wantCmd)
			}
			if len(rest) != len(tt.wantRest) || (len(rest) > 0 && !reflect.DeepEqual(rest, tt.wantRest)) {
				t.Errorf("rest = %v, want %v", rest, tt.wantRest)
			}
		})
	}
}

func TestCommand_NeedsClientState(t *testing.T) {
	for _, cmd := range []Command{CommandLogin, CommandDashboard, CommandTheme, CommandAdmin} {
		if !cmd.needsClientState() {
			t.Errorf("%s はクライアント状態を必要とするべき", cmd)
		}
	}
	for _, cmd := range []Command{CommandMigrate, CommandDevServer, CommandHealthcheck, CommandHelp} {
		if cmd.needsClientState() {
			t.Errorf("%s はクライアント状態を必要としないべき", cmd)
		}
	}
}
