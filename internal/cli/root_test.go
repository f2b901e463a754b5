package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig points the CLI at a temp database and returns a
// cleanup that restores the --config flag state.
func writeTestConfig(t *testing.T) func() {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "utildesk.csv")
	dbPath := filepath.Join(dir, "utildesk.db")
	content := "network_base_path," + dir + "\ndatabase_path," + dbPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	prev := cfgFile
	cfgFile = cfgPath
	return func() { cfgFile = prev }
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCNPJValidateCommand(t *testing.T) {
	out, err := runCommand(t, "cnpj", "validate", "11.222.333/0001-81")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "11.222.333/0001-81") {
		t.Errorf("output should echo the formatted CNPJ, got %q", out)
	}
}

func TestCNPJValidateCommand_Invalid(t *testing.T) {
	_, err := runCommand(t, "cnpj", "validate", "11.222.333/0001-82")
	if err == nil {
		t.Fatal("expected error for wrong check digit")
	}
}

func TestTasksAddAndList(t *testing.T) {
	defer writeTestConfig(t)()

	out, err := runCommand(t, "tasks", "add", "Enviar", "relatório")
	if err != nil {
		t.Fatalf("tasks add failed: %v", err)
	}
	if !strings.Contains(out, "Enviar relatório") {
		t.Errorf("add output = %q, want the joined title", out)
	}

	out, err = runCommand(t, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list failed: %v", err)
	}
	if !strings.Contains(out, "[ ] Enviar relatório") {
		t.Errorf("list output = %q, want pending task", out)
	}
}

func TestFoldersAddListRemove(t *testing.T) {
	defer writeTestConfig(t)()

	out, err := runCommand(t, "folders", "add", `\\SRV\Clientes$\Acme`)
	if err != nil {
		t.Fatalf("folders add failed: %v", err)
	}
	if !strings.Contains(out, "Acme") {
		t.Errorf("add should default the name to the base name, got %q", out)
	}

	out, err = runCommand(t, "folders", "list")
	if err != nil {
		t.Fatalf("folders list failed: %v", err)
	}
	if !strings.Contains(out, `\\SRV\Clientes$\Acme`) {
		t.Errorf("list output = %q, want the saved path", out)
	}

	out, err = runCommand(t, "folders", "remove", "1")
	if err != nil {
		t.Fatalf("folders remove failed: %v", err)
	}
	if !strings.Contains(out, "removida") {
		t.Errorf("remove output = %q", out)
	}

	out, err = runCommand(t, "folders", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Nenhuma pasta salva") {
		t.Errorf("list after remove = %q, want empty message", out)
	}
}

func TestFoldersRemove_InvalidID(t *testing.T) {
	defer writeTestConfig(t)()

	_, err := runCommand(t, "folders", "remove", "abc")
	if err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestBaseNameOf(t *testing.T) {
	cases := map[string]string{
		`\\SRV\Clientes$\Acme`: "Acme",
		"/mnt/clientes/Acme":   "Acme",
		"Acme":                 "Acme",
	}
	for in, want := range cases {
		if got := baseNameOf(in); got != want {
			t.Errorf("baseNameOf(%q) = %q, want %q", in, got, want)
		}
	}
}
