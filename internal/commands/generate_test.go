package toolbelt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateCommand(t *testing.T) {
	if generateCmd.Use != "generate <specPath>" {
		t.Fatalf("usage should mark specPath as required, got %q", generateCmd.Use)
	}
	_, err := executeRoot(t, "generate", "--package-name", "petstore")
	if err == nil || !strings.Contains(err.Error(), "accepts 1 arg(s), received 0") {
		t.Fatalf("expected missing spec path error, got %v", err)
	}
	if flag := generateCmd.Flags().Lookup("package-name"); flag != nil {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}

	_, err = executeRoot(t, "generate", "../generator/testdata/petstore.yaml")
	if err == nil || !strings.Contains(err.Error(), `required flag(s) "package-name" not set`) {
		t.Fatalf("expected required flag error, got %v", err)
	}

	dir := filepath.Join(t.TempDir(), "petstore")
	out, err := executeRoot(t, "generate", "../generator/testdata/petstore.yaml",
		"--package-name", "petstore", "--output", dir, "--strict")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Generated package petstore") || !strings.Contains(out, "PETSTORE_API_KEY") {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "petstore.go")); err != nil {
		t.Fatalf("expected index file: %v", err)
	}
}
