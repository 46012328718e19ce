package devops

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
)

// TestMake_DXTargets verifies developer experience targets exist in the
// Makefile and reference the expected docker compose invocations.
func TestMake_DXTargets(t *testing.T) {
    root := findRepoRoot(t)
    makefilePath := filepath.Join(root, "Makefile")
    b, err := os.ReadFile(makefilePath)
    if err != nil {
        t.Fatalf("Makefile missing: %v", err)
    }
    mk := string(b)

    // Required targets
    for _, target := range []string{"\nbuild:", "\nup:", "\ndown:", "\nlogs:", "\nrebuild:", "\ntest:", "\nclean:"} {
        if !strings.Contains(mk, target) {
            t.Fatalf("Makefile should define a %q target", strings.TrimSpace(target))
        }
    }

    // build stamps version metadata into the binary
    if !strings.Contains(mk, "-ldflags") || !strings.Contains(mk, "app.BuildVersion=$(VERSION)") {
        t.Fatalf("build target should inject BuildVersion via ldflags")
    }

    // up starts the compose stack detached
    if !strings.Contains(mk, "docker compose up -d") {
        t.Fatalf("up target should use docker compose up -d")
    }

    // rebuild recreates with build
    if !strings.Contains(mk, "--build") || !strings.Contains(mk, "--force-recreate") {
        t.Fatalf("rebuild target should include --build and --force-recreate")
    }

    // logs follows compose logs
    if !strings.Contains(mk, "docker compose logs -f") {
        t.Fatalf("logs target should follow docker compose logs -f")
    }

    // test runs the whole module
    if !strings.Contains(mk, "go test ./...") {
        t.Fatalf("test target should run go test ./...")
    }

    // clean removes build output and compose volumes
    if !strings.Contains(mk, "rm -rf bin") {
        t.Fatalf("clean target should remove the bin directory")
    }
    if !strings.Contains(mk, "docker compose down -v") {
        t.Fatalf("clean target should prune compose volumes")
    }
}
