package devops

import (
    "os"
    "path/filepath"
    "testing"

    yaml "gopkg.in/yaml.v3"
)

// TestCompose_NetworkIsolation verifies that the search tool sits on a private
// internal network with no direct internet route, that only the proxy bridges
// to the egress network, and that no service publishes host ports by default.
func TestCompose_NetworkIsolation(t *testing.T) {
    root := findRepoRoot(t)
    composePath := filepath.Join(root, "docker-compose.yml")
    b, err := os.ReadFile(composePath)
    if err != nil { t.Fatalf("read compose: %v", err) }

    var doc map[string]any
    if err := yaml.Unmarshal(b, &doc); err != nil { t.Fatalf("yaml: %v", err) }

    // networks.internal must be internal: true so containers on it
    // cannot reach the internet without going through the proxy
    nets, _ := doc["networks"].(map[string]any)
    if nets == nil { t.Fatalf("networks missing") }
    internalNet, _ := nets["internal"].(map[string]any)
    if internalNet == nil { t.Fatalf("internal network missing") }
    if internal, _ := internalNet["internal"].(bool); !internal {
        t.Fatalf("internal network should be internal: true")
    }
    if _, ok := nets["egress"]; !ok {
        t.Fatalf("egress network missing")
    }

    services, _ := doc["services"].(map[string]any)
    if services == nil { t.Fatalf("services missing") }

    tool, _ := services["gowebsearch"].(map[string]any)
    if tool == nil { t.Fatalf("gowebsearch service missing") }
    toolNets := networkNames(t, "gowebsearch", tool)
    if len(toolNets) != 1 || toolNets[0] != "internal" {
        t.Fatalf("gowebsearch should attach only to internal, got %v", toolNets)
    }

    proxy, _ := services["proxy"].(map[string]any)
    if proxy == nil { t.Fatalf("proxy service missing") }
    proxyNets := networkNames(t, "proxy", proxy)
    if !contains(proxyNets, "internal") || !contains(proxyNets, "egress") {
        t.Fatalf("proxy should bridge internal and egress, got %v", proxyNets)
    }

    // No ports should be published by default
    for name, raw := range services {
        svc, _ := raw.(map[string]any)
        if svc == nil { t.Fatalf("service %s not a map", name) }
        if _, has := svc["ports"]; has {
            t.Fatalf("service %s should not publish ports in base compose", name)
        }
    }
}

// TestCompose_OverrideExampleExists verifies we provide a documented override
// example to expose the proxy port when needed without changing the base
// compose file.
func TestCompose_OverrideExampleExists(t *testing.T) {
    root := findRepoRoot(t)
    overridePath := filepath.Join(root, "docker-compose.override.yml.example")
    b, err := os.ReadFile(overridePath)
    if err != nil {
        t.Fatalf("override example missing: %v", err)
    }

    var doc map[string]any
    if err := yaml.Unmarshal(b, &doc); err != nil { t.Fatalf("yaml: %v", err) }
    services, _ := doc["services"].(map[string]any)
    if services == nil { t.Fatalf("services missing in override example") }

    if proxy, _ := services["proxy"].(map[string]any); proxy == nil {
        t.Fatalf("proxy missing in override example")
    } else if _, ok := proxy["ports"]; !ok {
        t.Fatalf("proxy should publish ports in override example")
    }
}

func networkNames(t *testing.T, name string, svc map[string]any) []string {
    t.Helper()
    raw, _ := svc["networks"].([]any)
    if len(raw) == 0 {
        t.Fatalf("service %s must specify networks", name)
    }
    out := make([]string, 0, len(raw))
    for _, v := range raw {
        s, ok := v.(string)
        if !ok { t.Fatalf("service %s has non-string network entry %v", name, v) }
        out = append(out, s)
    }
    return out
}

func contains(list []string, want string) bool {
    for _, s := range list {
        if s == want { return true }
    }
    return false
}
