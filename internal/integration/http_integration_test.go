package integration_test

import (
	"bytes"
	"encoding/json"
	"go/parser"
	"go/token"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/branch/cache"
	"github.com/awmpietro/autocase/internal/transport/httptransport"
)

const gradeSource = `package school

func Grade(score int) string {
	if score < 0 {
		panic("negative score")
	}
	if score >= 90 {
		return "A"
	} else if score >= 75 {
		return "B"
	}
	if score < 5 {
		x := 1
		x++
	}
	if score > 80 {
		return "unreachable"
	}
	return "F"
}
`

func newGenerateServer() *httptest.Server {
	svc := app.NewService(branch.NewBuilder(), cache.NewInMemory(1024), app.WithMaxPaths(64))
	h := httptransport.NewHandler(svc, false)

	mux := http.NewServeMux()
	mux.HandleFunc("/generate", h.Generate)
	mux.HandleFunc("/graph", h.Graph)
	return httptest.NewServer(mux)
}

func post(t *testing.T, srv *httptest.Server, path, rawBody string) (int, map[string]any, string) {
	t.Helper()

	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewBufferString(rawBody))
	if err != nil {
		t.Errorf("post %s failed: %v", path, err)
		return 0, nil, ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Errorf("read response failed: %v", err)
		return 0, nil, ""
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return resp.StatusCode, nil, string(body)
	}
	return resp.StatusCode, out, string(body)
}

func postJSON(t *testing.T, srv *httptest.Server, path string, payload map[string]any) (int, map[string]any, string) {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return post(t, srv, path, string(b))
}

func records(t *testing.T, out map[string]any) []map[string]any {
	t.Helper()
	suites, ok := out["suites"].([]any)
	if !ok || len(suites) != 1 {
		t.Fatalf("expected one suite, got %#v", out["suites"])
	}
	var recs []map[string]any
	for _, r := range suites[0].(map[string]any)["records"].([]any) {
		recs = append(recs, r.(map[string]any))
	}
	return recs
}

func TestHTTPGenerate_EndToEnd(t *testing.T) {
	srv := newGenerateServer()
	defer srv.Close()

	status, out, raw := postJSON(t, srv, "/generate", map[string]any{
		"filename":  "grade.go",
		"source":    gradeSource,
		"funcs":     []string{"Grade"},
		"with_path": true,
		"format":    "go",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}

	got := map[string]string{}
	for _, r := range records(t, out) {
		outcome := r["outcome"].(map[string]any)
		if raised, ok := outcome["raised"].(string); ok {
			got[raised] = r["path"].(string)
			continue
		}
		got[outcome["values"].([]any)[0].(string)] = r["path"].(string)
	}
	for _, want := range []string{"negative score", "A", "B", "F"} {
		if _, ok := got[want]; !ok {
			t.Fatalf("expected a case returning %q, got %#v", want, got)
		}
	}
	if _, ok := got["unreachable"]; ok {
		t.Fatalf("score > 80 after score < 75 must be pruned, got %#v", got)
	}

	goTest, _ := out["go_test"].(string)
	if _, err := parser.ParseFile(token.NewFileSet(), "grade_test.go", goTest, 0); err != nil {
		t.Fatalf("generated test does not parse: %v\n%s", err, goTest)
	}
	if !strings.Contains(goTest, "func TestGrade_Errors(t *testing.T)") {
		t.Fatalf("expected an errors test, got\n%s", goTest)
	}
}

func TestHTTPGenerate_InputErrors(t *testing.T) {
	srv := newGenerateServer()
	defer srv.Close()

	t.Run("invalid_json", func(t *testing.T) {
		status, _, _ := post(t, srv, "/generate", `{`)
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
	})

	t.Run("syntax_error", func(t *testing.T) {
		status, out, _ := postJSON(t, srv, "/generate", map[string]any{"source": "package p\nfunc {"})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		if out["details"] == nil {
			t.Fatalf("expected error details")
		}
	})

	t.Run("compound_test", func(t *testing.T) {
		src := "package p\nfunc F(a int) int {\n\tif a > 1 && a < 5 {\n\t\treturn 1\n\t}\n\treturn 0\n}\n"
		status, out, _ := postJSON(t, srv, "/generate", map[string]any{"source": src, "funcs": []string{"F"}})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		if out["construct"] != "a > 1 && a < 5" || out["line"] != float64(3) {
			t.Fatalf("expected construct diagnostics, got %#v", out)
		}
	})

	t.Run("unknown_function", func(t *testing.T) {
		status, _, _ := postJSON(t, srv, "/generate", map[string]any{"source": gradeSource, "funcs": []string{"Nope"}})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
	})
}

func TestHTTPGraph(t *testing.T) {
	srv := newGenerateServer()
	defer srv.Close()

	status, _, raw := postJSON(t, srv, "/graph", map[string]any{"source": gradeSource, "funcs": []string{"Grade"}})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
	if !strings.HasPrefix(raw, "digraph branches") {
		t.Fatalf("expected DOT body, got\n%s", raw)
	}
}

func TestHTTPGenerate_ConcurrentRequestsShareTheCache(t *testing.T) {
	srv := newGenerateServer()
	defer srv.Close()

	const n = 16
	var wg sync.WaitGroup
	statuses := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _, _ := postJSON(t, srv, "/generate", map[string]any{"source": gradeSource, "funcs": []string{"Grade"}})
			statuses <- status
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
	}
}
