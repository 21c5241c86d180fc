package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func stubServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	os.Setenv("DDG_BASE_URL", server.URL)
	t.Cleanup(func() { os.Unsetenv("DDG_BASE_URL") })

	return server
}

func execute(args ...string) (stdout string, err error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), err
}

func resultsPage(n int) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, `<div class="result">
			<h2 class="result__title"><a class="result__a" href="https://example.com/%d">Result %d</a></h2>
			<a class="result__snippet">Snippet %d</a>
		</div>`, i, i, i)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestRootCmd_ArgumentCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{}},
		{"two args", []string{"query one", "query two"}},
		{"three args", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, err := execute(tt.args...)

			if err == nil {
				t.Error("Execute() expected usage error")
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty on usage error", stdout)
			}
		})
	}
}

func TestRootCmd_OutputShape(t *testing.T) {
	stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage(5)))
	})

	stdout, err := execute("rust ownership")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.HasSuffix(stdout, "\n") || strings.Count(stdout, "\n") != 1 {
		t.Errorf("stdout = %q, want exactly one line", stdout)
	}

	var records []struct {
		Content  string `json:"content"`
		Metadata struct {
			SourceURL string `json:"sourceURL"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(stdout), &records); err != nil {
		t.Fatalf("stdout is not a JSON array: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (truncated from 5)", len(records))
	}

	for i, rec := range records {
		var doc struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		}
		if err := json.Unmarshal([]byte(rec.Content), &doc); err != nil {
			t.Fatalf("record %d content is not JSON: %v", i, err)
		}

		wantLink := fmt.Sprintf("https://example.com/%d", i+1)
		if doc.Link != wantLink {
			t.Errorf("record %d link = %q, want %q", i, doc.Link, wantLink)
		}
		if rec.Metadata.SourceURL != doc.Link {
			t.Errorf("record %d sourceURL = %q, want %q", i, rec.Metadata.SourceURL, doc.Link)
		}
	}
}

func TestRootCmd_ProviderFailureDegradesToEmptyArray(t *testing.T) {
	stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	stdout, err := execute("rust ownership")
	if err != nil {
		t.Fatalf("Execute() error = %v, provider failures must not fail the process", err)
	}

	if stdout != "[]\n" {
		t.Errorf("stdout = %q, want %q", stdout, "[]\n")
	}
}

func TestRootCmd_RateLimitExhaustionDegradesToEmptyArray(t *testing.T) {
	os.Setenv("SEARCH_MAX_RETRIES", "1")
	t.Cleanup(func() { os.Unsetenv("SEARCH_MAX_RETRIES") })

	var attempts int
	stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	stdout, err := execute("rust ownership")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if stdout != "[]\n" {
		t.Errorf("stdout = %q, want %q", stdout, "[]\n")
	}
	if attempts != 1 {
		t.Errorf("provider attempts = %d, want 1", attempts)
	}
}
