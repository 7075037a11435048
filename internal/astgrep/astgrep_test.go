package astgrep

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"
)

func fakeRun(stdout, stderr string, code int, err error) runFunc {
	return func(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
		return []byte(stdout), []byte(stderr), code, err
	}
}

const sampleOutput = `[
  {"text":"fmt.Println(\"a\")","range":{"byteOffset":{"start":100,"end":117},"start":{"line":4,"column":1},"end":{"line":4,"column":18}},"file":"main.go","lines":"\tfmt.Println(\"a\")","language":"Go","metaVariables":{"single":{"MSG":{"text":"\"a\""}}}},
  {"text":"fmt.Println(\"b\")","range":{"byteOffset":{"start":140,"end":157},"start":{"line":7,"column":1},"end":{"line":7,"column":18}},"file":"main.go","lines":"\tfmt.Println(\"b\")","language":"Go"},
  {"text":"fmt.Println(x)","range":{"byteOffset":{"start":30,"end":44},"start":{"line":2,"column":1},"end":{"line":2,"column":15}},"file":"util/log.go","lines":"\tfmt.Println(x)","language":"Go"}
]`

func TestSearch_ParsesOutput(t *testing.T) {
	c := &Client{run: fakeRun(sampleOutput, "", 0, nil)}
	matches, err := c.Search(context.Background(), Query{Pattern: "fmt.Println($MSG)"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	m := matches[0]
	if m.File != "main.go" || m.Range.ByteOffset.Start != 100 || m.Range.Start.Line != 4 {
		t.Errorf("matches[0] = %+v", m)
	}
	if len(m.MetaVariables) == 0 {
		t.Error("metaVariables were not carried through")
	}
}

func TestSearch_ArgumentVector(t *testing.T) {
	var gotArgs []string
	c := &Client{run: func(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
		if name != "ast-grep" {
			t.Errorf("binary = %q, want ast-grep", name)
		}
		gotArgs = args
		return []byte("[]"), nil, 0, nil
	}}

	q := Query{Pattern: "if $C { $$$B }", Language: "go", Rewrite: "guard($C)", Paths: []string{"internal", "cmd"}}
	if _, err := c.Search(context.Background(), q); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := []string{"run", "--pattern", "if $C { $$$B }", "--json", "--lang", "go", "--rewrite", "guard($C)", "internal", "cmd"}
	if !reflect.DeepEqual(gotArgs, want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
}

func TestSearch_DefaultPath(t *testing.T) {
	var gotArgs []string
	c := &Client{run: func(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
		gotArgs = args
		return []byte("[]"), nil, 0, nil
	}}
	if _, err := c.Search(context.Background(), Query{Pattern: "p"}); err != nil {
		t.Fatal(err)
	}
	if gotArgs[len(gotArgs)-1] != "." {
		t.Errorf("args = %v, want trailing \".\"", gotArgs)
	}
}

func TestSearch_ClientSideLimit(t *testing.T) {
	c := &Client{run: fakeRun(sampleOutput, "", 0, nil)}
	matches, err := c.Search(context.Background(), Query{Pattern: "fmt.Println($MSG)", Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want 2", len(matches))
	}
}

func TestSearch_NonZeroExit(t *testing.T) {
	c := &Client{run: fakeRun("", "Pattern contains an error", 1, nil)}
	_, err := c.Search(context.Background(), Query{Pattern: "bad("})
	if err == nil || !strings.Contains(err.Error(), "Pattern contains an error") {
		t.Errorf("got %v, want stderr detail", err)
	}
}

func TestSearch_BinaryMissing(t *testing.T) {
	c := &Client{run: fakeRun("", "", 0, exec.ErrNotFound)}
	if _, err := c.Search(context.Background(), Query{Pattern: "p"}); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("got %v, want ErrNotInstalled", err)
	}
}

func TestSearch_EmptyPattern(t *testing.T) {
	c := &Client{run: fakeRun("[]", "", 0, nil)}
	if _, err := c.Search(context.Background(), Query{}); err == nil {
		t.Error("expected error for empty pattern")
	}
}

func TestFormat_GroupsByFile(t *testing.T) {
	c := &Client{run: fakeRun(sampleOutput, "", 0, nil)}
	matches, err := c.Search(context.Background(), Query{Pattern: "fmt.Println($MSG)"})
	if err != nil {
		t.Fatal(err)
	}

	out := Format(matches)
	if strings.Count(out, "main.go\n") != 1 {
		t.Errorf("main.go should appear once as a group header:\n%s", out)
	}
	if !strings.Contains(out, "util/log.go") {
		t.Errorf("missing second file group:\n%s", out)
	}
	// Positions render one-based.
	if !strings.Contains(out, "  5:2\n") {
		t.Errorf("missing one-based position:\n%s", out)
	}
}
