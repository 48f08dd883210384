package commands

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/eslkit/minew-go/pkg/kv"
)

const cmdTestToken = "cmd-test-token"

// fakeCloud is an in-memory stand-in for the platform. The login endpoint
// is always served; API paths are registered per test.
type fakeCloud struct {
	mux *http.ServeMux
	srv *httptest.Server

	mu        sync.Mutex
	logins    int
	token     string
	loginBody string
}

func newFakeCloud(t *testing.T) *fakeCloud {
	t.Helper()

	f := &fakeCloud{mux: http.NewServeMux(), token: cmdTestToken}
	f.mux.HandleFunc("/action/login", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logins++
		token := f.token
		body := f.loginBody
		f.mu.Unlock()
		if body == "" {
			body = `{"code":200,"msg":"success","data":{"token":"` + token + `"}}`
		}
		writeBody(w, body)
	})
	f.srv = httptest.NewServer(f.mux)
	t.Cleanup(f.srv.Close)
	return f
}

// setLoginBody replaces the login response, for credential failure tests.
func (f *fakeCloud) setLoginBody(body string) {
	f.mu.Lock()
	f.loginBody = body
	f.mu.Unlock()
}

// handle serves a canned JSON body for an API path.
func (f *fakeCloud) handle(path, body string) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, body)
	})
}

// handleFunc registers a custom handler for an API path.
func (f *fakeCloud) handleFunc(path string, h http.HandlerFunc) {
	f.mux.HandleFunc(path, h)
}

func (f *fakeCloud) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

// setToken changes the token issued by subsequent logins.
func (f *fakeCloud) setToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func writeBody(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// setupEnv writes a config file with one context pointing at the fake
// cloud and backs the session cache with an in-memory store. Returns the
// config path tests pass via --config.
func setupEnv(t *testing.T, f *fakeCloud) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`current_context: test
contexts:
  test:
    name: test
    username: test_user
    password: test_password
    base_url: %s
    default_store: "100001"
`, f.srv.URL)
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	testSessionStore = kv.NewMemory(nil)
	t.Cleanup(func() { testSessionStore = nil })
	return configPath
}

func runCmd(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	cfgFile = ""
	contextName = ""
	outputFile = ""
	inputFile = ""
	outputJSON = false
	jqExpr = ""
	verbose = false

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	var outBuf, errBuf bytes.Buffer
	outBuf.ReadFrom(rOut)
	errBuf.ReadFrom(rErr)

	stdout = outBuf.String()
	stderr = errBuf.String()
	if err != nil {
		exitCode = 1
		if stderr == "" {
			stderr = err.Error()
		}
	}

	resetFlags(rootCmd)
	return
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
		f.Value.Set(f.DefValue)
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeTestFile writes a file to a temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
