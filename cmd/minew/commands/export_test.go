package commands

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// exportFixture wires every endpoint the export walks. Labels span two
// pages to exercise the pagination loop.
func exportFixture(f *fakeCloud) {
	f.handle("/esl/store/list", `{"code":200,"msg":"success","data":[
		{"id":"100001","name":"Fresh Mart","number":"321","address":"1 Main St","active":1}
	]}`)
	f.handle("/esl/gateway/listPage", `{"code":200,"msg":"success",
		"currentPage":1,"pageSize":2,"totalNum":1,"isMore":0,"totalPage":1,"startIndex":0,
		"items":[{"id":"3","name":"dock-gw","mac":"AC233FC00001"}]}`)

	f.handleFunc("/esl/label/list", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		switch page {
		case 1:
			writeBody(w, `{"code":200,"msg":"success","data":{
				"currentPage":1,"pageSize":2,"totalNum":3,"isMore":1,"totalPage":2,"startIndex":0,
				"items":[{"id":"17","mac":"AC233FA0B1C1"},{"id":"18","mac":"AC233FA0B1C2"}]}}`)
		default:
			writeBody(w, `{"code":200,"msg":"success","data":{
				"currentPage":2,"pageSize":2,"totalNum":3,"isMore":0,"totalPage":2,"startIndex":2,
				"items":[{"id":"19","mac":"AC233FA0B1C3"}]}}`)
		}
	})

	f.handle("/esl/template/findAll", `{"code":200,"msg":"success","data":{"rows":[
		{"id":"40","name":"2.13-BWR","size":"2.13","color":"BWR"}
	]}}`)
	f.handle("/esl/data/list", `{"code":200,"msg":"success","data":{
		"currentPage":1,"pageSize":2,"totalNum":1,"isMore":0,"totalPage":1,"startIndex":0,
		"items":[{"id":"23","name":"Cola 330ml"}]}}`)
	f.handle("/esl/data/bindingList", `{"code":200,"msg":"success","data":{
		"currentPage":1,"pageSize":2,"totalNum":1,"isMore":0,"totalPage":1,"startIndex":0,
		"items":[{"id":"23","name":"Cola 330ml"}]}}`)
	f.handleFunc("/esl/warning/findAllWarnings", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("screening") == "brush" {
			writeBody(w, `{"code":200,"msg":"success","data":{"warnings":[{"id":"1","type":"refresh","level":"warn","timestamp":"2026-01-02 03:04:05"}]}}`)
			return
		}
		writeBody(w, `{"code":200,"msg":"success","data":{"warnings":[]}}`)
	})
}

func TestExportWritesSnapshot(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)
	exportFixture(f)

	dest := t.TempDir()
	stdout, _, code := runCmd(t, "--config", configPath, "export",
		"--to", dest, "--page-size", "2")
	if code != 0 {
		t.Fatalf("export exit = %d", code)
	}
	if !strings.Contains(stdout, "Exported store 100001") {
		t.Fatalf("expected export confirmation, got: %s", stdout)
	}
	if !strings.Contains(stdout, "3 labels") {
		t.Fatalf("expected paginated label count, got: %s", stdout)
	}

	// One snapshot file lands under store-<id>/.
	entries, err := os.ReadDir(filepath.Join(dest, "store-100001"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d snapshot files, want 1", len(entries))
	}

	raw, err := os.ReadFile(filepath.Join(dest, "store-100001", entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var snap struct {
		ID       string           `json:"id"`
		StoreID  string           `json:"storeId"`
		Store    *json.RawMessage `json:"store"`
		Gateways []any            `json:"gateways"`
		Labels   []any            `json:"labels"`
		Warnings []any            `json:"warnings"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if snap.ID == "" {
		t.Error("snapshot has no ID")
	}
	if snap.StoreID != "100001" {
		t.Errorf("storeId = %q, want %q", snap.StoreID, "100001")
	}
	if snap.Store == nil {
		t.Error("snapshot is missing the store record")
	}
	if len(snap.Gateways) != 1 || len(snap.Labels) != 3 || len(snap.Warnings) != 1 {
		t.Errorf("counts = %d gateways, %d labels, %d warnings",
			len(snap.Gateways), len(snap.Labels), len(snap.Warnings))
	}
}

func TestExportRequiresDestination(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	_, stderr, code := runCmd(t, "--config", configPath, "export")
	if code == 0 {
		t.Fatal("expected non-zero exit without --to")
	}
	if !strings.Contains(stderr, "--to is required") {
		t.Fatalf("expected destination error, got: %s", stderr)
	}
}

func TestExportPropagatesListErrors(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	// The store lookup failing is tolerated, a failing resource walk is not.
	f.handle("/esl/store/list", `{"code":200,"msg":"success","data":[]}`)
	f.handle("/esl/gateway/listPage", `{"code":500,"msg":"backend exploded"}`)

	_, stderr, code := runCmd(t, "--config", configPath, "export", "--to", t.TempDir())
	if code == 0 {
		t.Fatal("expected non-zero exit when a list endpoint fails")
	}
	if !strings.Contains(stderr, "listing gateways") {
		t.Fatalf("expected gateway walk error, got: %s", stderr)
	}
	if !strings.Contains(stderr, "backend exploded") {
		t.Fatalf("expected platform message, got: %s", stderr)
	}
}
