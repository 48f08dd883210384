package commands

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestDataAddFromYAML(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	var body map[string]any
	f.handleFunc("/esl/data/add", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeBody(w, `{"code":200,"msg":"success","data":{"dataId":"23"}}`)
	})

	reqPath := writeTestFile(t, "product.yaml", `sku: "6901234567890"
name: Cola 330ml
price: 3.5
`)

	stdout, _, code := runCmd(t, "--config", configPath, "-f", reqPath, "data", "add")
	if code != 0 {
		t.Fatalf("data add exit = %d", code)
	}
	if !strings.Contains(stdout, "data ID 23") {
		t.Fatalf("expected data ID in output, got: %s", stdout)
	}

	// The product fields travel at the top level beside storeId.
	if body["sku"] != "6901234567890" || body["name"] != "Cola 330ml" {
		t.Fatalf("request body = %v", body)
	}
	if body["storeId"] != "100001" {
		t.Errorf("storeId = %v, want default store", body["storeId"])
	}
}

func TestDataAddRepairsRelaxedJSON(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	var body map[string]any
	f.handleFunc("/esl/data/add", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeBody(w, `{"code":200,"msg":"success","data":{"dataId":"24"}}`)
	})

	// Trailing comma, as an editor might leave behind.
	reqPath := writeTestFile(t, "product.json", `{"sku": "6901234567890", "name": "Cola 330ml",}`)

	_, _, code := runCmd(t, "--config", configPath, "-f", reqPath, "data", "add")
	if code != 0 {
		t.Fatalf("data add exit = %d, want relaxed JSON to be repaired", code)
	}
	if body["sku"] != "6901234567890" {
		t.Fatalf("request body = %v", body)
	}
}

func TestDataAddRequiresFile(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	_, stderr, code := runCmd(t, "--config", configPath, "data", "add")
	if code == 0 {
		t.Fatal("expected non-zero exit without -f")
	}
	if !strings.Contains(stderr, "input file is required") {
		t.Fatalf("expected input file error, got: %s", stderr)
	}
}

func TestDataAddSchemaValidation(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	var hits int
	f.handleFunc("/esl/data/add", func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeBody(w, `{"code":200,"msg":"success","data":{"dataId":"25"}}`)
	})

	schemaPath := writeTestFile(t, "product.schema.json", `{
		"type": "object",
		"required": ["sku", "price"],
		"properties": {
			"sku": {"type": "string"},
			"price": {"type": "number"}
		}
	}`)

	// Missing the required price field: rejected before any request is sent.
	badPath := writeTestFile(t, "bad.json", `{"sku": "6901234567890"}`)
	_, stderr, code := runCmd(t, "--config", configPath, "-f", badPath, "data", "add",
		"--schema", schemaPath)
	if code == 0 {
		t.Fatal("expected non-zero exit for schema violation")
	}
	if !strings.Contains(stderr, "fails schema") {
		t.Fatalf("expected schema error, got: %s", stderr)
	}
	if hits != 0 {
		t.Fatalf("platform hit %d times before validation, want 0", hits)
	}

	goodPath := writeTestFile(t, "good.json", `{"sku": "6901234567890", "price": 3.5}`)
	_, _, code = runCmd(t, "--config", configPath, "-f", goodPath, "data", "add",
		"--schema", schemaPath)
	if code != 0 {
		t.Fatalf("data add exit = %d for valid record", code)
	}
	if hits != 1 {
		t.Fatalf("platform hit %d times, want 1", hits)
	}
}

func TestDataUpdateMergesIDs(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	var body map[string]any
	f.handleFunc("/esl/data/update", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		writeBody(w, `{"code":200,"msg":"updated"}`)
	})

	reqPath := writeTestFile(t, "product.json", `{"price": 2.99}`)

	stdout, _, code := runCmd(t, "--config", configPath, "-f", reqPath, "data", "update", "23")
	if code != 0 {
		t.Fatalf("data update exit = %d", code)
	}
	if !strings.Contains(stdout, "updated") {
		t.Fatalf("expected update confirmation, got: %s", stdout)
	}
	if body["id"] != "23" || body["storeId"] != "100001" || body["price"] != 2.99 {
		t.Fatalf("request body = %v", body)
	}
}

func TestDataListWithCondition(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	f.handleFunc("/esl/data/list", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("condition"); got != "cola" {
			t.Errorf("condition = %q, want %q", got, "cola")
		}
		writeBody(w, `{"code":200,"msg":"success","data":{
			"currentPage":1,"pageSize":10,"totalNum":1,"isMore":0,"totalPage":1,"startIndex":0,
			"items":[{"id":"23","sku":"6901234567890","name":"Cola 330ml"}]
		}}`)
	})

	stdout, _, code := runCmd(t, "--config", configPath, "data", "list",
		"--condition", "cola", "--json")
	if code != 0 {
		t.Fatalf("data list exit = %d", code)
	}
	if !strings.Contains(stdout, "Cola 330ml") {
		t.Fatalf("expected product in output, got: %s", stdout)
	}
}

func TestDataBindings(t *testing.T) {
	f := newFakeCloud(t)
	configPath := setupEnv(t, f)

	f.handle("/esl/data/bindingList", `{"code":200,"msg":"success","data":{
		"currentPage":1,"pageSize":10,"totalNum":1,"isMore":0,"totalPage":1,"startIndex":0,
		"items":[{"id":"23","name":"Cola 330ml"}]
	}}`)

	stdout, _, code := runCmd(t, "--config", configPath, "data", "bindings", "--json")
	if code != 0 {
		t.Fatalf("data bindings exit = %d", code)
	}
	if !strings.Contains(stdout, "Cola 330ml") {
		t.Fatalf("expected bound product in output, got: %s", stdout)
	}
}
