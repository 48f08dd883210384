package minew_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/eslkit/minew-go/pkg/minew"
)

func TestGatewayService_Add(t *testing.T) {
	f := newFakePlatform(t)

	var got map[string]any
	f.handleFunc("/esl/gateway/add", func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		writeJSON(w, http.StatusOK, `{"code":200,"message":"success","data":null}`)
	})

	c := f.client(t)
	msg, err := c.Gateway.Add(context.Background(), "AC233FC03CEC", "GW-AC233FC03CEC", "1328266049345687552")
	if err != nil {
		t.Fatalf("Gateway.Add: %v", err)
	}
	if msg != "success" {
		t.Fatalf("msg = %q, want %q", msg, "success")
	}

	if got["mac"] != "AC233FC03CEC" || got["name"] != "GW-AC233FC03CEC" || got["storeId"] != "1328266049345687552" {
		t.Errorf("request body = %v, want mac/name/storeId fields", got)
	}
}

func TestGatewayService_Delete(t *testing.T) {
	f := newFakePlatform(t)

	var query map[string]string
	f.handleFunc("/esl/gateway/delete", func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"id":      r.URL.Query().Get("id"),
			"storeId": r.URL.Query().Get("storeId"),
		}
		writeJSON(w, http.StatusOK, `{"code":200,"message":"success","data":null}`)
	})

	c := f.client(t)
	msg, err := c.Gateway.Delete(context.Background(), "1349244935877955584", "1328266049345687552")
	if err != nil {
		t.Fatalf("Gateway.Delete: %v", err)
	}
	if msg != "success" {
		t.Fatalf("msg = %q, want %q", msg, "success")
	}
	if query["id"] != "1349244935877955584" || query["storeId"] != "1328266049345687552" {
		t.Fatalf("query = %v, want id and storeId", query)
	}
}

func TestGatewayService_List(t *testing.T) {
	// The gateway list endpoint reports its items at the top level of the
	// response, not under data.
	f := newFakePlatform(t)
	f.handle("/esl/gateway/listPage", `{
		"code": 200,
		"msg": "success",
		"currentPage": 1,
		"pageSize": 10,
		"totalNum": 2,
		"isMore": 0,
		"totalPage": 1,
		"startIndex": 0,
		"items": [
			{
				"id": "gateway1", "name": "Gateway 1", "mac": "AC233FC03CEC",
				"mode": 1, "hardware": "v1.0", "firmware": "v2.0",
				"product": "GW-101", "createTime": "2023-01-01", "updateTime": "2023-01-02"
			},
			{
				"id": "gateway2", "name": "Gateway 2", "mac": "AC233FC03CED",
				"mode": 0, "hardware": "v1.0", "firmware": "v2.0",
				"product": "GW-101", "createTime": "2023-01-03", "updateTime": "2023-01-04"
			}
		]
	}`)

	c := f.client(t)
	gateways, err := c.Gateway.List(context.Background(), "1326065100695539712", 1, 10)
	if err != nil {
		t.Fatalf("Gateway.List: %v", err)
	}
	if len(gateways) != 2 {
		t.Fatalf("len(gateways) = %d, want 2", len(gateways))
	}
	if gateways[0].ID != "gateway1" || gateways[0].Mode != 1 {
		t.Errorf("gateways[0] = %+v, want gateway1 mode 1", gateways[0])
	}
	if gateways[1].MAC != "AC233FC03CED" || gateways[1].Firmware != "v2.0" {
		t.Errorf("gateways[1] = %+v, want mac AC233FC03CED firmware v2.0", gateways[1])
	}
}

func TestGatewayService_Update(t *testing.T) {
	f := newFakePlatform(t)

	var got map[string]any
	f.handleFunc("/esl/gateway/update", func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		writeJSON(w, http.StatusOK, `{"code":200,"msg":"Gateway updated","data":null}`)
	})

	c := f.client(t)
	msg, err := c.Gateway.Update(context.Background(), "gateway1", "Renamed Gateway")
	if err != nil {
		t.Fatalf("Gateway.Update: %v", err)
	}
	if msg != "Gateway updated" {
		t.Fatalf("msg = %q, want %q", msg, "Gateway updated")
	}
	if got["id"] != "gateway1" || got["name"] != "Renamed Gateway" {
		t.Errorf("request body = %v, want id and name", got)
	}
}

func TestGatewayService_Restart(t *testing.T) {
	f := newFakePlatform(t)

	var query map[string]string
	f.handleFunc("/esl/gateway/restart", func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"id":      r.URL.Query().Get("id"),
			"storeId": r.URL.Query().Get("storeId"),
		}
		writeJSON(w, http.StatusOK, `{"code":200,"msg":"Restarting","data":null}`)
	})

	c := f.client(t)
	msg, err := c.Gateway.Restart(context.Background(), "gateway1", "1328266049345687552")
	if err != nil {
		t.Fatalf("Gateway.Restart: %v", err)
	}
	if msg != "Restarting" {
		t.Fatalf("msg = %q, want %q", msg, "Restarting")
	}
	if query["id"] != "gateway1" || query["storeId"] != "1328266049345687552" {
		t.Fatalf("query = %v, want id and storeId", query)
	}
}

func TestGatewayService_Upgrade(t *testing.T) {
	f := newFakePlatform(t)

	var got map[string]any
	f.handleFunc("/esl/gateway/upgrade", func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		writeJSON(w, http.StatusOK, `{"code":200,"msg":"Upgrade scheduled","data":null}`)
	})

	c := f.client(t)
	msg, err := c.Gateway.Upgrade(context.Background(), "gateway1", "1328266049345687552", "v3.0")
	if err != nil {
		t.Fatalf("Gateway.Upgrade: %v", err)
	}
	if msg != "Upgrade scheduled" {
		t.Fatalf("msg = %q, want %q", msg, "Upgrade scheduled")
	}
	if got["gatewayId"] != "gateway1" || got["firmwareVersion"] != "v3.0" {
		t.Errorf("request body = %v, want gatewayId and firmwareVersion", got)
	}
}

func TestGatewayService_Validation(t *testing.T) {
	f := newFakePlatform(t)
	c := f.client(t, minew.WithToken("cached"))
	ctx := context.Background()

	if _, err := c.Gateway.Add(ctx, "", "name", "store"); !minew.IsValidationError(err) {
		t.Errorf("Add without mac: err = %v, want validation error", err)
	}
	if _, err := c.Gateway.Delete(ctx, "", "store"); !minew.IsValidationError(err) {
		t.Errorf("Delete without id: err = %v, want validation error", err)
	}
	if _, err := c.Gateway.List(ctx, "", 1, 10); !minew.IsValidationError(err) {
		t.Errorf("List without store: err = %v, want validation error", err)
	}
	if _, err := c.Gateway.Upgrade(ctx, "gw", "store", ""); !minew.IsValidationError(err) {
		t.Errorf("Upgrade without firmware: err = %v, want validation error", err)
	}
}
