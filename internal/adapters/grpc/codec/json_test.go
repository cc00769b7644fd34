package codec

import (
	"testing"

	"google.golang.org/grpc/encoding"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type sample struct {
	Name string `json:"nombre"`
}

func TestJSON_Registered(t *testing.T) {
	t.Parallel()

	if encoding.GetCodec(Name) == nil {
		t.Fatal("json codec is not registered")
	}
}

func TestJSON_PlainStruct(t *testing.T) {
	t.Parallel()

	var c JSON
	b, err := c.Marshal(&sample{Name: "Ana"})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(b) != `{"nombre":"Ana"}` {
		t.Fatalf("unexpected payload: %s", b)
	}

	var out sample
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if out.Name != "Ana" {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestJSON_EmptyPayload(t *testing.T) {
	t.Parallel()

	var out sample
	if err := (JSON{}).Unmarshal(nil, &out); err != nil {
		t.Fatalf("expected empty payload to decode into zero value, got %v", err)
	}
}

func TestJSON_ProtoMessage(t *testing.T) {
	t.Parallel()

	var c JSON
	b, err := c.Marshal(&healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var out healthpb.HealthCheckResponse
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if out.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("unexpected status: %v", out.GetStatus())
	}
}
