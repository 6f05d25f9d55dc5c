package api

import (
	"strings"
	"testing"

	"google.golang.org/protobuf/types/known/emptypb"
)

func TestCodec(t *testing.T) {
	var c Codec
	if c.Name() != "json" {
		t.Fatalf("Name = %q, want json", c.Name())
	}

	t.Run("plain messages use encoding/json", func(t *testing.T) {
		amount := "40.00"
		b, err := c.Marshal(&PayDebtRequest{DebtID: "d1", Amount: &amount})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), `"debt_id":"d1"`) || !strings.Contains(string(b), `"amount":"40.00"`) {
			t.Errorf("unexpected encoding %s", b)
		}

		var got PayDebtRequest
		if err := c.Unmarshal([]byte(`{"debt_id":"d2"}`), &got); err != nil {
			t.Fatal(err)
		}
		if got.DebtID != "d2" || got.Amount != nil {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("protobuf messages use protojson", func(t *testing.T) {
		b, err := c.Marshal(&emptypb.Empty{})
		if err != nil {
			t.Fatal(err)
		}
		if strings.ReplaceAll(string(b), " ", "") != "{}" {
			t.Errorf("Empty encoded as %s", b)
		}
		if err := c.Unmarshal(b, &emptypb.Empty{}); err != nil {
			t.Errorf("Unmarshal Empty: %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		var got ListCategoriesRequest
		if err := c.Unmarshal(nil, &got); err != nil {
			t.Errorf("Unmarshal(nil) = %v", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		var got GetWalletRequest
		if err := c.Unmarshal([]byte(`{"person":`), &got); err == nil {
			t.Error("expected an error")
		}
	})
}
