package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseEntriesTolerantOfSurroundingProse(t *testing.T) {
	content := "Sure, here you go:\n[{\"folder_name\":\"Show A\",\"cn_name\":\"节目甲\",\"en_name\":\"Show A\",\"year\":\"2019\",\"catalog_id\":\"123\"}]\nLet me know if you need more."
	out, err := parseEntries(content)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := out["Show A"]
	if !ok {
		t.Fatal("expected entry for Show A")
	}
	if entry.CNName == nil || *entry.CNName != "节目甲" {
		t.Errorf("got CNName %v, want 节目甲", entry.CNName)
	}
	if entry.Year == nil || *entry.Year != 2019 {
		t.Errorf("got Year %v, want 2019", entry.Year)
	}
	if entry.CatalogID == nil || *entry.CatalogID != 123 {
		t.Errorf("got CatalogID %v, want 123", entry.CatalogID)
	}
}

func TestParseEntriesAliasNormalization(t *testing.T) {
	content := `[{"folder_name":"Show B","zh_name":"节目乙","en_name":null,"year":null,"catalog_id":null}]`
	out, err := parseEntries(content)
	if err != nil {
		t.Fatal(err)
	}
	entry := out["Show B"]
	if entry.CNName == nil || *entry.CNName != "节目乙" {
		t.Errorf("zh_name alias not normalized to cn_name: got %v", entry.CNName)
	}
	if entry.ENName != nil {
		t.Errorf("expected nil ENName, got %v", *entry.ENName)
	}
}

func TestParseEntriesEchoedEnrichmentKeyStripped(t *testing.T) {
	content := `[{"folder_name":"Show C | First file: Show.C.S01E01.mkv","cn_name":null,"en_name":"Show C","year":null,"catalog_id":null}]`
	out, err := parseEntries(content)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out["Show C"]; !ok {
		t.Fatal("expected key normalized back to bare folder name \"Show C\"")
	}
}

func TestExtractPreservesOrderDespiteModelOmission(t *testing.T) {
	// The model returns results for only two of three folders, out of
	// input order; Extract must still return three entries in input order,
	// null-filling the one the model dropped.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `[{"folder_name":"C","cn_name":null,"en_name":"Show C","year":null,"catalog_id":null},` +
			`{"folder_name":"A","cn_name":null,"en_name":"Show A","year":null,"catalog_id":null}]`
		resp := chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: body}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	x := New(Config{BaseURL: srv.URL, Model: "test-model", BatchSize: 10}, srv.Client())
	out, err := x.Extract(context.Background(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
	if out[0].FolderName != "A" || out[0].ENName == nil || *out[0].ENName != "Show A" {
		t.Errorf("entry 0 = %+v", out[0])
	}
	if out[1].FolderName != "B" || out[1].ENName != nil {
		t.Errorf("entry 1 (omitted by model) should be null-filled, got %+v", out[1])
	}
	if out[2].FolderName != "C" || out[2].ENName == nil || *out[2].ENName != "Show C" {
		t.Errorf("entry 2 = %+v", out[2])
	}
}

func TestExtractChunkErrorNullFillsWithoutAbortingOtherChunks(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body := `[{"folder_name":"C","cn_name":null,"en_name":"Show C","year":null,"catalog_id":null}]`
		resp := chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: body}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	x := New(Config{BaseURL: srv.URL, Model: "test-model", BatchSize: 1}, srv.Client())
	out, err := x.Extract(context.Background(), []string{"A", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if out[0].ENName != nil {
		t.Errorf("expected chunk A's failure to null-fill, got %+v", out[0])
	}
	if out[1].ENName == nil || *out[1].ENName != "Show C" {
		t.Errorf("expected chunk C to still succeed, got %+v", out[1])
	}
}
