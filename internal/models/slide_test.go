package models

import (
	"encoding/json"
	"testing"
)

func TestSlideAcceptsNumericTextFields(t *testing.T) {
	raw := `{"type":"welcome","stats":[{"number":100,"label":"blokhutten"},{"number":"3D","label":"tekening"}],"price":1299.5}`

	var s Slide
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Stats[0].Number != "100" || s.Stats[1].Number != "3D" {
		t.Errorf("stats = %+v", s.Stats)
	}
	if s.Price != "1299.5" {
		t.Errorf("price = %q", s.Price)
	}
}

func TestSlideOmitsAbsentFields(t *testing.T) {
	out, err := json.Marshal(Slide{ID: "a", Type: SlideTypeProduct, Title: "X"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(out), `{"id":"a","type":"product","title":"X"}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTextRejectsObjects(t *testing.T) {
	var tx Text
	if err := json.Unmarshal([]byte(`{"a":1}`), &tx); err == nil {
		t.Fatal("expected error for object")
	}
}

func TestDecodeSlideSkipsMistypedFields(t *testing.T) {
	s, err := DecodeSlide(json.RawMessage(`{"title":"A","qr":"yes","url":"shop.nl","stats":"many"}`))
	if err == nil {
		t.Fatal("expected error naming the skipped fields")
	}
	if got := err.Error(); got != "skipped mistyped slide fields: qr, stats" {
		t.Errorf("err = %q", got)
	}
	if s.Title != "A" || s.URL != "shop.nl" || s.QR || s.Stats != nil {
		t.Errorf("slide = %+v", s)
	}
}

func TestDecodeSlidesKeepsPositions(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"title":"A"}`),
		json.RawMessage(`42`),
		json.RawMessage(`{"title":"C","extra":{"x":1}}`),
	}
	list, err := DecodeSlides(raws)
	if err == nil {
		t.Error("expected error for the non-object element")
	}
	if len(list) != 3 || list[0].Title != "A" || list[1].Title != "" || list[2].Title != "C" {
		t.Errorf("list = %+v", list)
	}
}
