package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lexbot/internal/config"
	"lexbot/internal/nlu"
)

func TestFillSlotsSingleTurn(t *testing.T) {
	reg, err := NewRegistry(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	def, _ := reg.Get("agendar_audiencia")

	text := nlu.Normalize("agenda audiencia el 19 de enero a las 11:00, expediente 00820-2022")
	ents := nlu.NewExtractor(config.Default()).Extract(text)

	slots, missing := FillSlots(def, ents, text)
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}

	want := map[string]string{
		"fecha":             "2025-01-19",
		"hora":              "11:00 AM",
		"numero_expediente": "00820-2022",
	}
	got := make(map[string]string, len(slots))
	for name, v := range slots {
		got[name] = v.Display()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("slot mismatch (-want +got):\n%s", diff)
	}
}

func TestFillSlotsReportsMissingInOrder(t *testing.T) {
	reg, err := NewRegistry(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	def, _ := reg.Get("agendar_audiencia")

	text := nlu.Normalize("agenda audiencia")
	slots, missing := FillSlots(def, nlu.Entities{}, text)
	if len(slots) != 0 {
		t.Errorf("slots = %v, want empty", slots)
	}
	if len(missing) != 1 || missing[0] != "fecha" {
		t.Errorf("missing = %v, want [fecha]", missing)
	}
}

func TestFillSlotsTextCapture(t *testing.T) {
	reg, err := NewRegistry(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	def, _ := reg.Get("crear_caso")

	text := nlu.Normalize("crea un caso para maria lopez sobre divorcio")
	slots, missing := FillSlots(def, nlu.Entities{}, text)
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
	if got := slots["nombre_cliente"].Display(); got != "maria lopez sobre divorcio" && got != "maria lopez" {
		t.Errorf("nombre_cliente = %q", got)
	}
	if got := slots["materia"].Display(); got != "divorcio" {
		t.Errorf("materia = %q, want divorcio", got)
	}
}

func TestSlotSetMergeNewerWins(t *testing.T) {
	a := SlotSet{"fecha": DateValue(nlu.Date{Day: 1, Month: 1, Year: 2025})}
	b := SlotSet{"fecha": DateValue(nlu.Date{Day: 2, Month: 2, Year: 2025})}
	a.Merge(b)
	if got := a["fecha"].Display(); got != "2025-02-02" {
		t.Errorf("fecha = %q, want 2025-02-02", got)
	}
}
