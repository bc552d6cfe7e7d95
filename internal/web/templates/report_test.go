package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/entities/internal/core"
	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/google/uuid"
)

func TestReport(t *testing.T) {
	lsa := entity.NewLightStateAction("5", "<script>", "myLights")
	data := ReportData{
		Records: []entity.Entity{lsa},
		Result: core.CrossCheckResult{
			Left: "csv", Right: "xml", LeftCount: 1, RightCount: 1,
			Matches: []core.Match{{Left: entity.NewVehicle("5", "<script>", "myLights"), Right: lsa}},
		},
	}

	var buf bytes.Buffer
	if err := Report(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "<script>") {
		t.Error("Report() should escape record names")
	}
	for _, want := range []string{"&lt;script&gt;", `class="lossy"`, "1 matched", "myLights"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report() output missing %q", want)
		}
	}
	if strings.Contains(out, "Recent saves") {
		t.Error("Report() rendered an empty history section")
	}
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorPage("Nothing here", "Save first", "IO002").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"Nothing here", "Save first", "Code: IO002"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("ErrorPage() output missing %q", want)
		}
	}
}

func TestReport_History(t *testing.T) {
	id := uuid.New()
	v := entity.NewVehicle("1", "Car A", "Model X")
	data := ReportData{
		Records: []entity.Entity{v},
		Result: core.CrossCheckResult{
			Left: "csv", Right: "xml", LeftCount: 1, RightCount: 1,
			Matches: []core.Match{{Left: v, Right: v}},
		},
		History: []core.SaveResult{{ID: id, Format: "xml", Count: 1, Duration: 2 * time.Millisecond}},
	}

	var buf bytes.Buffer
	if err := Report(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	if strings.Contains(out, `class="lossy"`) {
		t.Error("Report() marked a matching pair as lossy")
	}
	for _, want := range []string{"Recent saves", id.String(), "xml: 1 records in 2ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report() output missing %q", want)
		}
	}
}
