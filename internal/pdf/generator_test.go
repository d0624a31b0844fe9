package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/contracts-billing/internal/model"
)

func TestGenerate(t *testing.T) {
	paid := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	doc := model.ReceiptDocument{
		Job: model.Job{
			ID:          100,
			Description: "Build authentication module",
			Price:       decimal.RequireFromString("1100"),
			IsPaid:      true,
			PaidDate:    &paid,
		},
		Contract:   model.Contract{ID: 10},
		Client:     model.Profile{FirstName: "John", LastName: "Doe", Profession: "Developer"},
		Contractor: model.Profile{FirstName: "Jane", LastName: "Smith", Profession: "Designer"},
	}

	generator, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	content, err := generator.Generate(doc)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("empty document")
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatalf("output does not look like a pdf: %q", content[:8])
	}
}
