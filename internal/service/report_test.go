package service

import (
	"strings"
	"testing"
	"time"

	"github.com/package-manager/backend/internal/models"
)

func reportFixture() *models.Package {
	itemID := int64(1)
	chargerID := int64(2)
	return &models.Package{
		ID:          1,
		Name:        "Order1",
		BoxSize:     "24x20x20",
		TotalWeight: 5.5,
		IsCompleted: false,
		CreatedDate: time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC),
		Items: []models.PackageItem{
			{ID: 1, ItemID: &itemID, ItemName: "MacBook", Quantity: 2},
			{ID: 2, ItemID: &chargerID, ItemName: "Charger", Quantity: 1},
		},
	}
}

func TestGenerateReport(t *testing.T) {
	want := strings.Join([]string{
		"Package: Order1",
		"Box Size: 24x20x20",
		"Total Weight: 5.5 lb",
		"Status: In Progress",
		"Created: 3/5/2024",
		"",
		"Items:",
		"- MacBook x2",
		"- Charger x1",
		"",
		"Total Items: 3",
	}, "\n")

	got := GenerateReport(reportFixture())
	if got != want {
		t.Errorf("GenerateReport() =\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateReport_Deterministic(t *testing.T) {
	pkg := reportFixture()
	first := GenerateReport(pkg)
	second := GenerateReport(pkg)
	if first != second {
		t.Error("GenerateReport() must be reproducible from the same snapshot")
	}
}

func TestGenerateReport_Fallbacks(t *testing.T) {
	pkg := &models.Package{
		Name:        "Empty",
		IsCompleted: true,
		CreatedDate: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	got := GenerateReport(pkg)

	for _, line := range []string{
		"Box Size: N/A",
		"Total Weight: N/A",
		"Status: Completed",
		"Created: 12/31/2024",
		"Total Items: 0",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("report missing %q:\n%s", line, got)
		}
	}
}

func TestGenerateReport_WholeWeights(t *testing.T) {
	pkg := reportFixture()
	pkg.TotalWeight = 12

	got := GenerateReport(pkg)
	if !strings.Contains(got, "Total Weight: 12 lb") {
		t.Errorf("whole weights must render without a decimal point:\n%s", got)
	}
}
