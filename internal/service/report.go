package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/package-manager/backend/internal/models"
)

// GenerateReport renders a package as a plain-text packing report. It is a
// pure function of the package snapshot: the same input always produces the
// same text.
func GenerateReport(pkg *models.Package) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Package: %s\n", pkg.Name)

	boxSize := pkg.BoxSize
	if boxSize == "" {
		boxSize = "N/A"
	}
	fmt.Fprintf(&b, "Box Size: %s\n", boxSize)

	weight := "N/A"
	if pkg.TotalWeight != 0 {
		weight = strconv.FormatFloat(pkg.TotalWeight, 'f', -1, 64) + " lb"
	}
	fmt.Fprintf(&b, "Total Weight: %s\n", weight)

	status := "In Progress"
	if pkg.IsCompleted {
		status = "Completed"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)

	fmt.Fprintf(&b, "Created: %s\n\n", pkg.CreatedDate.Format("1/2/2006"))

	b.WriteString("Items:\n")
	for _, item := range pkg.Items {
		fmt.Fprintf(&b, "- %s x%d\n", item.ItemName, item.Quantity)
	}

	fmt.Fprintf(&b, "\nTotal Items: %d", pkg.TotalQuantity())

	return b.String()
}
