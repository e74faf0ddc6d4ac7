package contract

import (
	"bytes"
	"fmt"
	"strings"

	"polaris-hq/borealis/pkg/catalog"
	"polaris-hq/borealis/pkg/quote"
)

// BuildPolicyPDF renders the policy document for validated answers as a
// single-page PDF. The generator is a boundary collaborator: it performs
// no business logic, only label lookups over data the engine already
// validated, and its contract with callers is simply "well-formed PDF
// bytes" (the %PDF header, one page of text).
//
// The writer assembles the handful of PDF objects by hand. Text is
// restricted to the standard Helvetica font, so non-ASCII label characters
// degrade to placeholders rather than failing the document.
func BuildPolicyPDF(cat *catalog.Catalog, answers map[string]any, p Params) ([]byte, error) {
	lines := policyLines(cat, answers, p)
	return writePDF(lines)
}

func policyLines(cat *catalog.Catalog, answers map[string]any, p Params) []string {
	lines := []string{
		issuerName(cat),
		fmt.Sprintf("Policy no. %s", p.PolicyNumber),
		fmt.Sprintf("Issued (UTC): %s", p.IssuedAtUTC),
		"",
		"Insurance Policy",
		"",
	}

	var objectLabels []string
	for _, id := range stringList(answers[quote.FieldObjectsSelected]) {
		objectLabels = append(objectLabels, cat.ItemLabel(DictInsuranceObjects, id))
	}
	if len(objectLabels) == 0 {
		objectLabels = []string{"-"}
	}
	lines = append(lines, "Insured objects: "+strings.Join(objectLabels, ", "))

	for _, fid := range []string{fieldInsuredSum, fieldDeductible, fieldCoverageLimit} {
		if v, ok := answers[fid]; ok && v != nil && v != "" {
			label := fid
			if f, ok := cat.FieldByID(fid); ok && f.Label != "" {
				label = f.Label
			}
			lines = append(lines, fmt.Sprintf("%s: %v", label, v))
		}
	}

	risks := SelectedRisks(cat, answers)
	if len(risks) > 0 {
		lines = append(lines, "", "Covered risks:")
		for _, id := range risks {
			lines = append(lines, "  - "+cat.ItemLabel(quote.DictRisks, id))
		}
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Premium: %d %s", p.PremiumTotal, cat.Currency()),
		fmt.Sprintf("Tariff: %.2f", p.TariffTotal),
		"",
		fmt.Sprintf("Quote reference: %s", p.QuoteID),
	)
	return lines
}

// writePDF emits a minimal but structurally valid single-page PDF: catalog,
// page tree, one page, the Helvetica font, a text content stream, the xref
// table, and the trailer.
func writePDF(lines []string) ([]byte, error) {
	var content bytes.Buffer
	content.WriteString("BT\n/F1 11 Tf\n14 TL\n56 780 Td\n")
	for i, line := range lines {
		if i > 0 {
			content.WriteString("T*\n")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", escapePDFText(line))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return buf.Bytes(), nil
}

// escapePDFText escapes the PDF string delimiters and squashes characters
// outside the Helvetica-safe ASCII range.
func escapePDFText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			if r < 0x20 || r > 0x7e {
				sb.WriteByte('?')
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}
