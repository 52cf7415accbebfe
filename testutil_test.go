package hwpxfill

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// tc renders one <hp:tc> whose paragraph holds inner, followed by the address
// and span elements the way Hancom writes them.
func tc(col, row, colSpan, rowSpan int, inner string) string {
	return `<hp:tc name="" header="0" hasMargin="0" protect="0" editable="0" dirty="0" borderFillIDRef="3">` +
		`<hp:subList id="" textDirection="HORIZONTAL" lineWrap="BREAK" vertAlign="CENTER">` +
		`<hp:p id="0" paraPrIDRef="20" styleIDRef="0" pageBreak="0" columnBreak="0" merged="0">` +
		inner +
		`</hp:p></hp:subList>` +
		fmt.Sprintf(`<hp:cellAddr colAddr="%d" rowAddr="%d"/>`, col, row) +
		fmt.Sprintf(`<hp:cellSpan colSpan="%d" rowSpan="%d"/>`, colSpan, rowSpan) +
		`<hp:cellSz width="7000" height="2000"/>` +
		`<hp:cellMargin left="510" right="510" top="141" bottom="141"/>` +
		`</hp:tc>`
}

// emptyRun is a placeholder run with the given character shape reference.
func emptyRun(ref string) string {
	return `<hp:run charPrIDRef="` + ref + `"/>`
}

// textRun is a populated run.
func textRun(ref, text string) string {
	return `<hp:run charPrIDRef="` + ref + `"><hp:t>` + text + `</hp:t></hp:run>`
}

// section wraps rows of cells in a table inside a minimal section document.
func section(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>`)
	b.WriteString(`<hs:sec xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph" xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section">`)
	b.WriteString(`<hp:p id="1"><hp:run charPrIDRef="0"><hp:tbl id="100" rowCnt="` + fmt.Sprint(len(rows)) + `">`)
	for _, cells := range rows {
		b.WriteString("\n  <hp:tr>")
		for _, c := range cells {
			b.WriteString(c)
		}
		b.WriteString("</hp:tr>")
	}
	b.WriteString("\n</hp:tbl></hp:run></hp:p></hs:sec>")
	return b.String()
}

// sampleSection is a small form:
//
//	(0,0) "No."        (1,0) label + empty run, colspan 2   (3,0) empty
//	(0,1) empty "18"   (1,1) empty "18" + empty "19"        (2,1) "0"     (3,1) no runs
func sampleSection() string {
	return section(
		[]string{
			tc(0, 0, 1, 1, textRun("7", "No.")),
			tc(1, 0, 2, 1, textRun("7", "Address")+emptyRun("18")),
			tc(3, 0, 1, 1, emptyRun("18")),
		},
		[]string{
			tc(0, 1, 1, 1, emptyRun("18")),
			tc(1, 1, 1, 1, emptyRun("18")+emptyRun("19")),
			tc(2, 1, 1, 1, textRun("7", "0")),
			tc(3, 1, 1, 1, ""),
		},
	)
}

// writeHWPX writes an HWPX-shaped archive holding sec as Contents/section0.xml.
func writeHWPX(t *testing.T, dir, name, sec string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := []struct {
		name   string
		method uint16
		body   string
	}{
		{"mimetype", zip.Store, "application/hwp+zip"},
		{"version.xml", zip.Deflate, `<?xml version="1.0"?><hv:HCFVersion major="5" minor="1"/>`},
		{"Contents/header.xml", zip.Deflate, `<?xml version="1.0"?><hh:head/>`},
		{"Contents/section0.xml", zip.Deflate, sec},
		{"Preview/PrvText.txt", zip.Deflate, "preview"},
	}
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: p.method})
		require.NoError(t, err)
		_, err = w.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// writeXLSX writes a single-sheet workbook with the given rows starting at A1.
func writeXLSX(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
