package render

import (
	"bytes"
	"testing"

	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/view"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	rows := []view.Row{
		{Employee: "Alice Doe", Date: "Jan 6, 2024", CheckIn: "09:00", CheckOut: "17:30", WorkedHours: "08:30", Status: model.StatusPresent},
		{Employee: "bob", Date: "Jan 6, 2024", CheckIn: "--", CheckOut: "--", WorkedHours: "--", Status: model.StatusAbsent},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rows); err != nil {
		t.Fatalf("WriteXLSX がエラーを返した: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("出力をXLSXとして開けない: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows がエラーを返した: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("行数 = %d, want 3", len(got))
	}
	if got[0][0] != "Employee" || got[0][5] != "Status" {
		t.Errorf("ヘッダー = %v", got[0])
	}
	if got[1][0] != "Alice Doe" || got[1][4] != "08:30" {
		t.Errorf("1行目 = %v", got[1])
	}
	if got[2][5] != "ABSENT" {
		t.Errorf("2行目 = %v", got[2])
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil); err != nil {
		t.Fatalf("WriteXLSX がエラーを返した: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("出力をXLSXとして開けない: %v", err)
	}
	defer f.Close()

	got, _ := f.GetRows(SheetName)
	if len(got) != 1 {
		t.Errorf("ヘッダーのみであるべき: %v", got)
	}
}
