package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dtroode/deltacargo-server/internal/model"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatXLSX, DetectFormat("batch.XLSX"))
	assert.Equal(t, FormatCSV, DetectFormat("batch.csv"))
	assert.Equal(t, FormatText, DetectFormat("batch.txt"))
	assert.Equal(t, FormatText, DetectFormat("batch"))
}

func TestParse_Text(t *testing.T) {
	t.Parallel()

	rows, err := Parse("list.txt", []byte("KZ1\n  KZ2  \n\nnan\r\nKZ3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"KZ1", "KZ2", "KZ3"}, rows)
}

func TestParse_CSV(t *testing.T) {
	t.Parallel()

	rows, err := Parse("list.csv", []byte("KZ1,ignored\nKZ2\n\"KZ 3\",x,y\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"KZ1", "KZ2", "KZ 3"}, rows)
}

func TestParse_CSVMalformed(t *testing.T) {
	t.Parallel()

	_, err := Parse("list.csv", []byte("\"unterminated\nKZ2\n"))
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestParse_XLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "KZ100"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "comment"))
	require.NoError(t, f.SetCellValue(sheet, "A2", " KZ200 "))
	require.NoError(t, f.SetCellValue(sheet, "A4", "KZ400"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := Parse("batch.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"KZ100", "KZ200", "KZ400"}, rows)
}

func TestParse_XLSXCorrupt(t *testing.T) {
	t.Parallel()

	_, err := Parse("batch.xlsx", []byte("definitely not a zip"))
	require.ErrorIs(t, err, model.ErrValidation)
}
