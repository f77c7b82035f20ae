package handler

import (
	"mime/multipart"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readSheetRows opens an uploaded xlsx file and returns the rows of its first
// sheet. A header row whose first cell names the tag column is dropped.
func readSheetRows(file *multipart.FileHeader) ([][]string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		first := strings.ToLower(strings.TrimSpace(rows[0][0]))
		if first == "tag_id" || first == "tag id" || first == "tagid" || first == "rfid" || first == "epc" {
			rows = rows[1:]
		}
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
