package loader

import (
	"bytes"
	"encoding/csv"
	"os"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSVFile(path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(body, utf8BOM), nil
}

// unmarshalCSV tolerates rows with missing trailing columns.
func unmarshalCSV(body []byte, destination interface{}) error {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	return gocsv.UnmarshalCSV(reader, destination)
}

func csvHeader(body []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	return reader.Read()
}
