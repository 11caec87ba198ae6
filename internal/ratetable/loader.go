package ratetable

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var hundred = decimal.NewFromInt(100)

type columns struct {
	postcode int
	service  int
	// pallets[i] is the column holding the price for i+1 pallets
	pallets []int
}

func LoadFile(path string, layout Layout) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Load(file, layout)
}

// Load reads both carrier sheets and the Joda surcharge cell into a Table.
func Load(r io.Reader, layout Layout) (*Table, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &MalformedTableError{Reason: "unreadable workbook", Err: err}
	}
	defer workbook.Close()

	present := make(map[string]bool)
	for _, name := range workbook.GetSheetList() {
		present[name] = true
	}

	var entries []RateEntry
	for _, carrier := range Carriers {
		sheet := layout.Sheets[carrier]
		if sheet == "" || !present[sheet] {
			return nil, malformed(sheet, 0, "missing %s sheet", carrier)
		}

		rows, err := workbook.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &MalformedTableError{Sheet: sheet, Reason: "unreadable sheet", Err: err}
		}

		sheetEntries, err := readSheet(carrier, sheet, rows, layout)
		if err != nil {
			return nil, err
		}

		entries = append(entries, sheetEntries...)
	}

	if !present[layout.SurchargeSheet] {
		return nil, malformed(layout.SurchargeSheet, 0, "missing surcharge sheet")
	}

	surcharge, err := readSurcharge(workbook, layout)
	if err != nil {
		return nil, err
	}

	table, err := NewTable(entries, surcharge)
	if err != nil {
		return nil, &MalformedTableError{Reason: "invalid entries", Err: err}
	}

	return table, nil
}

func readSheet(carrier Carrier, sheet string, rows [][]string, layout Layout) ([]RateEntry, error) {
	if len(rows) < layout.HeaderRow {
		return nil, malformed(sheet, layout.HeaderRow, "missing header row")
	}

	cols, err := findColumns(sheet, rows[layout.HeaderRow-1], layout)
	if err != nil {
		return nil, err
	}

	var (
		entries     []RateEntry
		lastPrefix  string
		lastService string
	)

	for i := layout.HeaderRow; i < len(rows); i++ {
		row := rows[i]
		rowNumber := i + 1

		if isBlank(row) {
			continue
		}

		serviceCell := cellAt(row, cols.service)
		if matchesHeader(layout.ServiceHeaders, serviceCell) {
			continue
		}

		// merged cells only carry a value in their first row
		prefix := NormalizePrefix(cellAt(row, cols.postcode))
		if prefix == "" {
			prefix = lastPrefix
		}
		lastPrefix = prefix

		if serviceCell == "" {
			serviceCell = lastService
		}
		lastService = serviceCell

		prices, err := readPrices(sheet, rowNumber, row, cols, layout.PricePlaces)
		if err != nil {
			return nil, err
		}
		if len(prices) == 0 {
			continue
		}

		if prefix == "" {
			return nil, malformed(sheet, rowNumber, "prices without a postcode prefix")
		}
		if serviceCell == "" {
			return nil, malformed(sheet, rowNumber, "prices without a service type")
		}

		service, err := ParseServiceType(serviceCell)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, rowNumber, err)
		}

		entries = append(entries, RateEntry{
			Carrier:        carrier,
			PostcodePrefix: prefix,
			Service:        service,
			Prices:         prices,
		})
	}

	return entries, nil
}

func findColumns(sheet string, header []string, layout Layout) (columns, error) {
	cols := columns{postcode: -1, service: -1}
	palletColumns := make(map[int]int)

	for i, cell := range header {
		switch {
		case strings.TrimSpace(cell) == "":
		case matchesHeader(layout.PostcodeHeaders, cell):
			if cols.postcode < 0 {
				cols.postcode = i
			}
		case matchesHeader(layout.ServiceHeaders, cell):
			if cols.service < 0 {
				cols.service = i
			}
		default:
			count, ok := palletHeader(cell)
			if !ok {
				continue
			}
			if _, duplicate := palletColumns[count]; duplicate {
				return cols, malformed(sheet, layout.HeaderRow, "duplicate column for %d pallets", count)
			}
			palletColumns[count] = i
		}
	}

	if cols.postcode < 0 {
		return cols, malformed(sheet, layout.HeaderRow, "missing postcode column")
	}
	if cols.service < 0 {
		return cols, malformed(sheet, layout.HeaderRow, "missing service column")
	}
	if len(palletColumns) == 0 {
		return cols, malformed(sheet, layout.HeaderRow, "missing pallet count columns")
	}

	for count := 1; count <= len(palletColumns); count++ {
		column, ok := palletColumns[count]
		if !ok {
			return cols, malformed(sheet, layout.HeaderRow, "pallet count columns are not contiguous from 1")
		}
		cols.pallets = append(cols.pallets, column)
	}

	return cols, nil
}

// readPrices stops at the first blank price; a price after a blank is an error.
func readPrices(sheet string, rowNumber int, row []string, cols columns, places int32) ([]decimal.Decimal, error) {
	var (
		prices  []decimal.Decimal
		blankAt int
	)

	for i, column := range cols.pallets {
		raw := cleanAmount(cellAt(row, column))
		if raw == "" {
			if blankAt == 0 {
				blankAt = i + 1
			}
			continue
		}

		if blankAt != 0 {
			return nil, malformed(sheet, rowNumber, "price for %d pallets follows a blank price for %d pallets", i+1, blankAt)
		}

		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &MalformedTableError{
				Sheet:  sheet,
				Row:    rowNumber,
				Reason: fmt.Sprintf("non-numeric price for %d pallets", i+1),
				Err:    err,
			}
		}
		if price.IsNegative() {
			return nil, malformed(sheet, rowNumber, "negative price for %d pallets", i+1)
		}

		prices = append(prices, price.Round(places))
	}

	return prices, nil
}

// readSurcharge reads percentage points. A cell formatted as a percentage
// holds a fraction and is scaled by 100. A blank cell means no surcharge.
func readSurcharge(workbook *excelize.File, layout Layout) (decimal.Decimal, error) {
	sheet, axis := layout.SurchargeSheet, layout.SurchargeCell

	raw, err := workbook.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return decimal.Zero, &MalformedTableError{Sheet: sheet, Reason: "unreadable surcharge cell " + axis, Err: err}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}

	formatted, err := workbook.GetCellValue(sheet, axis)
	if err != nil {
		return decimal.Zero, &MalformedTableError{Sheet: sheet, Reason: "unreadable surcharge cell " + axis, Err: err}
	}
	scale := strings.HasSuffix(strings.TrimSpace(formatted), "%") && !strings.HasSuffix(raw, "%")

	value, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(raw, "%")))
	if err != nil {
		return decimal.Zero, &MalformedTableError{Sheet: sheet, Reason: "non-numeric surcharge in " + axis, Err: err}
	}
	if scale {
		value = value.Mul(hundred)
	}
	if value.IsNegative() {
		return decimal.Zero, malformed(sheet, 0, "negative surcharge in %s", axis)
	}

	return value, nil
}

func palletHeader(cell string) (int, bool) {
	value, err := decimal.NewFromString(strings.TrimSpace(cell))
	if err != nil || !value.IsInteger() || !value.IsPositive() {
		return 0, false
	}

	return int(value.IntPart()), true
}

func matchesHeader(aliases []string, cell string) bool {
	label := strings.ToLower(strings.TrimSpace(cell))
	for _, alias := range aliases {
		if label == alias {
			return true
		}
	}

	return false
}

func cellAt(row []string, column int) string {
	if column < 0 || column >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[column])
}

func cleanAmount(value string) string {
	value = strings.TrimPrefix(value, "£")
	return strings.ReplaceAll(value, ",", "")
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
