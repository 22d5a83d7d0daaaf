package entity

import "fmt"

// Cell — адрес одной ячейки в Google Sheets.
type Cell struct {
	Sheet  string
	Column string
	Row    int
}

// A1 возвращает адрес в нотации A1, например "Automatedtest!A2".
func (c Cell) A1() string {
	if c.Sheet == "" {
		return fmt.Sprintf("%s%d", c.Column, c.Row)
	}
	return fmt.Sprintf("%s!%s%d", c.Sheet, c.Column, c.Row)
}
