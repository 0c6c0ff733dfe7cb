package form

import "github.com/patric-chuzhbe/usersignup/internal/geo"

// Row is one line of the users table.
type Row struct {
	// Number is the 1-based row number shown to the operator.
	Number int

	// Index is the cache position passed to BeginEdit.
	Index int

	Name   string
	Mobile string
}

// View is a read-only snapshot of everything the page renders.
type View struct {
	Fields Fields

	// States lists the selectable states in table order.
	States []string

	// CityOptions are the cities of the selected state; empty when no state is selected.
	CityOptions  []string
	CityDisabled bool

	// Rows is empty when the cache is; the page then shows a placeholder row.
	Rows []Row

	Editing     bool
	SubmitLabel string
}

// View projects the controller state for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]Row, 0, len(c.users))
	for i, record := range c.users {
		rows = append(rows, Row{
			Number: i + 1,
			Index:  i,
			Name:   record.Name,
			Mobile: record.Mobile,
		})
	}

	submitLabel := "Save"
	if c.editTarget != nil {
		submitLabel = "Update"
	}

	return View{
		Fields:       c.fields,
		States:       geo.States(),
		CityOptions:  geo.Cities(c.fields.State),
		CityDisabled: c.fields.State == "",
		Rows:         rows,
		Editing:      c.editTarget != nil,
		SubmitLabel:  submitLabel,
	}
}
