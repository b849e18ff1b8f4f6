package ui

// Option is one entry of a dropdown.
type Option struct {
	Value string
	Label string
}

// Dropdown is a selection menu that is either open or closed. The highlight
// moves only while open; choosing closes it.
type Dropdown struct {
	options     []Option
	selected    string
	highlighted int
	open        bool

	// OnSelect, if set, is called with the chosen value when it differs from
	// the current selection.
	OnSelect func(value string)
}

// NewDropdown creates a closed dropdown with the given options.
func NewDropdown(options ...Option) *Dropdown {
	return &Dropdown{options: options}
}

// SetOptions replaces the options. The selection is kept if still offered.
func (d *Dropdown) SetOptions(options []Option) {
	d.options = options
	if d.indexOf(d.selected) < 0 {
		d.selected = ""
	}
	d.highlighted = max(0, d.indexOf(d.selected))
}

// Options returns the current options.
func (d *Dropdown) Options() []Option { return d.options }

// IsOpen reports whether the menu is showing.
func (d *Dropdown) IsOpen() bool { return d.open }

// Selected returns the selected value, or "" when nothing is selected.
func (d *Dropdown) Selected() string { return d.selected }

// SelectedLabel returns the label of the selected option.
func (d *Dropdown) SelectedLabel() string {
	if i := d.indexOf(d.selected); i >= 0 {
		return d.options[i].Label
	}
	return ""
}

// Highlighted returns the index of the highlighted option.
func (d *Dropdown) Highlighted() int { return d.highlighted }

// SetSelected selects value without firing OnSelect. It is used to reflect a
// selection made elsewhere, such as a resolved default.
func (d *Dropdown) SetSelected(value string) bool {
	i := d.indexOf(value)
	if i < 0 {
		return false
	}
	d.selected = value
	d.highlighted = i
	return true
}

// Toggle opens a closed dropdown and closes an open one. Opening moves the
// highlight to the current selection.
func (d *Dropdown) Toggle() {
	if d.open {
		d.Close()
		return
	}
	if len(d.options) == 0 {
		return
	}
	d.open = true
	d.highlighted = max(0, d.indexOf(d.selected))
}

// Close hides the menu.
func (d *Dropdown) Close() { d.open = false }

// ClickOutside handles a pointer event outside the dropdown: it closes.
func (d *Dropdown) ClickOutside() { d.Close() }

// Down moves the highlight to the next option.
func (d *Dropdown) Down() {
	if d.open && d.highlighted < len(d.options)-1 {
		d.highlighted++
	}
}

// Up moves the highlight to the previous option.
func (d *Dropdown) Up() {
	if d.open && d.highlighted > 0 {
		d.highlighted--
	}
}

// Choose selects the highlighted option and closes the menu. It returns the
// chosen value and false when the dropdown was closed or empty.
func (d *Dropdown) Choose() (string, bool) {
	if !d.open || len(d.options) == 0 {
		return "", false
	}
	value := d.options[d.highlighted].Value
	changed := value != d.selected
	d.selected = value
	d.Close()
	if changed && d.OnSelect != nil {
		d.OnSelect(value)
	}
	return value, true
}

func (d *Dropdown) indexOf(value string) int {
	if value == "" {
		return -1
	}
	for i, option := range d.options {
		if option.Value == value {
			return i
		}
	}
	return -1
}
