package console

import (
	"fmt"
	"regexp"
	"strings"
)

// Selector is a CSS selector understood by the Driver. Playwright text
// pseudo-classes such as :has-text() are allowed.
type Selector string

func (s Selector) String() string { return string(s) }

// Part identifies a region or control of a configuration form.
type Part int

const (
	// PartRegion is the read-only region of the form.
	PartRegion Part = iota
	// PartEditingRegion is the region shown while the form is in edit mode.
	PartEditingRegion
	// PartEditButton is the "Edit" link of the read-only region.
	PartEditButton
	// PartResetButton is the "Reset" link of the read-only region.
	PartResetButton
	// PartSaveButton is the "Save" button of the editing region.
	PartSaveButton
	// PartInput is the editing input of an attribute.
	PartInput
	// PartSwitch is the clickable label of an attribute's boolean switch.
	PartSwitch
)

const editingSuffix = "-editing"

// Global selectors of the console shell.
const (
	RootContainer Selector = "#hal-root-container"
	SuccessToast  Selector = ".toast-notifications-list-pf .alert-success"
	ModalConfirm  Selector = ".modal-footer .btn-primary"
)

// FormSelector maps a form id, an attribute name and a form part to a
// selector. attr is ignored for parts that belong to the whole form.
func FormSelector(formID, attr string, part Part) Selector {
	switch part {
	case PartRegion:
		return Selector("#" + formID)
	case PartEditingRegion:
		return Selector("#" + formID + editingSuffix)
	case PartEditButton:
		return Selector(fmt.Sprintf(`#%s a.clickable[data-operation="edit"]`, formID))
	case PartResetButton:
		return Selector(fmt.Sprintf(`#%s a.clickable[data-operation="reset"]`, formID))
	case PartSaveButton:
		return Selector(fmt.Sprintf(`#%s%s button.btn.btn-hal.btn-primary:has-text("Save")`, formID, editingSuffix))
	case PartInput:
		return Selector("#" + formID + "-" + attr + editingSuffix)
	case PartSwitch:
		return Selector(fmt.Sprintf(`div[data-form-item-group=%s] .bootstrap-switch-label`,
			quote(formID+"-"+attr+editingSuffix)))
	default:
		panic(fmt.Sprintf("unknown form part %d", part))
	}
}

// TableCell selects the cells of a data table that contain text. The match
// is case-sensitive: "test" does not select a cell reading "TEST2".
func TableCell(tableID, text string) Selector {
	return Selector(fmt.Sprintf("#%s_wrapper td:text-matches(%s)", tableID, quote(regexp.QuoteMeta(text))))
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
