package console

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormSelector(t *testing.T) {
	const form = "logging-root-logger-form"

	tests := []struct {
		name string
		attr string
		part Part
		want Selector
	}{
		{"region", "", PartRegion, "#logging-root-logger-form"},
		{"editing region", "", PartEditingRegion, "#logging-root-logger-form-editing"},
		{"edit button", "", PartEditButton, `#logging-root-logger-form a.clickable[data-operation="edit"]`},
		{"reset button", "", PartResetButton, `#logging-root-logger-form a.clickable[data-operation="reset"]`},
		{"save button", "", PartSaveButton, `#logging-root-logger-form-editing button.btn.btn-hal.btn-primary:has-text("Save")`},
		{"input", "level", PartInput, "#logging-root-logger-form-level-editing"},
		{"switch", "enabled", PartSwitch, `div[data-form-item-group="logging-root-logger-form-enabled-editing"] .bootstrap-switch-label`},
		{"attr ignored for form parts", "level", PartEditingRegion, "#logging-root-logger-form-editing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormSelector(form, tt.attr, tt.part))
		})
	}
}

func TestFormSelectorUnknownPart(t *testing.T) {
	assert.Panics(t, func() { FormSelector("form", "", Part(99)) })
}

func TestTableCell(t *testing.T) {
	assert.Equal(t, Selector(`#mail-session-table_wrapper td:text-matches("default")`), TableCell("mail-session-table", "default"))
	assert.Equal(t, Selector(`#t_wrapper td:text-matches("a \"quoted\" name")`), TableCell("t", `a "quoted" name`))
	assert.Equal(t, Selector(`#t_wrapper td:text-matches("java:/mail/test\\.1")`), TableCell("t", "java:/mail/test.1"))
}

func TestTableCellIsCaseSensitiveSubstring(t *testing.T) {
	sel := string(TableCell("t", "test"))
	pattern := regexp.MustCompile(regexp.QuoteMeta("test"))
	assert.Contains(t, sel, pattern.String())
	assert.True(t, pattern.MatchString("mytest2"))
	assert.False(t, pattern.MatchString("TEST2"))
}

func TestGenericSubsystemURL(t *testing.T) {
	got := GenericSubsystemURL("http://localhost:9090/", "http://localhost:9990", []string{"subsystem", "logging", "root-logger", "ROOT"})
	assert.Equal(t,
		"http://localhost:9090/?connect=http://localhost:9990#generic-subsystem;address=%255C0subsystem%255C2logging%255C2root-logger%255C2ROOT",
		got)
}

func TestConnectURL(t *testing.T) {
	assert.Equal(t, "http://console/?connect=http://wildfly:9990#logging-configuration",
		ConnectURL("http://console/", "http://wildfly:9990", "logging-configuration"))
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, Sleep(context.Background(), 0))
}
