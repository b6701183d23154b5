package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  ModuleKey
		want string
	}{
		{"root", RootModuleKey, "<root>"},
		{"name only", ModuleKey{Name: "rules_go"}, "rules_go"},
		{"name and version", ModuleKey{Name: "rules_go", Version: "0.50.1"}, "rules_go@0.50.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "/ws/MODULE.bazel:3:1", Location{File: "/ws/MODULE.bazel", Line: 3, Column: 1}.String())
}

func TestEvent(t *testing.T) {
	event := Event{
		Kind:     EventError,
		Location: Location{File: "MODULE.bazel", Line: 1, Column: 5},
		Message:  "functions may not be defined in module files",
	}

	assert.Equal(t, "MODULE.bazel:1:5: functions may not be defined in module files", event.String())
	assert.Equal(t, "ERROR", EventError.String())
	assert.Equal(t, "WARNING", EventWarning.String())
	assert.Equal(t, "INFO", EventInfo.String())
	assert.Equal(t, "UNKNOWN", EventKind(42).String())
}

func TestCheckResult_OK(t *testing.T) {
	assert.True(t, CheckResult{Path: "MODULE.bazel"}.OK())
	assert.False(t, CheckResult{Path: "MODULE.bazel", Err: assert.AnError}.OK())
}
