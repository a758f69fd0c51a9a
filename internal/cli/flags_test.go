package cli

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Expiration", flags.Expiration, 24 * time.Hour},
		{"MinApproval", flags.MinApproval, 80},
		{"MaxAssignments", flags.MaxAssignments, 2},
		{"MaxTasks", flags.MaxTasks, 0},
		{"TaskURL", flags.TaskURL, "https://ywkim.github.io/turk/index.html"},
		{"Limit", flags.Limit, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Verbose", flags.Verbose},
		{"NoJournal", flags.NoJournal},
		{"Yes", flags.Yes},
		{"Strict", flags.Strict},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"Reward", flags.Reward},
		{"Languages", flags.Languages},
		{"Judge", flags.Judge},
		{"JudgeModel", flags.JudgeModel},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}

func TestValidateReward(t *testing.T) {
	tests := []struct {
		reward  string
		wantErr string
	}{
		{"0.05", ""},
		{"1", ""},
		{"", "reward not set"},
		{"0", "invalid reward"},
		{"-0.10", "invalid reward"},
		{"five cents", "invalid reward"},
	}

	for _, tt := range tests {
		t.Run(tt.reward, func(t *testing.T) {
			err := ValidateReward(tt.reward)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateReward(%q) unexpected error: %v", tt.reward, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateReward(%q) error = %v, want %q", tt.reward, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePublish(t *testing.T) {
	valid := func() *Flags {
		flags := NewFlags()
		flags.Reward = "0.05"
		return flags
	}

	tests := []struct {
		name    string
		modify  func(f *Flags)
		wantErr bool
	}{
		{"defaults with reward", func(f *Flags) {}, false},
		{"language subset", func(f *Flags) { f.Languages = "ko,fr" }, false},
		{"missing reward", func(f *Flags) { f.Reward = "" }, true},
		{"zero expiration", func(f *Flags) { f.Expiration = 0 }, true},
		{"approval above 100", func(f *Flags) { f.MinApproval = 101 }, true},
		{"negative approval", func(f *Flags) { f.MinApproval = -1 }, true},
		{"no assignments", func(f *Flags) { f.MaxAssignments = 0 }, true},
		{"negative max tasks", func(f *Flags) { f.MaxTasks = -1 }, true},
		{"unknown language", func(f *Flags) { f.Languages = "ko,de" }, true},
		{"empty task url", func(f *Flags) { f.TaskURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := valid()
			tt.modify(flags)
			err := ValidatePublish(flags)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePublish() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlagsStructure(t *testing.T) {
	flags := &Flags{}
	flagsType := reflect.TypeOf(*flags)

	expectedFields := []string{
		"CfgFile", "Verbose", "Profile", "Journal", "NoJournal",
		"Reward", "Expiration", "MinApproval", "MaxTasks", "MaxAssignments", "Languages", "TaskURL",
		"Yes", "Strict", "Judge", "JudgeModel", "Limit",
	}

	for _, fieldName := range expectedFields {
		t.Run("has_field_"+fieldName, func(t *testing.T) {
			if _, ok := flagsType.FieldByName(fieldName); !ok {
				t.Errorf("Flags struct missing field: %s", fieldName)
			}
		})
	}
}
