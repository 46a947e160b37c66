package nodeconfig

import (
	"testing"
)

func TestParseChange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Change
		wantErr bool
	}{
		{"simple pair", "deviceId:2A", Change{Key: "deviceId", Value: "2A"}, false},
		{"trims whitespace", " rsf : 07 ", Change{Key: "rsf", Value: "07"}, false},
		{"value keeps inner separator", "groupId:00:FF", Change{Key: "groupId", Value: "00:FF"}, false},
		{"empty value", "deviceId:", Change{Key: "deviceId", Value: ""}, false},
		{"no separator", "deviceId 2A", Change{}, true},
		{"empty input", "", Change{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseChange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseChange(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestUpdateApply(t *testing.T) {
	rec := NewRecord()

	update := NewUpdate().
		Set(KeyDeviceID, "2A").
		Set(KeyRSF, "07").
		Set(KeyPreambleTime, "200")

	if err := update.Apply(rec); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if rec.DeviceID != 0x2A {
		t.Errorf("DeviceID = %02X, want 2A", rec.DeviceID)
	}
	if rec.RSF != 0x07 {
		t.Errorf("RSF = %02X, want 07", rec.RSF)
	}
	if rec.PreambleTime != 200 {
		t.Errorf("PreambleTime = %d, want 200", rec.PreambleTime)
	}
}

func TestUpdateApplyAllOrNothing(t *testing.T) {
	rec := NewRecord()
	rec.DeviceID = 0x11
	before := *rec

	update := NewUpdate().
		Set(KeyDeviceID, "2A").
		Set(KeyGwMask, "not-hex").
		Set(KeyRSF, "07")

	err := update.Apply(rec)
	if err == nil {
		t.Fatal("Apply() expected error, got nil")
	}
	if !IsMalformedValue(err) {
		t.Errorf("Apply() error = %v, want malformed-value", err)
	}
	if *rec != before {
		t.Errorf("Apply() modified the record despite a rejected change")
	}
}

func TestUpdateApplyLaterChangeWins(t *testing.T) {
	rec := NewRecord()

	update := NewUpdate().
		Set(KeyDeviceID, "11").
		Set(KeyDeviceID, "22")

	if err := update.Apply(rec); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if rec.DeviceID != 0x22 {
		t.Errorf("DeviceID = %02X, want 22", rec.DeviceID)
	}
}

func TestUpdateValidateCollectsAllErrors(t *testing.T) {
	update := NewUpdate().
		Set(KeyDeviceID, "2A").
		Set("bogus", "01").
		Set(KeyGwMask, "0A0B").
		Set(KeyPreambleTime, "99999")

	errs := update.Validate(nil)
	if len(errs) != 3 {
		t.Fatalf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
	if !IsUnknownKey(errs[0]) {
		t.Errorf("Validate() errs[0] = %v, want unknown-key", errs[0])
	}
	if !IsMalformedValue(errs[1]) {
		t.Errorf("Validate() errs[1] = %v, want malformed-value", errs[1])
	}
	if !IsMalformedValue(errs[2]) {
		t.Errorf("Validate() errs[2] = %v, want malformed-value", errs[2])
	}
}

func TestUpdateValidateEmptyBatch(t *testing.T) {
	if errs := NewUpdate().Validate(nil); len(errs) != 0 {
		t.Errorf("Validate() on empty update = %v, want none", errs)
	}
}
