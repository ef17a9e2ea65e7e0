package metrics

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// sampleSnapshot builds a fresh status snapshot for render tests.
// Params: none.
// Returns: mutable key/value map mimicking one NIS status reply.
func sampleSnapshot() map[string]string {
	return map[string]string{
		"APC":      "001,036,0879",
		"HOSTNAME": "ups-host",
		"VERSION":  "3.14.14 (31 May 2016) debian",
		"UPSNAME":  "rack1",
		"MODEL":    "Smart-UPS 1500",
		"SERIALNO": "AS1234567890",
		"STATUS":   "ONLINE",
		"LINEV":    "230.0 Volts",
		"LOADPCT":  "24.0 Percent",
		"BCHARGE":  "100.0 Percent",
		"TIMELEFT": "46.0 Minutes",
		"NUMXFERS": "3",
		"XOFFBATT": "N/A",
		"STATFLAG": "0x05000008",
		"END APC":  "2023-10-01 12:30:00 +0200",
	}
}

// TestRender_Snapshot verifies ordering, labels, and value formatting.
// Params: testing.T for assertions.
// Returns: none.
func TestRender_Snapshot(t *testing.T) {
	renderer := NewRenderer(nil)

	out, err := renderer.Render(sampleSnapshot())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	infoBlock := "# HELP apcupsd_info Metadata for apcupsd.\n" +
		"# TYPE apcupsd_info gauge\n" +
		`apcupsd_info{ups_name="rack1",model="Smart-UPS 1500",serial_number="AS1234567890",` +
		`hostname="ups-host",version="3.14.14 (31 May 2016) debian"} 1` + "\n"
	if !strings.HasPrefix(out, infoBlock) {
		t.Fatalf("info metric missing or malformed:\n%s", out)
	}

	labels := `{ups_name="rack1",model="Smart-UPS 1500",serial_number="AS1234567890"}`
	for _, line := range []string{
		"apcupsd_line_volts" + labels + " 230\n",
		"apcupsd_ups_load_percent" + labels + " 0.24\n",
		"apcupsd_battery_charge_percent" + labels + " 1\n",
		"apcupsd_battery_time_left_seconds" + labels + " 2760\n",
		"# TYPE apcupsd_battery_number_transfers_total counter\n",
		"apcupsd_battery_number_transfers_total" + labels + " 3\n",
		"apcupsd_status_on_line" + labels + " 1\n",
		"apcupsd_status_on_battery" + labels + " 0\n",
		"apcupsd_status_plugged_in" + labels + " 1\n",
		"apcupsd_status_battery_present" + labels + " 1\n",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("missing line %q in output:\n%s", line, out)
		}
	}

	if strings.Contains(out, "apcupsd_last_transfer_off_battery_timestamp_seconds") {
		t.Fatalf("sentinel value should suppress metric:\n%s", out)
	}
	if strings.Index(out, "apcupsd_line_volts") > strings.Index(out, "apcupsd_ups_load_percent") {
		t.Fatalf("schema order not preserved:\n%s", out)
	}
}

// TestRender_Deterministic verifies identical snapshots render to identical
// bytes.
// Params: testing.T for assertions.
// Returns: none.
func TestRender_Deterministic(t *testing.T) {
	renderer := NewRenderer(nil)

	first, err := renderer.Render(sampleSnapshot())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	second, err := renderer.Render(sampleSnapshot())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if first != second {
		t.Fatalf("renders differ:\n%s\n---\n%s", first, second)
	}
}

// TestRender_MissingKeysSkipped verifies absent fields emit nothing.
// Params: testing.T for assertions.
// Returns: none.
func TestRender_MissingKeysSkipped(t *testing.T) {
	renderer := NewRenderer(nil)

	out, err := renderer.Render(map[string]string{"LINEV": "230.0 Volts"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "apcupsd_line_volts 230\n") {
		t.Fatalf("expected unlabeled line voltage metric:\n%s", out)
	}
	if strings.Contains(out, "apcupsd_battery_charge_percent") {
		t.Fatalf("absent field should not render:\n%s", out)
	}
}

// TestRender_MalformedFieldFails verifies the first bad field aborts the
// render and names its key.
// Params: testing.T for assertions.
// Returns: none.
func TestRender_MalformedFieldFails(t *testing.T) {
	renderer := NewRenderer(nil)

	snapshot := sampleSnapshot()
	snapshot["LINEV"] = "not a number Volts"

	_, err := renderer.Render(snapshot)
	if err == nil {
		t.Fatalf("expected render failure")
	}

	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("unexpected error type: %v", err)
	}
	if renderErr.Key != "LINEV" {
		t.Fatalf("error names wrong key: %q", renderErr.Key)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Kind != ErrVoltage {
		t.Fatalf("expected wrapped voltage parse error, got %v", err)
	}
}

// TestRender_UnknownKeysReported verifies unclaimed keys are logged once,
// sorted, without failing the render.
// Params: testing.T for assertions.
// Returns: none.
func TestRender_UnknownKeysReported(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	renderer := NewRenderer(logger)

	snapshot := sampleSnapshot()
	snapshot["ZFUTURE"] = "1"
	snapshot["AFUTURE"] = "2"

	out, err := renderer.Render(snapshot)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "apcupsd_line_volts") {
		t.Fatalf("render should survive unknown keys:\n%s", out)
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "unknown status keys") {
		t.Fatalf("expected diagnostic, got: %s", logged)
	}
	if !strings.Contains(logged, "AFUTURE,ZFUTURE") {
		t.Fatalf("expected sorted key list, got: %s", logged)
	}
	if strings.Contains(logged, "APC") && strings.Contains(logged, "END APC") {
		t.Fatalf("structural keys should not be reported: %s", logged)
	}
}
