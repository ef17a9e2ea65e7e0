package metrics

// MetricKind is the exposition type of one metric family.
// Params: none.
// Returns: gauge/counter selector.
type MetricKind uint8

const (
	// Gauge renders as "# TYPE <name> gauge".
	Gauge MetricKind = iota
	// Counter renders as "# TYPE <name> counter".
	Counter
)

// String returns the exposition type token.
// Params: none.
// Returns: "gauge" or "counter".
func (k MetricKind) String() string {
	if k == Counter {
		return "counter"
	}
	return "gauge"
}

// BitMetric maps one mask bit of a bitfield group to a boolean metric.
// Params: output name, help text, and queried mask.
// Returns: one sub-metric definition.
type BitMetric struct {
	Name string
	Help string
	Mask uint32
}

// FieldDef describes how one status key becomes zero or more metrics.
// Scalar entries set Kind/Name/Help/Metric and optional Sentinels; bitfield
// entries set Width and Bits instead and always render as gauges.
// Params: none.
// Returns: one immutable schema entry.
type FieldDef struct {
	Key       string
	Kind      ValueKind
	Name      string
	Help      string
	Metric    MetricKind
	Sentinels Sentinels
	Width     BitfieldWidth
	Bits      []BitMetric
}

// labelKeys are identifying status keys copied into every metric's label set,
// in output order.
var labelKeys = [...][2]string{
	{"UPSNAME", "ups_name"},
	{"MODEL", "model"},
	{"SERIALNO", "serial_number"},
}

// infoKeys are descriptive status keys attached only to the info metric, in
// output order.
var infoKeys = [...][2]string{
	{"HOSTNAME", "hostname"},
	{"VERSION", "version"},
	{"CABLE", "cable"},
	{"DRIVER", "driver"},
	{"UPSMODE", "ups_mode"},
	{"SHARE", "sharenet_name"},
	{"MASTER", "master_name"},
	{"SENSE", "sensitivity"},
	{"ALARMDEL", "alarm_delay"},
	{"LASTXFER", "last_transfer_reason"},
	{"SELFTEST", "last_self_test_result"},
	{"STESTI", "self_test_interval"},
	{"MANDATE", "manufacture_date"},
	{"FIRMWARE", "firmware_version"},
}

// structuralKeys are protocol frame markers discarded before the unknown-key
// diagnostic.
var structuralKeys = [...]string{"APC", "STATUS", "END APC"}

// Schema is the fixed, ordered field table; declaration order is exposition
// order.
var Schema = []FieldDef{
	{
		Key:    "DATE",
		Kind:   KindTimestamp,
		Name:   "apcupsd_last_update_timestamp_seconds",
		Help:   "Date and time of last update from UPS.",
		Metric: Gauge,
	},
	{
		Key:    "STARTTIME",
		Kind:   KindTimestamp,
		Name:   "apcupsd_start_timestamp_seconds",
		Help:   "Date and time apcupsd was started.",
		Metric: Gauge,
	},
	{
		Key:       "MASTERUPD",
		Kind:      KindTimestamp,
		Name:      "apcupsd_master_update_timestamp_seconds",
		Help:      "Last time the master sent an update to the slave.",
		Metric:    Gauge,
		Sentinels: Sentinels{"No connection to Master": nil},
	},
	{
		Key:    "LINEV",
		Kind:   KindVoltage,
		Name:   "apcupsd_line_volts",
		Help:   "Current input line voltage.",
		Metric: Gauge,
	},
	{
		Key:    "LOADPCT",
		Kind:   KindPercentage,
		Name:   "apcupsd_ups_load_percent",
		Help:   "Percentage of UPS load capacity used.",
		Metric: Gauge,
	},
	{
		Key:    "LOADAPNT",
		Kind:   KindPercentage,
		Name:   "apcupsd_ups_load_apparent_power_percent",
		Help:   "Percentage of UPS load apparent power capacity used.",
		Metric: Gauge,
	},
	{
		Key:    "BCHARGE",
		Kind:   KindPercentage,
		Name:   "apcupsd_battery_charge_percent",
		Help:   "Current battery capacity charge percentage.",
		Metric: Gauge,
	},
	{
		Key:    "TIMELEFT",
		Kind:   KindDuration,
		Name:   "apcupsd_battery_time_left_seconds",
		Help:   "Remaining runtime left on battery as estimated by the UPS.",
		Metric: Gauge,
	},
	{
		Key:    "MBATTCHG",
		Kind:   KindPercentage,
		Name:   "apcupsd_battery_charge_required_for_shutdown_percent",
		Help:   "Min battery charge % (BCHARGE) required for system shutdown.",
		Metric: Gauge,
	},
	{
		Key:    "MINTIMEL",
		Kind:   KindDuration,
		Name:   "apcupsd_battery_runtime_required_for_shutdown_seconds",
		Help:   "Min battery runtime required for system shutdown.",
		Metric: Gauge,
	},
	{
		Key:    "MAXTIME",
		Kind:   KindDuration,
		Name:   "apcupsd_battery_runtime_trigger_shutdown_seconds",
		Help:   "Max battery runtime after which system is shutdown.",
		Metric: Gauge,
	},
	{
		Key:    "MAXLINEV",
		Kind:   KindVoltage,
		Name:   "apcupsd_max_since_startup_volts",
		Help:   "Maximum input line voltage since apcupsd startup.",
		Metric: Gauge,
	},
	{
		Key:    "MINLINEV",
		Kind:   KindVoltage,
		Name:   "apcupsd_min_since_startup_volts",
		Help:   "Minimum input line voltage since apcupsd startup.",
		Metric: Gauge,
	},
	{
		Key:    "OUTPUTV",
		Kind:   KindVoltage,
		Name:   "apcupsd_output_volts",
		Help:   "Current UPS output voltage.",
		Metric: Gauge,
	},
	{
		Key:    "DWAKE",
		Kind:   KindDuration,
		Name:   "apcupsd_power_on_delay_seconds",
		Help:   "Time UPS waits after power off when the power is restored.",
		Metric: Gauge,
	},
	{
		Key:    "DSHUTD",
		Kind:   KindDuration,
		Name:   "apcupsd_power_off_delay_seconds",
		Help:   "Delay before UPS powers down after command received.",
		Metric: Gauge,
	},
	{
		Key:    "DLOWBATT",
		Kind:   KindDuration,
		Name:   "apcupsd_battery_low_signal_time_left_seconds",
		Help:   "Low battery signal sent when this much runtime remains.",
		Metric: Gauge,
	},
	{
		Key:    "LOTRANS",
		Kind:   KindVoltage,
		Name:   "apcupsd_transfer_low_volts",
		Help:   "Input line voltage below which UPS will switch to battery.",
		Metric: Gauge,
	},
	{
		Key:    "HITRANS",
		Kind:   KindVoltage,
		Name:   "apcupsd_transfer_high_volts",
		Help:   "Input line voltage above which UPS will switch to battery.",
		Metric: Gauge,
	},
	{
		Key:    "RETPCT",
		Kind:   KindPercentage,
		Name:   "apcupsd_power_on_required_charge_percent",
		Help:   "Battery charge % required after power off to restore power.",
		Metric: Gauge,
	},
	{
		Key:    "ITEMP",
		Kind:   KindTemperature,
		Name:   "apcupsd_internal_temperature_celsius",
		Help:   "UPS internal temperature in degrees Celcius.",
		Metric: Gauge,
	},
	{
		Key:    "BATTV",
		Kind:   KindVoltage,
		Name:   "apcupsd_battery_volts",
		Help:   "Current battery voltage.",
		Metric: Gauge,
	},
	{
		Key:    "LINEFREQ",
		Kind:   KindFrequency,
		Name:   "apcupsd_line_frequency_hertz",
		Help:   "Current line frequency in Hertz.",
		Metric: Gauge,
	},
	{
		Key:    "OUTCURNT",
		Kind:   KindCurrent,
		Name:   "apcupsd_output_current_amps",
		Help:   "Output current in Amps.",
		Metric: Gauge,
	},
	{
		Key:    "NUMXFERS",
		Kind:   KindCount,
		Name:   "apcupsd_battery_number_transfers_total",
		Help:   "Number of transfers to battery since apcupsd startup.",
		Metric: Counter,
	},
	{
		Key:    "XONBATT",
		Kind:   KindTimestamp,
		Name:   "apcupsd_last_transfer_on_battery_timestamp_seconds",
		Help:   "Date, time of last transfer to battery since apcupsd startup.",
		Metric: Gauge,
	},
	{
		Key:    "TONBATT",
		Kind:   KindDuration,
		Name:   "apcupsd_battery_time_on_seconds",
		Help:   "Seconds currently on battery.",
		Metric: Gauge,
	},
	{
		Key:    "CUMONBATT",
		Kind:   KindDuration,
		Name:   "apcupsd_battery_cumulative_time_on_seconds_total",
		Help:   "Cumulative seconds on battery since apcupsd startup.",
		Metric: Counter,
	},
	{
		Key:       "XOFFBATT",
		Kind:      KindTimestamp,
		Name:      "apcupsd_last_transfer_off_battery_timestamp_seconds",
		Help:      "Date, time of last transfer off battery since apcupsd startup.",
		Metric:    Gauge,
		Sentinels: Sentinels{"N/A": nil},
	},
	{
		Key:    "LASTSTEST",
		Kind:   KindTimestamp,
		Name:   "apcupsd_last_self_test_timestamp_seconds",
		Help:   "Date, time of last self test.",
		Metric: Gauge,
	},
	{
		Key:   "STATFLAG",
		Width: Width32,
		Bits: []BitMetric{
			{Name: "apcupsd_status_calibration", Help: "Runtime calibration occurring.", Mask: statusCalibration},
			{Name: "apcupsd_status_trim", Help: "SmartTrim.", Mask: statusTrim},
			{Name: "apcupsd_status_boost", Help: "SmartBoost.", Mask: statusBoost},
			{Name: "apcupsd_status_on_line", Help: "On line.", Mask: statusOnline},
			{Name: "apcupsd_status_on_battery", Help: "On battery.", Mask: statusOnBattery},
			{Name: "apcupsd_status_overloaded_output", Help: "Overloaded output.", Mask: statusOverload},
			{Name: "apcupsd_status_battery_low", Help: "Battery low.", Mask: statusBatteryLow},
			{Name: "apcupsd_status_replace_battery", Help: "Replace battery.", Mask: statusReplaceBatt},
			{Name: "apcupsd_status_communication_lost", Help: "Communications with UPS lost.", Mask: statusCommLost},
			{Name: "apcupsd_status_shutdown_in_progress", Help: "Shutdown in progress.", Mask: statusShutdown},
			{Name: "apcupsd_status_slave", Help: "Set if this is a slave.", Mask: statusSlave},
			{Name: "apcupsd_status_slave_down", Help: "Slave not responding.", Mask: statusSlaveDown},
			{Name: "apcupsd_status_on_battery_message_sent", Help: "Set when UPS_ONBATT message is sent.", Mask: statusOnBattMsg},
			{Name: "apcupsd_status_fast_poll", Help: "Set on power failure to poll faster.", Mask: statusFastPoll},
			{Name: "apcupsd_status_shutdown_load", Help: "Set when BatLoad <= percent.", Mask: statusShutLoad},
			{Name: "apcupsd_status_shutdown_time", Help: "Set when time on batts > maxtime.", Mask: statusShutBTime},
			{Name: "apcupsd_status_shutdown_time_left", Help: "Set when TimeLeft <= runtime.", Mask: statusShutLTime},
			{Name: "apcupsd_status_emergency_shutdown", Help: "Set when battery power has failed.", Mask: statusShutEmerg},
			{Name: "apcupsd_status_remote_shutdown", Help: "Set when remote shutdown.", Mask: statusShutRemote},
			{Name: "apcupsd_status_plugged_in", Help: "Set if computer is plugged into UPS.", Mask: statusPlugged},
			{Name: "apcupsd_status_battery_present", Help: "Indicates if battery is connected.", Mask: statusBattPresent},
		},
	},
	{
		Key:   "DIPSW",
		Width: Width8,
		Bits: []BitMetric{
			{
				Name: "apcupsd_status_low_battery_alarm_delayed",
				Help: "Low battery alarm changed from 2 to 5 mins. Autostartup disabled on SU370ci and 400.",
				Mask: dipLowBattery5Min,
			},
			{
				Name: "apcupsd_status_audible_alarm_delayed",
				Help: "Audible alarm delayed 30 seconds.",
				Mask: dipAlarmDelay30Sec,
			},
			{
				Name: "apcupsd_status_output_transfer_voltage_changed",
				Help: "Output transfer set to 115 VAC (from 120 VAC) or to 240 VAC (from 230 VAC).",
				Mask: dipOutputTransferVolts,
			},
			{
				Name: "apcupsd_status_input_voltage_range_expanded",
				Help: "UPS desensitized - input voltage range expanded.",
				Mask: dipInputVoltageExpanded,
			},
		},
	},
	{
		Key:   "REG1",
		Width: Width8,
		Bits: []BitMetric{
			{Name: "apcupsd_status_wakeup_mode", Help: "In wakeup mode (typically lasts < 2s).", Mask: reg1WakeupMode},
			{Name: "apcupsd_status_bypass_mode_from_internal_fault", Help: "In bypass mode due to internal fault.", Mask: reg1BypassInternalFault},
			{Name: "apcupsd_status_entering_bypass_mode_from_command", Help: "Going to bypass mode due to command.", Mask: reg1EnteringBypassCommand},
			{Name: "apcupsd_status_in_bypass_mode_from_command", Help: "In bypass mode due to command.", Mask: reg1InBypassCommand},
			{Name: "apcupsd_status_leaving_bypass_mode", Help: "Returning from bypass mode.", Mask: reg1LeavingBypass},
			{Name: "apcupsd_status_in_bypass_mode_from_manual_control", Help: "In bypass mode due to manual bypass control.", Mask: reg1InBypassManual},
			{Name: "apcupsd_status_ready_power_load_on_command", Help: "Ready to power load on user command.", Mask: reg1ReadyPowerLoadCommand},
			{Name: "apcupsd_status_ready_power_load_on_command_or_line", Help: "Ready to power load on user command or return of line power.", Mask: reg1ReadyPowerLoadOrLine},
		},
	},
	{
		Key:   "REG2",
		Width: Width8,
		Bits: []BitMetric{
			{Name: "apcupsd_status_bypass_mode_from_electronics_fan_failure", Help: "Fan failure in electronics, UPS in bypass.", Mask: reg2BypassFanFailure},
			{Name: "apcupsd_status_isolation_unit_fan_failure", Help: "Fan failure in isolation unit.", Mask: reg2FanFailureIsolationUnit},
			{Name: "apcupsd_status_bypass_supply_failure", Help: "Bypass supply failure.", Mask: reg2BypassSupplyFailure},
			{Name: "apcupsd_status_bypass_mode_from_output_voltage_select_failure", Help: "Output voltage select failure, UPS in bypass.", Mask: reg2BypassVoltageSelectFault},
			{Name: "apcupsd_status_bypass_mode_from_dc_imbalance", Help: "DC imbalance, UPS in bypass.", Mask: reg2BypassDCImbalance},
			{Name: "apcupsd_status_battery_disconnected", Help: "Battery is disconnected.", Mask: reg2BatteryDisconnected},
			{Name: "apcupsd_status_relay_fault_smarttrim_or_smartboost", Help: "Relay fault in SmartTrim or SmartBoost.", Mask: reg2RelayFaultTrimBoost},
			{Name: "apcupsd_status_bad_output_voltage", Help: "Bad output voltage.", Mask: reg2BadOutputVoltage},
		},
	},
	{
		Key:   "REG3",
		Width: Width8,
		Bits: []BitMetric{
			{Name: "apcupsd_status_output_unpowered_from_low_battery_shutdown", Help: "Output unpowered due to shutdown by low battery.", Mask: reg3OutputUnpoweredLowBattery},
			{Name: "apcupsd_status_cannot_transfer_to_battery_due_to_overload", Help: "Unable to transfer to battery due to overload.", Mask: reg3NoTransferOverload},
			{Name: "apcupsd_status_ups_off_from_main_relay_failure", Help: "Main relay malfunction - UPS turned off.", Mask: reg3RelayMalfunctionPowerOff},
			{Name: "apcupsd_status_sleep_mode_from_command", Help: "In sleep mode from @ command (maybe others).", Mask: reg3SleepModeCommand},
			{Name: "apcupsd_status_shutdown_mode_from_command", Help: "In shutdown mode from S command.", Mask: reg3ShutdownModeCommand},
			{Name: "apcupsd_status_battery_charger_failure", Help: "Battery charger failure.", Mask: reg3BatteryChargerFailure},
			{Name: "apcupsd_status_bypass_relay_failure", Help: "Bypass relay malfunction.", Mask: reg3BypassRelayFailure},
			{Name: "apcupsd_status_operating_temperature_exceeded", Help: "Normal operating temperature exceeded.", Mask: reg3OperatingTempExceeded},
		},
	},
	{
		Key:    "BATTDATE",
		Kind:   KindDate,
		Name:   "apcupsd_battery_last_replacement_timestamp_seconds",
		Help:   "Date battery last replaced.",
		Metric: Gauge,
	},
	{
		Key:    "NOMOUTV",
		Kind:   KindVoltage,
		Name:   "apcupsd_battery_nominal_output_volts",
		Help:   "Nominal output voltage to supply when on battery power.",
		Metric: Gauge,
	},
	{
		Key:    "NOMINV",
		Kind:   KindVoltage,
		Name:   "apcupsd_line_nominal_volts",
		Help:   "Nominal AC input line voltage.",
		Metric: Gauge,
	},
	{
		Key:    "NOMBATTV",
		Kind:   KindVoltage,
		Name:   "apcupsd_battery_nominal_volts",
		Help:   "Nominal battery voltage.",
		Metric: Gauge,
	},
	{
		Key:    "NOMPOWER",
		Kind:   KindPower,
		Name:   "apcupsd_nominal_power_watts",
		Help:   "Nominal power output in watts.",
		Metric: Gauge,
	},
	{
		Key:    "NOMAPNT",
		Kind:   KindApparentPower,
		Name:   "apcupsd_apparent_power_volt_amps",
		Help:   "Apparent power output in volt-amperes.",
		Metric: Gauge,
	},
	{
		Key:    "HUMIDITY",
		Kind:   KindPercentage,
		Name:   "apcupsd_humidity_percent",
		Help:   "Ambient humidity.",
		Metric: Gauge,
	},
	{
		Key:    "AMBTEMP",
		Kind:   KindTemperature,
		Name:   "apcupsd_ambient_temperature_celsius",
		Help:   "Ambient temperature.",
		Metric: Gauge,
	},
	{
		Key:    "EXTBATTS",
		Kind:   KindCount,
		Name:   "apcupsd_external_battery_count",
		Help:   "Number of external batteries (for XL models).",
		Metric: Gauge,
	},
	{
		Key:    "BADBATTS",
		Kind:   KindCount,
		Name:   "apcupsd_external_battery_bad_count",
		Help:   "Number of bad external battery packs (for XL models).",
		Metric: Gauge,
	},
}
