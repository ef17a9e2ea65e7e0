package metrics

// Bit values for the APC UPS status word (STATFLAG), from apcupsd defines.h.
const (
	statusCalibration uint32 = 0x00000001
	statusTrim        uint32 = 0x00000002
	statusBoost       uint32 = 0x00000004
	statusOnline      uint32 = 0x00000008
	statusOnBattery   uint32 = 0x00000010
	statusOverload    uint32 = 0x00000020
	statusBatteryLow  uint32 = 0x00000040
	statusReplaceBatt uint32 = 0x00000080

	// Extended bit values added by apcupsd.
	statusCommLost     uint32 = 0x00000100
	statusShutdown     uint32 = 0x00000200
	statusSlave        uint32 = 0x00000400
	statusSlaveDown    uint32 = 0x00000800
	statusOnBattMsg    uint32 = 0x00020000
	statusFastPoll     uint32 = 0x00040000
	statusShutLoad     uint32 = 0x00080000
	statusShutBTime    uint32 = 0x00100000
	statusShutLTime    uint32 = 0x00200000
	statusShutEmerg    uint32 = 0x00400000
	statusShutRemote   uint32 = 0x00800000
	statusPlugged      uint32 = 0x01000000
	statusBattPresent  uint32 = 0x04000000
)

// DIPSW dip switch positions.
const (
	dipLowBattery5Min       uint32 = 0x01
	dipAlarmDelay30Sec      uint32 = 0x02
	dipOutputTransferVolts  uint32 = 0x04
	dipInputVoltageExpanded uint32 = 0x08
)

// REG1 vendor register bank one.
const (
	reg1WakeupMode              uint32 = 0x01
	reg1BypassInternalFault     uint32 = 0x02
	reg1EnteringBypassCommand   uint32 = 0x04
	reg1InBypassCommand         uint32 = 0x08
	reg1LeavingBypass           uint32 = 0x10
	reg1InBypassManual          uint32 = 0x20
	reg1ReadyPowerLoadCommand   uint32 = 0x40
	reg1ReadyPowerLoadOrLine    uint32 = 0x80
)

// REG2 vendor register bank two.
const (
	reg2BypassFanFailure         uint32 = 0x01
	reg2FanFailureIsolationUnit  uint32 = 0x02
	reg2BypassSupplyFailure      uint32 = 0x04
	reg2BypassVoltageSelectFault uint32 = 0x08
	reg2BypassDCImbalance        uint32 = 0x10
	reg2BatteryDisconnected      uint32 = 0x20
	reg2RelayFaultTrimBoost      uint32 = 0x40
	reg2BadOutputVoltage         uint32 = 0x80
)

// REG3 vendor register bank three.
const (
	reg3OutputUnpoweredLowBattery uint32 = 0x01
	reg3NoTransferOverload        uint32 = 0x02
	reg3RelayMalfunctionPowerOff  uint32 = 0x04
	reg3SleepModeCommand          uint32 = 0x08
	reg3ShutdownModeCommand       uint32 = 0x10
	reg3BatteryChargerFailure     uint32 = 0x20
	reg3BypassRelayFailure        uint32 = 0x40
	reg3OperatingTempExceeded     uint32 = 0x80
)
