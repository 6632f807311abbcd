package logger

// subsystemTags is the enum of all subsystem tags used across the node
var subsystemTags = struct {
	PROC, // block-processing pipeline
	GHDG, // GHOSTDAG engine
	RCHB, // reachability manager
	DIFM, // difficulty/window manager
	VRTL, // virtual/UTXO engine
	PRUN, // pruning manager
	POWV, // proof-of-work verifier
	PROT, // p2p protocol flows
	CMGR, // connection manager
	RPCS, // RPC server
	CNFG, // configuration
	KASD string // root process
}{
	PROC: "PROC",
	GHDG: "GHDG",
	RCHB: "RCHB",
	DIFM: "DIFM",
	VRTL: "VRTL",
	PRUN: "PRUN",
	POWV: "POWV",
	PROT: "PROT",
	CMGR: "CMGR",
	RPCS: "RPCS",
	CNFG: "CNFG",
	KASD: "KASD",
}

// SubsystemTags exposes the subsystem tag enum to callers constructing loggers
var SubsystemTags = subsystemTags
