package traci

// Command identifiers and payload type tags from the TraCI protocol, as
// implemented by SUMO. Only the subset needed for read-only vehicle queries
// is listed here.
const (
	cmdGetVersion         byte = 0x00
	cmdClose              byte = 0x7f
	cmdGetVehicleVariable byte = 0xa4

	responseGetVehicleVariable byte = 0xb4
)

// Vehicle variable identifiers.
const (
	varIDList       byte = 0x00
	varSpeed        byte = 0x40
	varPosition     byte = 0x42
	varLaneID       byte = 0x50
	varRouteID      byte = 0x53
	varRouteEdges   byte = 0x54
	varAcceleration byte = 0x72
)

// Wire value type tags.
const (
	typePosition2D byte = 0x01
	typeUByte      byte = 0x07
	typeByte       byte = 0x08
	typeInteger    byte = 0x09
	typeDouble     byte = 0x0b
	typeString     byte = 0x0c
	typeStringList byte = 0x0e
	typeCompound   byte = 0x0f
)

// Status result codes carried in the status response of every command.
const (
	statusOK             byte = 0x00
	statusNotImplemented byte = 0x01
	statusErr            byte = 0xff
)
