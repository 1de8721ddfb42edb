package npdm

// Region magics.
const (
	MetaMagic = "META"
	AcidMagic = "ACID"
	AciMagic  = "ACI0"
)

// Layout sizes and limits.
const (
	MetaSize     = 0x80 // fixed META region
	SectionAlign = 0x10 // ACID, ACI0 and their sub-tables start on this boundary

	MaxKernelCapabilities = 32
	MaxServiceNameLen     = 8
	MaxNameLen            = 0x10

	MainThreadStackAlign  = 0x1000
	MaxSystemResourceSize = 0x1FE00000
	MaxSyscall            = 0xBF
	SyscallsPerGroup      = 24
	MaxMapRegions         = 3
	IRQSlots              = 2
	IRQNone               = 0x3FF
)

// META field offsets.
const (
	metaOffSignatureKeyGen = 0x04
	metaOffFlags           = 0x0C
	metaOffPriority        = 0x0E
	metaOffSystemResource  = 0x14
	metaOffName            = 0x20
	metaOffProductCode     = 0x30
	metaOffTail            = 0x70 // aci offset, aci size, acid offset, acid size

	productCodeSize = 0x10
)

// META flag bits.
const (
	metaFlagIs64Bit                    = 1 << 0
	metaShiftAddressSpace              = 1
	metaFlagOptimizeMemoryAllocation   = 1 << 4
	metaFlagDisableDeviceAddressMerge  = 1 << 5
	metaFlagEnableAliasRegionExtraSize = 1 << 6
	metaFlagPreventCodeReads           = 1 << 7
)

// ACID layout.
const (
	signatureSize = 0x100
	publicKeySize = 0x100

	acidOffMagic = 0x200
	acidOffSize  = 0x204
	acidOffFlags = 0x20C
	acidOffTable = 0x220
	acidOffFAC   = 0x240

	acidFlagRetail              = 1 << 0
	acidFlagUnqualifiedApproval = 1 << 1
	acidShiftPoolPartition      = 2

	facSize = 0x2C
)

// ACI0 layout.
const (
	aciOffProgramID = 0x10
	aciOffTable     = 0x20
	aciOffFAH       = 0x40

	fahOffTable = 0x0C

	fsAccessVersion = 1
	offsetTableSize = 0x20 // three offset/size pairs and 8 reserved bytes
)

// Sub-table names used in Layout.
const (
	TableSignature     = "signature"
	TablePublicKey     = "public_key"
	TableFSAccess      = "fs_access_control"
	TableFSAccessHead  = "fs_access_header"
	TableContentOwners = "content_owner_ids"
	TableSaveOwners    = "save_data_owner_ids"
	TableServices      = "service_access_control"
	TableKernelCaps    = "kernel_capabilities"
)

// bitField is a run of bits inside a capability word.
type bitField struct {
	shift uint
	width uint
}

func (f bitField) mask() uint32 {
	return 1<<f.width - 1
}

func (f bitField) max() uint64 {
	return uint64(f.mask())
}

func (f bitField) put(v uint64) uint32 {
	return (uint32(v) & f.mask()) << f.shift
}

func (f bitField) get(word uint32) uint64 {
	return uint64(word >> f.shift & f.mask())
}

func flagBit(bit uint) bitField {
	return bitField{shift: bit, width: 1}
}

// Tag widths: a capability word starts with this many one bits followed by a
// zero bit, and the payload starts right after the zero.
var tagWidths = map[CapabilityType]uint{
	CapKernelFlags:      3,
	CapSyscalls:         4,
	CapMap:              6,
	CapMapPage:          7,
	CapMapRegion:        10,
	CapIRQPair:          11,
	CapApplicationType:  13,
	CapMinKernelVersion: 14,
	CapHandleTableSize:  15,
	CapDebugFlags:       16,
}

// Payload fields.
var (
	kfHighestThreadPriority = bitField{4, 6}
	kfLowestThreadPriority  = bitField{10, 6}
	kfLowestCPUID           = bitField{16, 8}
	kfHighestCPUID          = bitField{24, 8}

	scBitmap = bitField{5, 24}
	scGroup  = bitField{29, 3}

	mapAddress = bitField{7, 24}
	mapSize    = bitField{7, 20}
	mapFlag    = flagBit(31)

	mapPageAddress = bitField{8, 24}

	appType          = bitField{14, 3}
	minKernelVersion = bitField{15, 16}
	handleTableSize  = bitField{16, 10}

	debugAllow          = flagBit(17)
	debugForceProd      = flagBit(18)
	debugForce          = flagBit(19)
	maxApplicationType  = uint64(2)
	maxAddressSpaceType = uint64(3)
	maxPoolPartition    = uint64(3)
)

func mapRegionType(i int) bitField {
	return bitField{uint(11 + 7*i), 2}
}

func mapRegionRO(i int) bitField {
	return flagBit(uint(17 + 7*i))
}

// irqSlot places slot 0 at bit 11, on the tag's terminating zero, so an odd
// first IRQ overwrites it.
func irqSlot(i int) bitField {
	return bitField{uint(11 + 10*i), 10}
}

// tag returns the tag bits of a capability type.
func tag(t CapabilityType) uint32 {
	return 1<<tagWidths[t] - 1
}
