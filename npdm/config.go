package npdm

// Config is the decoded program metadata. It is read-only input to Build;
// the field comments give the input key each field is reported under.
type Config struct {
	Name                   Text // name, at most 0x10 ASCII bytes
	Version                Int  // version, default 0
	SignatureKeyGeneration Int  // signature_key_generation, default 0
	ProgramID              Int  // program_id
	ProgramIDRangeMin      Int  // program_id_range_min
	ProgramIDRangeMax      Int  // program_id_range_max

	Is64Bit                        Bool // is_64_bit
	AddressSpaceType               Int  // address_space_type, 0..3
	OptimizeMemoryAllocation       Bool // optimize_memory_allocation
	DisableDeviceAddressSpaceMerge Bool // disable_device_address_space_merge
	EnableAliasRegionExtraSize     Bool // enable_alias_region_extra_size
	PreventCodeReads               Bool // prevent_code_reads
	MainThreadPriority             Int  // main_thread_priority, 0..0x3f
	MainThreadStackSize            Int  // main_thread_stack_size, multiple of 0x1000
	DefaultCPUID                   Int  // default_cpu_id
	SystemResourceSize             Int  // system_resource_size, 0..0x1fe00000

	IsRetail            Bool // is_retail
	UnqualifiedApproval Bool // unqualified_approval
	PoolPartition       Int  // pool_partition, 0..3

	FilesystemAccess   FilesystemAccess   // filesystem_access
	ServiceHost        []string           // service_host
	ServiceAccess      []string           // service_access
	KernelCapabilities []KernelCapability // kernel_capabilities, at most 32
}

// FilesystemAccess holds the filesystem permission mask and owner lists.
type FilesystemAccess struct {
	Permissions      Int
	ContentOwnerIDs  []Int
	SaveDataOwnerIDs []SaveDataOwner
}

// SaveDataOwner grants access to another program's save data.
type SaveDataOwner struct {
	Accessibility Int // 1 read, 2 write, 3 read/write
	ID            Int
}

// CapabilityType is the discriminator of a kernel capability entry.
type CapabilityType string

const (
	CapKernelFlags      CapabilityType = "kernel_flags"
	CapSyscalls         CapabilityType = "syscalls"
	CapMap              CapabilityType = "map"
	CapMapPage          CapabilityType = "map_page"
	CapMapRegion        CapabilityType = "map_region"
	CapIRQPair          CapabilityType = "irq_pair"
	CapApplicationType  CapabilityType = "application_type"
	CapMinKernelVersion CapabilityType = "min_kernel_version"
	CapHandleTableSize  CapabilityType = "handle_table_size"
	CapDebugFlags       CapabilityType = "debug_flags"
)

// KernelCapability is one entry of the kernel capability list. The set of
// implementations is closed; decoders that meet an unrecognised type use
// UnknownCapability so Build can report it.
type KernelCapability interface {
	CapabilityType() CapabilityType
	isKernelCapability()
}

// KernelFlags bounds the thread priorities and CPU cores the program may use.
type KernelFlags struct {
	HighestThreadPriority Int
	LowestThreadPriority  Int
	LowestCPUID           Int
	HighestCPUID          Int
}

// Syscall grants one syscall number. Name is informational.
type Syscall struct {
	Name   string
	Number Int
}

// Syscalls lists the syscalls the program may call.
type Syscalls struct {
	Entries []Syscall
}

// MemoryMap maps a physical address range; Address and Size are in pages.
type MemoryMap struct {
	Address Int
	IsRO    Bool
	Size    Int
	IsIO    Bool
}

// MapPage maps a single physical page.
type MapPage struct {
	Page Int
}

// Region is one entry of a MapRegion.
type Region struct {
	Type Int
	IsRO Bool
}

// MapRegion maps up to three predefined memory regions.
type MapRegion struct {
	Regions []Region
}

// IRQPair holds two interrupt slots; an unset Int leaves the slot unused.
type IRQPair struct {
	IRQs []Int
}

// ApplicationType sets the program type (0 system, 1 application, 2 applet).
type ApplicationType struct {
	Type Int
}

// MinKernelVersion is the lowest kernel version the program runs on.
type MinKernelVersion struct {
	Version Int
}

// HandleTableSize caps the number of handles the program may hold.
type HandleTableSize struct {
	Size Int
}

// DebugFlags controls debugger access; at most one flag may be set.
type DebugFlags struct {
	AllowDebug     Bool
	ForceDebugProd Bool
	ForceDebug     Bool
}

// UnknownCapability carries a discriminator no encoder recognises.
type UnknownCapability struct {
	Type string
}

func (KernelFlags) CapabilityType() CapabilityType { return CapKernelFlags }
func (Syscalls) CapabilityType() CapabilityType { return CapSyscalls }
func (MemoryMap) CapabilityType() CapabilityType { return CapMap }
func (MapPage) CapabilityType() CapabilityType { return CapMapPage }
func (MapRegion) CapabilityType() CapabilityType { return CapMapRegion }
func (IRQPair) CapabilityType() CapabilityType { return CapIRQPair }
func (ApplicationType) CapabilityType() CapabilityType { return CapApplicationType }
func (MinKernelVersion) CapabilityType() CapabilityType { return CapMinKernelVersion }
func (HandleTableSize) CapabilityType() CapabilityType { return CapHandleTableSize }
func (DebugFlags) CapabilityType() CapabilityType { return CapDebugFlags }
func (u UnknownCapability) CapabilityType() CapabilityType { return CapabilityType(u.Type) }

func (KernelFlags) isKernelCapability() {}
func (Syscalls) isKernelCapability() {}
func (MemoryMap) isKernelCapability() {}
func (MapPage) isKernelCapability() {}
func (MapRegion) isKernelCapability() {}
func (IRQPair) isKernelCapability() {}
func (ApplicationType) isKernelCapability() {}
func (MinKernelVersion) isKernelCapability() {}
func (HandleTableSize) isKernelCapability() {}
func (DebugFlags) isKernelCapability() {}
func (UnknownCapability) isKernelCapability() {}
