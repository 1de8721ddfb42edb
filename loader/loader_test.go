package loader

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/npdm"
)

const sampleJSON = `{
  "name": "Application",
  "title_id": "0x0100000000001000",
  "title_id_range_min": "0100000000001000",
  "program_id_range_max": "0x0100000000001fff",
  "main_thread_stack_size": "0x00100000",
  "main_thread_priority": 44,
  "default_cpu_id": 0,
  "version": 0,
  "is_retail": true,
  "pool_partition": 0,
  "is_64_bit": true,
  "address_space_type": 3,
  "filesystem_access": {
    "permissions": "0xffffffffffffffff",
    "content_owner_ids": ["0x0100000000002000"],
    "save_data_owner_ids": [{"accessibility": 3, "id": "0x0100000000003000"}]
  },
  "service_host": ["fsp-srv"],
  "service_access": ["pm:shell", "hid"],
  "kernel_capabilities": [
    {"type": "kernel_flags", "value": {
      "highest_thread_priority": 59, "lowest_thread_priority": 28,
      "lowest_cpu_id": 0, "highest_cpu_id": 2}},
    {"type": "syscalls", "value": {"svcSetHeapSize": "0x01", "svcExitProcess": "0x07"}},
    {"type": "map", "value": {"address": "0x70000", "is_ro": true, "size": "0x1", "is_io": false}},
    {"type": "map_page", "value": "0x1234"},
    {"type": "map_region", "value": [{"region_type": 1, "is_ro": true}]},
    {"type": "irq_pair", "value": [32, null]},
    {"type": "application_type", "value": 1},
    {"type": "min_kernel_version", "value": "0x30"},
    {"type": "handle_table_size", "value": 1023},
    {"type": "debug_flags", "value": {"allow_debug": true}}
  ]
}`

var cmpConfig = cmp.Options{
	cmp.AllowUnexported(npdm.Int{}, npdm.Bool{}, npdm.Text{}),
	cmpopts.EquateEmpty(),
}

func TestParseJSON(t *testing.T) {
	got, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &npdm.Config{
		Name:                npdm.TextOf("Application"),
		ProgramID:           npdm.Hex("0x0100000000001000"),
		ProgramIDRangeMin:   npdm.Hex("0100000000001000"),
		ProgramIDRangeMax:   npdm.Hex("0x0100000000001fff"),
		MainThreadStackSize: npdm.Hex("0x00100000"),
		MainThreadPriority:  npdm.Num(44),
		DefaultCPUID:        npdm.Num(0),
		Version:             npdm.Num(0),
		IsRetail:            npdm.True,
		PoolPartition:       npdm.Num(0),
		Is64Bit:             npdm.True,
		AddressSpaceType:    npdm.Num(3),
		FilesystemAccess: npdm.FilesystemAccess{
			Permissions:     npdm.Hex("0xffffffffffffffff"),
			ContentOwnerIDs: []npdm.Int{npdm.Hex("0x0100000000002000")},
			SaveDataOwnerIDs: []npdm.SaveDataOwner{
				{Accessibility: npdm.Num(3), ID: npdm.Hex("0x0100000000003000")},
			},
		},
		ServiceHost:   []string{"fsp-srv"},
		ServiceAccess: []string{"pm:shell", "hid"},
		KernelCapabilities: []npdm.KernelCapability{
			npdm.KernelFlags{
				HighestThreadPriority: npdm.Num(59),
				LowestThreadPriority:  npdm.Num(28),
				LowestCPUID:           npdm.Num(0),
				HighestCPUID:          npdm.Num(2),
			},
			npdm.Syscalls{Entries: []npdm.Syscall{
				{Name: "svcSetHeapSize", Number: npdm.Hex("0x01")},
				{Name: "svcExitProcess", Number: npdm.Hex("0x07")},
			}},
			npdm.MemoryMap{Address: npdm.Hex("0x70000"), IsRO: npdm.True, Size: npdm.Hex("0x1"), IsIO: npdm.False},
			npdm.MapPage{Page: npdm.Hex("0x1234")},
			npdm.MapRegion{Regions: []npdm.Region{{Type: npdm.Num(1), IsRO: npdm.True}}},
			npdm.IRQPair{IRQs: []npdm.Int{npdm.Num(32), {}}},
			npdm.ApplicationType{Type: npdm.Num(1)},
			npdm.MinKernelVersion{Version: npdm.Hex("0x30")},
			npdm.HandleTableSize{Size: npdm.Num(1023)},
			npdm.DebugFlags{AllowDebug: npdm.True},
		},
	}

	if diff := cmp.Diff(want, got, cmpConfig); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	if _, err := npdm.Build(got); err != nil {
		t.Errorf("Build(parsed) error = %v", err)
	}
}

func TestParseYAMLMatchesJSON(t *testing.T) {
	const doc = `
name: Application
program_id: "0x0100000000001000"
program_id_range_min: "0x0100000000001000"
program_id_range_max: "0x0100000000001fff"
main_thread_stack_size: 0x100000
main_thread_priority: 44
default_cpu_id: 0
is_retail: true
pool_partition: 0
is_64_bit: true
address_space_type: 3
filesystem_access:
  permissions: "0xffffffffffffffff"
service_host: [fsp-srv]
service_access: ["pm:shell", hid]
kernel_capabilities:
  - type: handle_table_size
    value: 1023
`
	const asJSON = `{
  "name": "Application",
  "program_id": "0x0100000000001000",
  "program_id_range_min": "0x0100000000001000",
  "program_id_range_max": "0x0100000000001fff",
  "main_thread_stack_size": 1048576,
  "main_thread_priority": 44,
  "default_cpu_id": 0,
  "is_retail": true,
  "pool_partition": 0,
  "is_64_bit": true,
  "address_space_type": 3,
  "filesystem_access": {"permissions": "0xffffffffffffffff"},
  "service_host": ["fsp-srv"],
  "service_access": ["pm:shell", "hid"],
  "kernel_capabilities": [{"type": "handle_table_size", "value": 1023}]
}`

	fromYAML, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse(yaml) error = %v", err)
	}
	fromJSON, err := Parse([]byte(asJSON))
	if err != nil {
		t.Fatalf("Parse(json) error = %v", err)
	}

	a, err := npdm.Encode(fromYAML)
	if err != nil {
		t.Fatalf("Encode(yaml) error = %v", err)
	}
	b, err := npdm.Encode(fromJSON)
	if err != nil {
		t.Fatalf("Encode(json) error = %v", err)
	}
	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("YAML and JSON encodings differ (-json +yaml):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
		want   *errors.Error
		path   string
	}{
		{
			name:   "wrong kind for bool",
			mutate: func(s string) string { return strings.Replace(s, `"is_retail": true`, `"is_retail": "yes"`, 1) },
			want:   errors.ErrTypeMismatch,
			path:   "is_retail",
		},
		{
			name:   "float for int",
			mutate: func(s string) string { return strings.Replace(s, `"main_thread_priority": 44`, `"main_thread_priority": 4.5`, 1) },
			want:   errors.ErrTypeMismatch,
			path:   "main_thread_priority",
		},
		{
			name:   "missing filesystem access",
			mutate: func(s string) string { return strings.Replace(s, `"filesystem_access"`, `"fs"`, 1) },
			want:   errors.ErrFieldMissing,
			path:   "filesystem_access",
		},
		{
			name:   "missing service list",
			mutate: func(s string) string { return strings.Replace(s, `"service_host"`, `"service_hosts"`, 1) },
			want:   errors.ErrFieldMissing,
			path:   "service_host",
		},
		{
			name:   "service name not a string",
			mutate: func(s string) string { return strings.Replace(s, `["pm:shell", "hid"]`, `["pm:shell", 5]`, 1) },
			want:   errors.ErrTypeMismatch,
			path:   "service_access[1]",
		},
		{
			name: "capability value missing",
			mutate: func(s string) string {
				return strings.Replace(s, `{"type": "debug_flags", "value": {"allow_debug": true}}`, `{"type": "debug_flags"}`, 1)
			},
			want: errors.ErrFieldMissing,
			path: "kernel_capabilities[9].value",
		},
		{
			name: "capability not an object",
			mutate: func(s string) string {
				return strings.Replace(s, `{"type": "handle_table_size", "value": 1023}`, `1023`, 1)
			},
			want: errors.ErrTypeMismatch,
			path: "kernel_capabilities[8]",
		},
		{
			name: "save data owner not an object",
			mutate: func(s string) string {
				return strings.Replace(s, `[{"accessibility": 3, "id": "0x0100000000003000"}]`, `[3]`, 1)
			},
			want: errors.ErrTypeMismatch,
			path: "filesystem_access.save_data_owner_ids[0]",
		},
		{
			name:   "duplicate key",
			mutate: func(s string) string { return strings.Replace(s, `"version": 0,`, `"version": 0, "version": 1,`, 1) },
			want:   errors.ErrDuplicate,
			path:   "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(sampleJSON)))
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want kind %s", err, tt.want.Kind)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if got := errors.FormatPath(e.Path); got != tt.path {
				t.Errorf("path = %q, want %q", got, tt.path)
			}
			if e.Phase != errors.PhaseDecode {
				t.Errorf("phase = %s, want %s", e.Phase, errors.PhaseDecode)
			}
		})
	}
}

func TestParseTypeMismatchHasPosition(t *testing.T) {
	_, err := Parse([]byte("name: Application\nis_64_bit: 1\n"))
	if err == nil {
		t.Fatal("Parse() error = nil")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q has no line number", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error %T is not *errors.Error", err)
	}
	if e.Want != "boolean" || e.Value != "integer" {
		t.Errorf("want = %q, value = %v; want boolean, integer", e.Want, e.Value)
	}
	if want := "got integer at line 2, column 12"; e.Detail != want {
		t.Errorf("detail = %q, want %q", e.Detail, want)
	}
}

func TestParseDuplicateKeyPosition(t *testing.T) {
	_, err := Parse([]byte("name: A\nname: B\n"))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindDuplicate {
		t.Fatalf("Parse() error = %v, want duplicate", err)
	}
	if want := `key "name" repeated at line 2, column 1`; e.Detail != want {
		t.Errorf("detail = %q, want %q", e.Detail, want)
	}
}

func TestParseProcessCategory(t *testing.T) {
	doc := strings.Replace(sampleJSON, `"version": 0,`, `"process_category": 0,`, 1)
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("Parse() error = nil")
	}
	if !strings.Contains(err.Error(), "version") {
		t.Errorf("error %q does not point at version", err)
	}
}

func TestParseUnknownCapability(t *testing.T) {
	doc := strings.Replace(sampleJSON, `"type": "handle_table_size"`, `"type": "handle_table_sz"`, 1)
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, ok := cfg.KernelCapabilities[8].(npdm.UnknownCapability); !ok || got.Type != "handle_table_sz" {
		t.Fatalf("capability 8 = %#v, want UnknownCapability", cfg.KernelCapabilities[8])
	}
	if _, err := npdm.Build(cfg); !stderrors.Is(err, errors.ErrUnknownVariant) {
		t.Errorf("Build() error = %v, want unknown_variant", err)
	}
}

func TestParseNegativeNumber(t *testing.T) {
	doc := strings.Replace(sampleJSON, `"default_cpu_id": 0`, `"default_cpu_id": -1`, 1)
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cfg.DefaultCPUID.IsSet() {
		t.Fatal("default_cpu_id not set")
	}
	if _, err := npdm.Build(cfg); !stderrors.Is(err, errors.ErrOutOfRange) {
		t.Errorf("Build() error = %v, want out_of_range", err)
	}
}

func TestParseNumberWiderThan64Bits(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		path string
	}{
		{"above 2^64", `"program_id_range_max": "0x0100000000001fff"`, `"program_id_range_max": 18446744073709551616`, "program_id_range_max"},
		{"below -2^63", `"main_thread_priority": 44`, `"main_thread_priority": -99999999999999999999`, "main_thread_priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(strings.Replace(sampleJSON, tt.old, tt.new, 1)))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			_, err = npdm.Build(cfg)
			if !stderrors.Is(err, errors.ErrOutOfRange) {
				t.Fatalf("Build() error = %v, want out_of_range", err)
			}
			var e *errors.Error
			stderrors.As(err, &e)
			if got := errors.FormatPath(e.Path); got != tt.path {
				t.Errorf("path = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "  \n", "[]", "null"} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) error = nil", in)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Name.IsSet() {
		t.Error("name not decoded")
	}

	_, err = Load(filepath.Join(dir, "missing.json"))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseLoad {
		t.Errorf("Load(missing) error = %v, want load phase error", err)
	}
}

func TestLoggerRecordsAliasAndUnknownKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	doc := strings.Replace(sampleJSON, `"version": 0,`, `"version": 0, "comment": "x",`, 1)
	if _, err := Parse([]byte(doc)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if n := logs.FilterMessage("alias key used").Len(); n != 2 {
		t.Errorf("alias log entries = %d, want 2", n)
	}
	unknown := logs.FilterMessage("ignoring unknown key").All()
	if len(unknown) != 1 || unknown[0].ContextMap()["key"] != "comment" {
		t.Errorf("unknown key log entries = %v, want one for comment", unknown)
	}
}
