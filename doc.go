// Package npdmgen generates NPDM program descriptors from JSON or YAML
// configuration files.
//
// An NPDM file tells the console kernel how to launch a program: its name,
// thread parameters, address space, filesystem permissions, the IPC services
// it may host or reach, and the kernel capabilities it is granted. The file
// is made of three regions laid out back to back on 0x10 boundaries:
//
//	META   0x80-byte header; its tail records where ACID and ACI0 live
//	ACID   access control descriptor: signature and key placeholders,
//	       program ID range, filesystem access control, service and
//	       kernel capability tables
//	ACI0   access control info: program ID, filesystem access header,
//	       service and kernel capability tables
//
// # Packages
//
//	npdmgen/
//	├── npdm/            Config model, validation and descriptor encoding
//	├── loader/          JSON/YAML configuration loading with field paths
//	├── errors/          Structured error types shared by every phase
//	└── cmd/npdmtool/    Command line front end (build, check, inspector)
//
// # Quick Start
//
// Build a descriptor from a configuration file:
//
//	cfg, err := loader.Load("app.json")
//	if err != nil {
//	    return err
//	}
//	desc, err := npdm.Build(cfg)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("main.npdm", desc.Bytes, 0o644)
//
// Build validates the whole configuration before any bytes are written, so
// a failing build never yields a partial descriptor. desc.Layout records the
// offset and size of every section and table for inspection.
//
// # Errors
//
// Every failure is an *errors.Error carrying the phase, the kind and the
// configuration path of the offending field. Kinds match the package
// sentinels regardless of phase:
//
//	if stderrors.Is(err, errors.ErrOutOfRange) {
//	    var e *errors.Error
//	    stderrors.As(err, &e)
//	    fmt.Println(errors.FormatPath(e.Path))
//	}
//
// # Command Line
//
//	npdmtool build app.json main.npdm --layout
//	npdmtool build -i app.yaml
//	npdmtool check configs/*.json
package npdmgen
