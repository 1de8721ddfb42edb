// Package loader decodes descriptor configuration documents into
// npdm.Config values.
//
// Documents are JSON or YAML. Integer fields take either a native number or
// a hexadecimal string, with or without a 0x prefix:
//
//	{
//	  "name": "Application",
//	  "program_id": "0x0100000000001000",
//	  "main_thread_stack_size": "0x100000",
//	  "is_64_bit": true,
//	  ...
//	  "kernel_capabilities": [
//	    {"type": "handle_table_size", "value": 1023}
//	  ]
//	}
//
// The title_id, title_id_range_min and title_id_range_max keys are accepted
// as aliases of their program_id counterparts. Decoding errors are
// *errors.Error values carrying the JSON path and the line and column of the
// offending node.
package loader
