// Package npdm encodes program metadata into an NPDM descriptor.
//
// A descriptor is three regions laid end to end:
//
//	0x00  META  fixed 0x80-byte header; its tail records where ACID and ACI0 landed
//	      ACID  signature and key placeholders, access control limits
//	      ACI0  access control declared by this program instance
//
// ACID and ACI0 start on 0x10 boundaries and both embed the same service
// access table and kernel capability table.
//
// Build validates the whole Config before any byte is written. On failure it
// returns an *errors.Error naming the offending field:
//
//	desc, err := npdm.Build(cfg)
//	if errors.Is(err, errors.ErrTooManyEntries) {
//		...
//	}
//
// Integer fields are Int values so that callers decoding text can hand over
// hexadecimal strings unchanged; range checks happen during Build.
package npdm
