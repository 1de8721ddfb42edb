package npdm

import (
	"fmt"
	"strconv"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/npdm/internal/binary"
)

const serviceHostBit = 0x80

// encodeServiceAccess builds the service access control table: every hosted
// name, then every accessed name, each as a control byte followed by the raw
// name. The control byte is len-1, with the high bit set for hosted names.
// There is no count or terminator.
func encodeServiceAccess(v *validator, host, access []string) []byte {
	w := binary.NewLE()
	writeServices(v, w, fieldPath{"service_host"}, host, serviceHostBit)
	writeServices(v, w, fieldPath{"service_access"}, access, 0)
	if v.failed() {
		return nil
	}
	return w.Bytes()
}

func writeServices(v *validator, w *binary.Writer, p fieldPath, names []string, control uint8) {
	for i, name := range names {
		if v.failed() {
			return
		}
		ep := p.index(i)
		if len(name) < 1 || len(name) > MaxServiceNameLen {
			v.fail(errors.Constraint(errors.PhaseValidate, ep, strconv.Quote(name),
				fmt.Sprintf("length 1..%d", MaxServiceNameLen)))
			return
		}
		if !isASCII(name) {
			v.fail(errors.Constraint(errors.PhaseValidate, ep, strconv.Quote(name), "ASCII text"))
			return
		}
		w.U8(control | uint8(len(name)-1))
		w.WriteString(name)
	}
}
