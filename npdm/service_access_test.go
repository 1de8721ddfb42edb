package npdm

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/npdmgen/errors"
)

func TestServiceAccessBytes(t *testing.T) {
	v := &validator{}
	got := encodeServiceAccess(v, []string{"fsp-srv"}, []string{"pm:shell", "hid"})
	if v.err != nil {
		t.Fatalf("error = %v", v.err)
	}

	var want []byte
	want = append(want, 0x86)
	want = append(want, "fsp-srv"...)
	want = append(want, 0x07)
	want = append(want, "pm:shell"...)
	want = append(want, 0x02)
	want = append(want, "hid"...)

	if !bytes.Equal(got, want) {
		t.Errorf("table = % x, want % x", got, want)
	}
}

func TestServiceAccessEmpty(t *testing.T) {
	v := &validator{}
	if got := encodeServiceAccess(v, nil, nil); len(got) != 0 || v.err != nil {
		t.Errorf("empty lists = % x, %v; want no bytes and no error", got, v.err)
	}
}

func TestServiceAccessHostedFirst(t *testing.T) {
	v := &validator{}
	got := encodeServiceAccess(v, []string{"a", "bb"}, []string{"c"})
	want := []byte{0x80, 'a', 0x81, 'b', 'b', 0x00, 'c'}
	if !bytes.Equal(got, want) {
		t.Errorf("table = % x, want % x", got, want)
	}
}

func TestServiceAccessErrors(t *testing.T) {
	tests := []struct {
		name   string
		host   []string
		access []string
		path   string
	}{
		{"nine characters", nil, []string{"ok", "123456789"}, "service_access[1]"},
		{"empty name", []string{""}, nil, "service_host[0]"},
		{"non ascii", []string{"café"}, nil, "service_host[0]"},
		{"control byte", nil, []string{"a\tb"}, "service_access[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validator{}
			got := encodeServiceAccess(v, tt.host, tt.access)
			if got != nil {
				t.Errorf("table = % x, want nil on error", got)
			}
			if !stderrors.Is(v.err, errors.ErrOutOfRange) {
				t.Fatalf("error = %v, want out_of_range", v.err)
			}
			if !strings.Contains(v.err.Error(), tt.path) {
				t.Errorf("error %q does not name %s", v.err, tt.path)
			}
		})
	}
}
