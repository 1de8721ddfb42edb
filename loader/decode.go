package loader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/npdm"
)

const (
	tagNull  = "!!null"
	tagBool  = "!!bool"
	tagInt   = "!!int"
	tagStr   = "!!str"
	tagFloat = "!!float"
)

// decoder walks a yaml.Node tree. Like the field reader in npdm it keeps the
// first failure and turns every later read into a no-op.
type decoder struct {
	err error
}

func (d *decoder) failed() bool {
	return d.err != nil
}

func (d *decoder) fail(err *errors.Error) {
	if d.err == nil {
		d.err = err
	}
}

func position(n *yaml.Node) string {
	return fmt.Sprintf("line %d, column %d", n.Line, n.Column)
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "object"
	case yaml.SequenceNode:
		return "list"
	}
	switch n.ShortTag() {
	case tagNull:
		return "null"
	case tagBool:
		return "boolean"
	case tagInt:
		return "integer"
	case tagFloat:
		return "float"
	case tagStr:
		return "string"
	}
	return n.ShortTag()
}

func (d *decoder) mismatch(n *yaml.Node, path []string, want string) {
	e := errors.TypeMismatch(errors.PhaseDecode, path, want, describe(n))
	e.Value = describe(n)
	e.Detail += " at " + position(n)
	d.fail(e)
}

func (d *decoder) missing(path []string, parent *yaml.Node) {
	e := errors.FieldMissing(errors.PhaseDecode, path)
	if parent != nil {
		e.Detail += " in object at " + position(parent)
	}
	d.fail(e)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func appendPath(path []string, seg string) []string {
	return append(path[:len(path):len(path)], seg)
}

// object is a decoded mapping node with key lookup and use tracking.
type object struct {
	d    *decoder
	node *yaml.Node
	path []string
	keys []string
	vals map[string]*yaml.Node
	used map[string]bool
}

func (d *decoder) object(n *yaml.Node, path []string) *object {
	if d.failed() {
		return nil
	}
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		d.mismatch(n, path, "object")
		return nil
	}

	o := &object{
		d:    d,
		node: n,
		path: path,
		vals: make(map[string]*yaml.Node, len(n.Content)/2),
		used: make(map[string]bool),
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if _, dup := o.vals[k.Value]; dup {
			e := errors.Duplicate(errors.PhaseDecode, appendPath(path, k.Value), k.Value)
			e.Detail = fmt.Sprintf("key %q repeated at %s", k.Value, position(k))
			d.fail(e)
			return nil
		}
		o.keys = append(o.keys, k.Value)
		o.vals[k.Value] = v
	}
	return o
}

// lookup returns the first of names present, marking it used. The returned
// path names the key that was found, or the first name when none was.
func (o *object) lookup(names ...string) (*yaml.Node, []string) {
	for i, name := range names {
		if n, ok := o.vals[name]; ok {
			o.used[name] = true
			if i > 0 {
				Logger().Debug("alias key used",
					zap.String("key", errors.FormatPath(appendPath(o.path, name))),
					zap.String("canonical", names[0]))
			}
			return resolveAlias(n), appendPath(o.path, name)
		}
	}
	return nil, appendPath(o.path, names[0])
}

func (o *object) has(name string) bool {
	_, ok := o.vals[name]
	return ok
}

// require is lookup for keys that must be present.
func (o *object) require(names ...string) (*yaml.Node, []string) {
	n, p := o.lookup(names...)
	if n == nil {
		o.d.missing(p, o.node)
	}
	return n, p
}

// unused returns keys never looked up, in document order.
func (o *object) unused() []string {
	var out []string
	for _, k := range o.keys {
		if !o.used[k] {
			out = append(out, k)
		}
	}
	return out
}

// intField reads an optional integer: a native number, or hexadecimal text with
// or without a 0x prefix. Null and absence both leave the field unset.
func (o *object) intField(names ...string) npdm.Int {
	if o == nil || o.d.failed() {
		return npdm.Int{}
	}
	n, p := o.lookup(names...)
	return o.d.int(n, p)
}

func (d *decoder) int(n *yaml.Node, path []string) npdm.Int {
	if d.failed() || n == nil {
		return npdm.Int{}
	}
	switch n.ShortTag() {
	case tagNull:
		return npdm.Int{}
	case tagStr:
		return npdm.Hex(n.Value)
	case tagInt:
		var u uint64
		if err := n.Decode(&u); err == nil {
			return npdm.Num(u)
		}
		var s int64
		if err := n.Decode(&s); err == nil {
			return npdm.Signed(s)
		}
	}
	// Integers too wide for 64 bits resolve as !!float; keep the digits so
	// the range check reports them.
	if n.Kind == yaml.ScalarNode && isInteger(n.Value) {
		return npdm.Decimal(n.Value)
	}
	d.mismatch(n, path, "integer or hexadecimal string")
	return npdm.Int{}
}

// isInteger reports whether s is an optionally signed run of decimal digits.
func isInteger(s string) bool {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// boolField reads an optional boolean.
func (o *object) boolField(name string) npdm.Bool {
	if o == nil || o.d.failed() {
		return npdm.Bool{}
	}
	n, p := o.lookup(name)
	if n == nil {
		return npdm.Bool{}
	}
	if n.ShortTag() != tagBool {
		o.d.mismatch(n, p, "boolean")
		return npdm.Bool{}
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		o.d.mismatch(n, p, "boolean")
		return npdm.Bool{}
	}
	return npdm.BoolOf(b)
}

// textField reads an optional string.
func (o *object) textField(name string) npdm.Text {
	if o == nil || o.d.failed() {
		return npdm.Text{}
	}
	n, p := o.lookup(name)
	if n == nil {
		return npdm.Text{}
	}
	if n.ShortTag() != tagStr {
		o.d.mismatch(n, p, "string")
		return npdm.Text{}
	}
	return npdm.TextOf(n.Value)
}

// list returns the items of a sequence node.
func (d *decoder) list(n *yaml.Node, path []string) []*yaml.Node {
	if d.failed() || n == nil {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.mismatch(n, path, "list")
		return nil
	}
	items := make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		items[i] = resolveAlias(c)
	}
	return items
}

// strings decodes a list of strings.
func (d *decoder) strings(n *yaml.Node, path []string) []string {
	items := d.list(n, path)
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.ShortTag() != tagStr {
			d.mismatch(item, appendPath(path, errors.Index(i)), "string")
			return nil
		}
		out = append(out, item.Value)
	}
	return out
}
