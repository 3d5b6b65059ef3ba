package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
)

// Snapshot is a serializable view of an element subtree.
type Snapshot struct {
	ID         int                `json:"id"                   yaml:"id"                   cbor:"id"`
	Kind       string             `json:"kind"                 yaml:"kind"                 cbor:"kind"`
	Path       string             `json:"path"                 yaml:"path"                 cbor:"path"`
	Properties []PropertySnapshot `json:"properties,omitempty" yaml:"properties,omitempty" cbor:"properties,omitempty"`
	Children   []*Snapshot        `json:"children,omitempty"   yaml:"children,omitempty"   cbor:"children,omitempty"`
}

// PropertySnapshot describes one binding and, when evaluated, its value.
type PropertySnapshot struct {
	Name   string `json:"name"             yaml:"name"             cbor:"name"`
	Expr   string `json:"expr"             yaml:"expr"             cbor:"expr"`
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty" cbor:"origin,omitempty"`
	Value  any    `json:"value,omitempty"  yaml:"value,omitempty"  cbor:"value,omitempty"`
	Error  string `json:"error,omitempty"  yaml:"error,omitempty"  cbor:"error,omitempty"`
}

// Snapshot captures the subtree rooted at h. If env is non-nil every
// property is also evaluated under it.
func (t *Tree) Snapshot(ctx context.Context, h Handle, env *Env) *Snapshot {
	if env == nil {
		return t.SnapshotWith(ctx, h, nil)
	}

	e := *env

	return t.SnapshotWith(ctx, h, func(Handle) (Env, error) { return e, nil })
}

// SnapshotWith captures the subtree rooted at h, evaluating the properties
// of each element under the environment envOf returns for it. A nil envOf
// captures expressions only; an error from envOf is recorded on every
// property of that element.
func (t *Tree) SnapshotWith(
	ctx context.Context,
	h Handle,
	envOf func(Handle) (Env, error),
) *Snapshot {
	s := &Snapshot{
		ID:   int(h),
		Kind: t.Kind(h),
		Path: t.Path(h),
	}

	var (
		results []Result
		envErr  error
	)

	if envOf != nil {
		var env Env

		env, envErr = envOf(h)
		if envErr == nil {
			results = t.EvaluateAll(ctx, h, env)
		}
	}

	i := 0
	for name, b := range t.Bindings(h) {
		p := PropertySnapshot{
			Name:   name,
			Expr:   t.Describe(b.Value),
			Origin: b.Origin,
		}

		switch {
		case envErr != nil:
			p.Error = envErr.Error()
		case results == nil:
		case results[i].Err != nil:
			p.Error = results[i].Err.Error()
		default:
			p.Value = ToNative(results[i].Value)
		}

		s.Properties = append(s.Properties, p)
		i++
	}

	for _, c := range t.elems[h].children {
		s.Children = append(s.Children, t.SnapshotWith(ctx, c, envOf))
	}

	return s
}

// ToNative converts a concrete value to a plain Go value: numbers become
// float64, strings stay strings, and quantities keep their unit as text.
func ToNative(v Value) any {
	switch v := v.(type) {
	case Number:
		return v.X
	case String:
		return v.S
	case nil:
		return nil
	default:
		return v.String()
	}
}

// FormatTree writes s as an indented outline.
func (s *Snapshot) FormatTree(_ context.Context, w io.Writer, indent int) error {
	return s.formatTree(w, strings.Repeat(" ", indent), 0)
}

func (s *Snapshot) formatTree(w io.Writer, unit string, depth int) error {
	pad := strings.Repeat(unit, depth)

	if _, err := fmt.Fprintf(w, "%s%s#%d\n", pad, s.Kind, s.ID); err != nil {
		return err
	}

	for _, p := range s.Properties {
		line := pad + unit + p.Name + " = " + p.Expr

		switch {
		case p.Error != "":
			line += " => error: " + p.Error
		case p.Value != nil:
			line += " => " + fmt.Sprint(p.Value)
		}

		if p.Origin != "" {
			line += "  [" + p.Origin + "]"
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for _, c := range s.Children {
		if err := c.formatTree(w, unit, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes s as JSON.
func (s *Snapshot) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(s, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes s as YAML.
func (s *Snapshot) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, s, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatCBOR writes s in deterministic CBOR encoding.
func (s *Snapshot) FormatCBOR(_ context.Context, w io.Writer, _ int) error {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}

	data, err := em.Marshal(s)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
