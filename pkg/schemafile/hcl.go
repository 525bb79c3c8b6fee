// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclDocument is the HCL shape of a Document: slots are labeled blocks.
//
//	name = "demo"
//	slot "--port" {
//	  aliases = ["-p"]
//	  type    = "port"
//	  default = 8080
//	}
//	positional {
//	  type       = "path"
//	  accumulate = "list"
//	}
type hclDocument struct {
	Name        string         `hcl:"name,optional"`
	Description string         `hcl:"description,optional"`
	Positional  *hclPositional `hcl:"positional,block"`
	Slots       []*hclSlot     `hcl:"slot,block"`
}

type hclSlot struct {
	Name        string    `hcl:"name,label"`
	Aliases     []string  `hcl:"aliases,optional"`
	Description string    `hcl:"description,optional"`
	Type        string    `hcl:"type,optional"`
	Display     string    `hcl:"display,optional"`
	Required    bool      `hcl:"required,optional"`
	Default     cty.Value `hcl:"default,optional"`
	Accumulate  string    `hcl:"accumulate,optional"`
}

type hclPositional struct {
	Type       string `hcl:"type"`
	Display    string `hcl:"display,optional"`
	Accumulate string `hcl:"accumulate,optional"`
}

func parseHCL(data []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %w", diags)
	}
	var parsed hclDocument
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding HCL: %w", diags)
	}

	doc := Document{Name: parsed.Name, Description: parsed.Description}
	if p := parsed.Positional; p != nil {
		doc.Positional = &PositionalSpec{Type: p.Type, Display: p.Display, Accumulate: p.Accumulate}
	}
	for _, s := range parsed.Slots {
		def, err := ctyDefault(s.Default)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", s.Name, err)
		}
		doc.Slots = append(doc.Slots, SlotSpec{
			Name:        s.Name,
			Aliases:     s.Aliases,
			Description: s.Description,
			Type:        s.Type,
			Display:     s.Display,
			Required:    s.Required,
			Default:     def,
			Accumulate:  s.Accumulate,
		})
	}
	// Run the converted document through the same validation as the other
	// formats.
	return fromValue(doc)
}

// ctyDefault turns an HCL default into a token string or a list of them.
func ctyDefault(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: default must be a constant", ErrBadDefault)
	}
	ty := v.Type()
	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		out := []any{}
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := ctyString(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	return ctyString(v)
}

func ctyString(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("%w: null element", ErrBadDefault)
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadDefault, err)
	}
	return s.AsString(), nil
}
