// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argv

var switchOutcome = Decoded(true, true)

// Parse decodes args against the schema. args[0] is taken as the program
// path whatever its text. Parsing stops at the first error, which is
// available from Result.Err.
func (s *Schema) Parse(args []string) *Result {
	r := newResult(s)
	c := NewCursor(s.tag(args))
	if c.Len() > 0 {
		r.path = c.token(0).Text
		c.Consume()
	}
	for c.Index() < c.Len() {
		if err := s.step(c, r); err != nil {
			s.logger.Debug("parse failed", "kind", err.Kind.String(), "index", err.TokenIndex, "slot", err.SlotName, "expected", err.Expected)
			r.err = err
			return r
		}
	}
	if err := s.finish(r, c.Len()); err != nil {
		s.logger.Debug("parse failed", "kind", err.Kind.String(), "slot", err.SlotName)
		r.err = err
	}
	return r
}

// step handles the token at the cursor: a slot marker and its value, or a
// positional value.
func (s *Schema) step(c *Cursor, r *Result) *ParseError {
	at := c.Index()
	tok := c.token(at)
	if tok.Slot != 0 {
		i := tok.Slot - 1
		slot := s.slots[i]
		c.Consume()
		start := c.Index()
		o := switchOutcome
		if slot.Decoder != nil {
			o = slot.Decoder.Decode(c)
		}
		s.logger.Debug("slot", "token", at, "slot", slot.Name, "ok", o.OK(), "explicit", o.Explicit(), "next", c.Index())
		if !o.OK() {
			if pos, ok := o.position(); ok && pos > start {
				start = pos
			}
			return s.invalid(c, start, i, slot.Name, slot.TypeName(), o.Expected())
		}
		if !r.values[i].insert(slot.Modifier, o.Value()) {
			return &ParseError{
				Kind:       AmbiguousArgumentValue,
				TokenIndex: at,
				Token:      tok.Text,
				SlotIndex:  i,
				SlotName:   slot.Name,
				SlotType:   slot.TypeName(),
			}
		}
		return nil
	}

	p := s.positional
	if p == nil {
		return &ParseError{Kind: StrayValue, TokenIndex: at, Token: tok.Text, SlotIndex: -1}
	}
	o := p.Decoder.Decode(c)
	s.logger.Debug("positional", "token", at, "ok", o.OK(), "explicit", o.Explicit(), "next", c.Index())
	if !o.OK() {
		if pos, ok := o.position(); ok && pos > at {
			return s.invalid(c, pos, -1, "", p.TypeName(), o.Expected())
		}
		return s.invalid(c, at, -1, "", p.TypeName(), o.Expected())
	}
	if c.Index() == at {
		// Nothing was read, so the same token would come back forever.
		return s.invalid(c, at, -1, "", p.TypeName(), p.TypeName())
	}
	if !r.positional.insert(p.Modifier, o.Value()) {
		return &ParseError{
			Kind:       AmbiguousArgumentValue,
			TokenIndex: at,
			Token:      tok.Text,
			SlotIndex:  -1,
			SlotType:   p.TypeName(),
		}
	}
	return nil
}

func (s *Schema) invalid(c *Cursor, at, slot int, name, typ, expected string) *ParseError {
	e := &ParseError{
		Kind:       InvalidArgumentValue,
		TokenIndex: at,
		SlotIndex:  slot,
		SlotName:   name,
		SlotType:   typ,
		Expected:   expected,
	}
	if at < c.Len() {
		e.Token = c.token(at).Text
	} else {
		e.eoi = true
	}
	return e
}

// finish checks required slots and then fills defaults.
func (s *Schema) finish(r *Result, n int) *ParseError {
	for i, slot := range s.slots {
		if slot.Modifier.IsRequired() && r.values[i].count == 0 {
			return &ParseError{
				Kind:       MissingArgument,
				TokenIndex: n,
				SlotIndex:  i,
				SlotName:   slot.Name,
				SlotType:   slot.TypeName(),
			}
		}
	}
	for i, slot := range s.slots {
		sv := &r.values[i]
		if slot.Modifier.HasDefault() && sv.count == 0 {
			sv.value = slot.Modifier.provide()
			sv.defaulted = true
			s.logger.Debug("default", "slot", slot.Name)
		}
	}
	return nil
}
