// Package asm is a deliberately naive line-oriented Uxntal assembler:
// literals, raw bytes, opcode mnemonics, origin pads and the console
// device labels. No user labels, no macros, no includes — enough to
// type one-liners into the TUI and smoke-test the machine.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zboralski/tarsier/internal/rom"
	"github.com/zboralski/tarsier/internal/uxn"
)

// deviceLabels maps ".Device/port" names to device page addresses.
// Only the console range is mapped; the rest of the page is reserved.
var deviceLabels = map[string]byte{
	"Console/vector": 0x10,
	"Console/read":   0x12,
	"Console/type":   0x17,
	"Console/write":  0x18,
	"Console/error":  0x19,
}

// Assemble translates Uxntal source into a ROM image starting at the
// reset vector.
func Assemble(src string) ([]byte, error) {
	var out []byte
	comment := 0

	for ln, line := range strings.Split(src, "\n") {
		for _, tok := range strings.Fields(line) {
			if comment > 0 {
				switch tok {
				case "(":
					comment++
				case ")":
					comment--
				}
				continue
			}
			switch {
			case tok == "(":
				comment++
			case tok == ")":
				return nil, errAt(ln, tok, "unbalanced comment")
			case strings.HasPrefix(tok, "|"):
				addr, err := strconv.ParseUint(tok[1:], 16, 16)
				if err != nil {
					return nil, errAt(ln, tok, "bad origin")
				}
				if addr < uxn.ResetVector {
					return nil, errAt(ln, tok, "origin below the reset vector")
				}
				pos := int(addr) - uxn.ResetVector
				if pos < len(out) {
					return nil, errAt(ln, tok, "origin moves backwards")
				}
				out = append(out, make([]byte, pos-len(out))...)
			case strings.HasPrefix(tok, "#"):
				hex := tok[1:]
				v, err := strconv.ParseUint(hex, 16, 16)
				if err != nil {
					return nil, errAt(ln, tok, "bad literal")
				}
				switch len(hex) {
				case 2:
					out = append(out, 0x80, byte(v))
				case 4:
					out = append(out, 0xa0, byte(v>>8), byte(v))
				default:
					return nil, errAt(ln, tok, "literal must be 2 or 4 hex digits")
				}
			case strings.HasPrefix(tok, "."):
				port, ok := deviceLabels[tok[1:]]
				if !ok {
					return nil, errAt(ln, tok, "unknown device label")
				}
				out = append(out, 0x80, port)
			case strings.HasPrefix(tok, "\""):
				out = append(out, tok[1:]...)
			default:
				if ins, ok := uxn.OpByName(tok); ok {
					out = append(out, ins)
					continue
				}
				if b, ok := rawHex(tok); ok {
					out = append(out, b...)
					continue
				}
				return nil, errAt(ln, tok, "unknown token")
			}
		}
	}
	if comment > 0 {
		return nil, fmt.Errorf("asm: unterminated comment")
	}
	if err := rom.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// rawHex accepts bare lowercase hex bytes and shorts, the way Uxntal
// spells raw data.
func rawHex(tok string) ([]byte, bool) {
	if len(tok) != 2 && len(tok) != 4 {
		return nil, false
	}
	for _, c := range tok {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return nil, false
		}
	}
	v, err := strconv.ParseUint(tok, 16, 16)
	if err != nil {
		return nil, false
	}
	if len(tok) == 2 {
		return []byte{byte(v)}, true
	}
	return []byte{byte(v >> 8), byte(v)}, true
}

func errAt(line int, tok, msg string) error {
	return fmt.Errorf("asm: line %d: %q: %s", line+1, tok, msg)
}
