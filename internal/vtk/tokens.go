package vtk

// Low-level scanning shared by the ASCII and binary paths. Header and
// keyword lines are always text; only bulk values differ between the two
// formats, so the parser reads tokens for structure and defers to
// readValues/skipInts for data.

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// readLine reads up to the next newline and returns the line without it.
func (p *parser) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// nextToken skips whitespace and returns the next whitespace-delimited word.
func (p *parser) nextToken() (string, error) {
	var sb strings.Builder
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() > 0 {
				// Leave line terminators unconsumed: binary sections
				// locate their raw data relative to the header line's
				// newline, which must still be in the stream.
				if b == '\n' || b == '\r' {
					if err := p.r.UnreadByte(); err != nil {
						return "", err
					}
				}
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(b)
	}
}

// intToken reads the next token and parses it as a non-negative integer.
func (p *parser) intToken() (int, error) {
	tok, err := p.nextToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", tok)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// intTokens reads count integer tokens.
func (p *parser) intTokens(count int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		n, err := p.intToken()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// typeSize maps legacy VTK data type names to their binary width in bytes.
var typeSize = map[string]int{
	"char": 1, "unsigned_char": 1,
	"short": 2, "unsigned_short": 2,
	"int": 4, "unsigned_int": 4,
	"long": 8, "unsigned_long": 8,
	"float": 4, "double": 8,
}

// readValues reads count numeric values of the given VTK type, decoding
// big-endian raw data in binary mode and whitespace-separated tokens in
// ASCII mode.
func (p *parser) readValues(count int, typ string) ([]float64, error) {
	typ = strings.ToLower(typ)
	if _, ok := typeSize[typ]; !ok {
		return nil, fmt.Errorf("unsupported data type %q", typ)
	}

	if p.binary {
		return p.readBinaryValues(count, typ)
	}

	out := make([]float64, count)
	for i := range out {
		tok, err := p.nextToken()
		if err != nil {
			return nil, fmt.Errorf("value %d/%d: %w", i+1, count, err)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d/%d: bad number %q", i+1, count, tok)
		}
		out[i] = v
	}
	return out, nil
}

// readBinaryValues decodes count big-endian values of the given type.
// Legacy binary VTK is always big-endian regardless of host order. Raw data
// starts on the line after the section header, so the header line's tail is
// discarded first.
func (p *parser) readBinaryValues(count int, typ string) ([]float64, error) {
	if _, err := p.readLine(); err != nil && err != io.EOF {
		return nil, err
	}
	size := typeSize[typ]
	buf := make([]byte, count*size)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return nil, fmt.Errorf("read %d binary %s values: %w", count, typ, err)
	}

	out := make([]float64, count)
	for i := 0; i < count; i++ {
		chunk := buf[i*size : (i+1)*size]
		switch typ {
		case "float":
			out[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(chunk)))
		case "double":
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(chunk))
		case "char":
			out[i] = float64(int8(chunk[0]))
		case "unsigned_char":
			out[i] = float64(chunk[0])
		case "short":
			out[i] = float64(int16(binary.BigEndian.Uint16(chunk)))
		case "unsigned_short":
			out[i] = float64(binary.BigEndian.Uint16(chunk))
		case "int":
			out[i] = float64(int32(binary.BigEndian.Uint32(chunk)))
		case "unsigned_int":
			out[i] = float64(binary.BigEndian.Uint32(chunk))
		case "long":
			out[i] = float64(int64(binary.BigEndian.Uint64(chunk)))
		case "unsigned_long":
			out[i] = float64(binary.BigEndian.Uint64(chunk))
		}
	}
	return out, nil
}

// skipInts discards count connectivity integers (int tokens in ASCII,
// big-endian int32 in binary).
func (p *parser) skipInts(count int) error {
	if p.binary {
		if _, err := p.readLine(); err != nil && err != io.EOF {
			return err
		}
		if _, err := io.CopyN(io.Discard, p.r, int64(count)*4); err != nil {
			return fmt.Errorf("skip %d binary ints: %w", count, err)
		}
		return nil
	}
	for i := 0; i < count; i++ {
		if _, err := p.intToken(); err != nil {
			return fmt.Errorf("skip int %d/%d: %w", i+1, count, err)
		}
	}
	return nil
}
