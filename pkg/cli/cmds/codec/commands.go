package codec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/optolink/pkg/bits"
	"github.com/robotalks/optolink/pkg/cli/sh"
	"github.com/robotalks/optolink/pkg/frame"
	"github.com/robotalks/optolink/pkg/huffman"
	"github.com/robotalks/optolink/pkg/link"
)

// CodeRow describes the code of one symbol.
type CodeRow struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
	Code   string `json:"code"`
}

// CodeRows lists the code table of the session, shortest codes first.
func CodeRows(s *link.Session) []CodeRow {
	freqs := huffman.FrequencyTable(s.Message)
	rows := make([]CodeRow, 0, len(s.Codebook.Table))
	for r, code := range s.Codebook.Table {
		rows = append(rows, CodeRow{Symbol: fmt.Sprintf("%q", r), Count: freqs[r], Code: code.String()})
	}
	sort.Slice(rows, func(i, j int) bool {
		if len(rows[i].Code) != len(rows[j].Code) {
			return len(rows[i].Code) < len(rows[j].Code)
		}
		return rows[i].Code < rows[j].Code
	})
	return rows
}

// FrameInfo describes the framed session message.
type FrameInfo struct {
	PayloadBits int    `json:"payload_bits"`
	Pad         int    `json:"pad"`
	Checksum    uint32 `json:"checksum"`
	Bits        string `json:"bits"`
}

// DescribeFrame summarizes a frame.
func DescribeFrame(f *frame.Frame) FrameInfo {
	return FrameInfo{
		PayloadBits: len(f.Payload),
		Pad:         f.Pad,
		Checksum:    f.Bits.Uint32LSB(f.Len() - frame.ChecksumBits),
		Bits:        f.Bits.String(),
	}
}

// ParseBits joins args and parses them as a bit string, blanks ignored.
func ParseBits(args []string) (bits.Seq, error) {
	return bits.Parse(strings.Join(args, ""))
}

func (i FrameInfo) String() string {
	return fmt.Sprintf("payload %d bits, pad %d, checksum %d\n%s", i.PayloadBits, i.Pad, i.Checksum, i.Bits)
}

func formatVerdict(v frame.Verdict) string {
	state := "INVALID"
	if v.Valid {
		state = "VALID"
	}
	return fmt.Sprintf("%s fidelity %.5f sum %d checksum %d", state, v.Fidelity, v.Sum, v.Checksum)
}

var (
	messageCmd = &ishell.Cmd{
		Name: "message",
		Help: "message TEXT...: rebuild the codebook and frame from TEXT",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("message text expected"))
				return
			}
			if err := sh.ShellFrom(c).Load(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		},
	}

	codesCmd = &ishell.Cmd{
		Name:    "codes",
		Aliases: []string{"table"},
		Help:    "codes: print the code of every symbol",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			rows := CodeRows(s)
			lines := make([]string, 0, len(rows))
			for _, row := range rows {
				lines = append(lines, fmt.Sprintf("%-6s %6d  %s", row.Symbol, row.Count, row.Code))
			}
			sh.Print(c, rows, strings.Join(lines, "\n"))
		}),
	}

	encodeCmd = &ishell.Cmd{
		Name: "encode",
		Help: "encode [TEXT...]: encode TEXT, the message by default",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			text := s.Message
			if len(c.Args) > 0 {
				text = strings.Join(c.Args, " ")
			}
			seq, err := s.Codebook.Encode(text)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Print(c, map[string]interface{}{"bits": seq.String(), "len": len(seq)}, seq.String())
		}),
	}

	decodeCmd = &ishell.Cmd{
		Name: "decode",
		Help: "decode BITS...: decode BITS with the codebook",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			seq, err := ParseBits(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			text, err := s.Codebook.Decode(seq)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Print(c, map[string]string{"text": text}, text)
		}),
	}

	frameCmd = &ishell.Cmd{
		Name: "frame",
		Help: "frame: print the framed message",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			info := DescribeFrame(s.Frame)
			sh.Print(c, info, info.String())
		}),
	}

	validateCmd = &ishell.Cmd{
		Name: "validate",
		Help: "validate [BITS...]: validate a framed sequence, the message frame by default",
		Func: sh.MustHaveSession(func(c *ishell.Context, s *link.Session) {
			seq := s.Frame.Bits
			if len(c.Args) > 0 {
				var err error
				if seq, err = ParseBits(c.Args); err != nil {
					c.Err(err)
					return
				}
			}
			v := frame.Validate(seq, s.Protocol.Acceptance)
			sh.Print(c, v, formatVerdict(v))
		}),
	}
)

func init() {
	sh.AddCmds(messageCmd, codesCmd, encodeCmd, decodeCmd, frameCmd, validateCmd)
}
